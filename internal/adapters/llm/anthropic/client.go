// Package anthropic adapts the Anthropic Messages API to narrative.Completer.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/okian/recupero/internal/domain/narrative"
	"github.com/okian/recupero/pkg/logger"
)

// Defaults for the Messages API.
const (
	DefaultBaseURL = "https://api.anthropic.com/"
	DefaultModel   = "claude-sonnet-4-5"

	maxErrorBody = 4 << 10
)

// ErrMissingAPIKey is returned when no key was configured.
var ErrMissingAPIKey = errors.New("anthropic: API key not configured")

// Config holds client settings.
type Config struct {
	APIKey string
	// BaseURL is the API root; the client appends v1/messages.
	BaseURL string
	Model   string
	// Timeout bounds the HTTP exchange. Zero means no client-side timeout.
	Timeout time.Duration
	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client implements narrative.Completer over the Messages API.
type Client struct {
	api    sdk.Client
	apiKey string
	model  string
	log    logger.Logger
}

// New creates a client. Empty fields fall back to the package defaults.
func New(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		apiKey: strings.TrimSpace(cfg.APIKey),
		model:  cfg.Model,
		log:    logger.Named("anthropic"),
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	c.api = sdk.NewClient(
		option.WithAPIKey(c.apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)
	return c
}

// Complete sends one user-role message and returns the raw content payload.
func (c *Client) Complete(ctx context.Context, req narrative.Request) (narrative.Content, error) {
	if c.apiKey == "" {
		return narrative.Content{}, ErrMissingAPIKey
	}
	if err := ctx.Err(); err != nil {
		return narrative.Content{}, err
	}

	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = narrative.DefaultMaxTokens
	}

	msg, err := c.api.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt))},
	})
	if err != nil {
		var apiErr *sdk.Error
		if errors.As(err, &apiErr) {
			body := apiErr.RawJSON()
			if body == "" {
				body = apiErr.Error()
			}
			return narrative.Content{}, statusError(apiErr.StatusCode, []byte(body))
		}
		return narrative.Content{}, fmt.Errorf("request failed: %w", err)
	}

	content, err := decode(msg)
	if err != nil {
		return narrative.Content{}, err
	}

	c.log.Debug(ctx, "messages call completed",
		logger.String("model", string(msg.Model)),
		logger.String("stop_reason", string(msg.StopReason)),
		logger.Int("input_tokens", int(msg.Usage.InputTokens)),
		logger.Int("output_tokens", int(msg.Usage.OutputTokens)))
	return content, nil
}

// decode maps the message body onto narrative.Content. The raw JSON keeps
// whatever shape the endpoint sent so the tagged decoder sees it unchanged.
func decode(msg *sdk.Message) (narrative.Content, error) {
	if raw := msg.RawJSON(); raw != "" {
		var out messagesResponse
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return narrative.Content{}, fmt.Errorf("parse response: %w", err)
		}
		if out.Error != nil {
			return narrative.Content{}, fmt.Errorf("api error %s: %s", out.Error.Type, out.Error.Message)
		}
		if out.Content == nil {
			return narrative.Content{}, fmt.Errorf("parse response: %w", narrative.ErrEmptyContent)
		}
		return *out.Content, nil
	}

	if len(msg.Content) == 0 {
		return narrative.Content{}, fmt.Errorf("parse response: %w", narrative.ErrEmptyContent)
	}
	blocks := make([]narrative.Content, 0, len(msg.Content))
	for _, b := range msg.Content {
		blocks = append(blocks, narrative.SegmentContent(b.Type, b.Text))
	}
	return narrative.SequenceContent(blocks...), nil
}

func statusError(code int, body []byte) error {
	var envelope struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		return fmt.Errorf("status %d: %s: %s", code, envelope.Error.Type, envelope.Error.Message)
	}
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return fmt.Errorf("status %d: %s", code, strings.TrimSpace(string(body)))
}
