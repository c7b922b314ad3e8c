// Package gemini adapts the Google GenAI SDK to narrative.Completer.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/okian/recupero/internal/domain/narrative"
	"google.golang.org/genai"
)

// DefaultModel is used when neither the config nor the request names one.
const DefaultModel = "gemini-2.5-flash"

// ErrMissingAPIKey is returned by New when no key was configured.
var ErrMissingAPIKey = errors.New("gemini: API key not configured")

// Config holds client settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client implements narrative.Completer with the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{client: client, model: model}, nil
}

// Complete sends the prompt as a single user turn. The first candidate comes
// back as a one-segment sequence; no candidates is an empty sequence.
func (c *Client) Complete(ctx context.Context, req narrative.Request) (narrative.Content, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	var gc *genai.GenerateContentConfig
	if req.MaxTokens > 0 {
		gc = &genai.GenerateContentConfig{MaxOutputTokens: int32(req.MaxTokens)}
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), gc)
	if err != nil {
		return narrative.Content{}, fmt.Errorf("GenAI generate failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return narrative.SequenceContent(), nil
	}

	// Long answers arrive split across the parts of one message.
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	if b.Len() == 0 {
		return narrative.SequenceContent(), nil
	}
	return narrative.SequenceContent(narrative.SegmentContent("text", b.String())), nil
}
