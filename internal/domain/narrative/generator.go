package narrative

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/okian/recupero/internal/domain/record"
	"github.com/okian/recupero/pkg/logger"
	"github.com/okian/recupero/pkg/metrics"
)

// Default generation parameters.
const (
	DefaultMaxTokens = 1000
	defaultProvider  = "unknown"
)

var errNoRecords = errors.New("no records to analyze")

// Request is a single-turn completion request.
type Request struct {
	Model     string
	MaxTokens int
	Prompt    string
}

// Completer submits one user-role message to a hosted model and returns
// its raw content payload.
type Completer interface {
	Complete(ctx context.Context, req Request) (Content, error)
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithModel sets the model identifier sent with every request.
func WithModel(model string) Option {
	return func(g *Generator) {
		g.model = strings.TrimSpace(model)
	}
}

// WithMaxTokens bounds the length of the answer.
func WithMaxTokens(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

// WithLocale selects the prompt language.
func WithLocale(l Locale) Option {
	return func(g *Generator) {
		if l != "" {
			g.locale = l
		}
	}
}

// WithTimeout bounds each completion call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d >= 0 {
			g.timeout = d
		}
	}
}

// WithProvider names the backing provider in metrics and logs.
func WithProvider(name string) Option {
	return func(g *Generator) {
		if name != "" {
			g.provider = name
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// Generator produces the markdown report for one student.
type Generator struct {
	completer Completer
	model     string
	maxTokens int
	locale    Locale
	timeout   time.Duration
	provider  string
	log       logger.Logger
}

// NewGenerator returns a Generator backed by c.
func NewGenerator(c Completer, opts ...Option) *Generator {
	g := &Generator{
		completer: c,
		maxTokens: DefaultMaxTokens,
		locale:    DefaultLocale,
		provider:  defaultProvider,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = logger.Named("narrative")
	}
	return g
}

// Locale returns the configured prompt language.
func (g *Generator) Locale() Locale { return g.locale }

// Generate renders the prompt from set and summary, submits it, and returns
// the unwrapped, cleaned report. Every failure is a *GenerationError.
func (g *Generator) Generate(ctx context.Context, set record.Set, summary record.Summary) (string, error) {
	if set.Empty() {
		return "", &GenerationError{Op: "prompt", Err: errNoRecords}
	}
	if g.completer == nil {
		return "", &GenerationError{Op: "complete", Err: errors.New("no completer configured")}
	}

	prompt, err := BuildPrompt(g.locale, set, summary)
	if err != nil {
		return "", &GenerationError{Op: "prompt", Err: err}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	content, err := g.completer.Complete(ctx, Request{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Prompt:    prompt,
	})
	elapsed := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordLLMRequest(g.provider, "error", elapsed)
		g.log.Error(ctx, "completion failed",
			logger.String("provider", g.provider),
			logger.Float64("duration_ms", elapsed),
			logger.Error(err))
		return "", &GenerationError{Op: "complete", Err: err}
	}

	text, err := content.Text()
	if err != nil {
		metrics.RecordLLMRequest(g.provider, "empty", elapsed)
		return "", &GenerationError{Op: "decode", Err: err}
	}
	text = strings.TrimSpace(Clean(text))
	if text == "" {
		metrics.RecordLLMRequest(g.provider, "empty", elapsed)
		return "", &GenerationError{Op: "decode", Err: ErrEmptyContent}
	}

	metrics.RecordLLMRequest(g.provider, "ok", elapsed)
	metrics.RecordLLMResponseSize(len(text))
	g.log.Debug(ctx, "report generated",
		logger.String("provider", g.provider),
		logger.Int("prompt_bytes", len(prompt)),
		logger.Int("report_bytes", len(text)),
		logger.Float64("duration_ms", elapsed))
	return text, nil
}
