// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"context"
	"time"
)

// Data source drivers.
const (
	DriverSheets   = "sheets"
	DriverWorkbook = "workbook"
)

// LLM providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Locale selects the language of the prompt and the dashboard: es or en.
	Locale string `koanf:"locale"`

	HTTP    HTTPConfig    `koanf:"http"`
	Source  SourceConfig  `koanf:"source"`
	LLM     LLMConfig     `koanf:"llm"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// HTTPConfig bounds the HTTP server. WriteTimeout must cover a full
// analysis including the model call.
type HTTPConfig struct {
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SourceConfig selects and configures the spreadsheet gateway.
type SourceConfig struct {
	Driver string `koanf:"driver"`

	// Google Sheets.
	SpreadsheetID   string `koanf:"spreadsheet_id"`
	CredentialsFile string `koanf:"credentials_file"`
	CredentialsJSON string `koanf:"credentials_json"`

	// Local .xlsx or .csv file.
	WorkbookPath string `koanf:"workbook_path"`
}

// LLMConfig configures the narrative provider.
type LLMConfig struct {
	Provider  string `koanf:"provider"`
	APIKey    string `koanf:"api_key"`
	Model     string `koanf:"model"`
	MaxTokens int    `koanf:"max_tokens"`
	BaseURL   string `koanf:"base_url"`
	// Timeout bounds each model call. Zero disables it.
	Timeout time.Duration `koanf:"timeout"`
}

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	Enabled         bool          `koanf:"enabled"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Addr:      ":9080",
		Locale:    "es",
		HTTP: HTTPConfig{
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    3 * time.Minute,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Source: SourceConfig{
			Driver: DriverSheets,
		},
		LLM: LLMConfig{
			Provider:  ProviderAnthropic,
			MaxTokens: 1000,
		},
		Metrics: MetricsConfig{
			Enabled:         true,
			RefreshInterval: 15 * time.Second,
		},
	}
}
