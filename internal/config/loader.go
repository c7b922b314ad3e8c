package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment names.
const (
	EnvPrefix = "RECUPERO_"
	EnvFile   = EnvPrefix + "CONFIG"
)

// Conventional secret names honored when the prefixed keys are unset.
var secretFallbacks = []struct {
	env   string
	apply func(c *Config, v string)
}{
	{"SHEET_ID", func(c *Config, v string) { setIfEmpty(&c.Source.SpreadsheetID, v) }},
	{"GOOGLE_CREDENTIALS", func(c *Config, v string) { setIfEmpty(&c.Source.CredentialsJSON, v) }},
	{"GOOGLE_APPLICATION_CREDENTIALS", func(c *Config, v string) { setIfEmpty(&c.Source.CredentialsFile, v) }},
	{"ANTHROPIC_API_KEY", func(c *Config, v string) {
		if c.LLM.Provider == ProviderAnthropic {
			setIfEmpty(&c.LLM.APIKey, v)
		}
	}},
	{"GEMINI_API_KEY", func(c *Config, v string) {
		if c.LLM.Provider == ProviderGemini {
			setIfEmpty(&c.LLM.APIKey, v)
		}
	}},
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if RECUPERO_CONFIG is set
//  3. env (prefix RECUPERO_, "__" separates nested keys)
//  4. conventional secret names, only for fields still empty
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(EnvFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// RECUPERO_LLM__API_KEY -> llm.api_key
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		if s == "CONFIG" {
			return ""
		}
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	for _, f := range secretFallbacks {
		if v := os.Getenv(f.env); v != "" {
			f.apply(&cfg, v)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setIfEmpty(dst *string, v string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = v
	}
}

// Validate checks that every setting needed at startup is present. A
// missing LLM key is not an error here: it surfaces per analysis.
func (c *Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	switch c.Locale {
	case "es", "en":
	default:
		errs = append(errs, fmt.Errorf("unknown locale %q", c.Locale))
	}

	switch c.Source.Driver {
	case DriverSheets:
		if c.Source.SpreadsheetID == "" {
			errs = append(errs, errors.New("source.spreadsheet_id is required for the sheets driver"))
		}
		if c.Source.CredentialsJSON == "" && c.Source.CredentialsFile == "" {
			errs = append(errs, errors.New("source.credentials_json or source.credentials_file is required for the sheets driver"))
		}
	case DriverWorkbook:
		if c.Source.WorkbookPath == "" {
			errs = append(errs, errors.New("source.workbook_path is required for the workbook driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source.driver %q", c.Source.Driver))
	}

	switch c.LLM.Provider {
	case ProviderAnthropic, ProviderGemini:
	default:
		errs = append(errs, fmt.Errorf("unknown llm.provider %q", c.LLM.Provider))
	}
	if c.LLM.MaxTokens <= 0 {
		errs = append(errs, errors.New("llm.max_tokens must be positive"))
	}
	if c.LLM.Timeout < 0 {
		errs = append(errs, errors.New("llm.timeout must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
