package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/recupero/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

// clearConfigEnvVars blanks every variable Load reads for the test's duration.
func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		config.EnvFile,
		"SHEET_ID", "GOOGLE_CREDENTIALS", "GOOGLE_APPLICATION_CREDENTIALS",
		"ANTHROPIC_API_KEY", "GEMINI_API_KEY",
	} {
		t.Setenv(name, "")
	}
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, config.EnvPrefix) {
			t.Setenv(name, "")
			_ = os.Unsetenv(name)
		}
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars(t)

		convey.Convey("When only the conventional secret names are set", func() {
			t.Setenv("SHEET_ID", "sheet-123")
			t.Setenv("GOOGLE_CREDENTIALS", `{"type":"service_account"}`)
			t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
			t.Setenv("GEMINI_API_KEY", "gm-key")

			cfg, err := config.Load(ctx)

			convey.Convey("Then they fill the empty fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.Source.SpreadsheetID, convey.ShouldEqual, "sheet-123")
				convey.So(cfg.Source.CredentialsJSON, convey.ShouldEqual, `{"type":"service_account"}`)
				convey.So(cfg.LLM.APIKey, convey.ShouldEqual, "sk-ant")
			})
		})

		convey.Convey("When loading config with prefixed environment variables", func() {
			t.Setenv("RECUPERO_ADDR", ":8080")
			t.Setenv("RECUPERO_LOCALE", "en")
			t.Setenv("RECUPERO_SOURCE__DRIVER", "workbook")
			t.Setenv("RECUPERO_SOURCE__WORKBOOK_PATH", "/tmp/recuperos.xlsx")
			t.Setenv("RECUPERO_LLM__PROVIDER", "gemini")
			t.Setenv("RECUPERO_LLM__MAX_TOKENS", "1500")
			t.Setenv("RECUPERO_LLM__TIMEOUT", "45s")
			t.Setenv("RECUPERO_METRICS__ENABLED", "false")
			t.Setenv("GEMINI_API_KEY", "gm-key")
			t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

			cfg, err := config.Load(ctx)

			convey.Convey("Then nested keys override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Locale, convey.ShouldEqual, "en")
				convey.So(cfg.Source.Driver, convey.ShouldEqual, config.DriverWorkbook)
				convey.So(cfg.Source.WorkbookPath, convey.ShouldEqual, "/tmp/recuperos.xlsx")
				convey.So(cfg.LLM.MaxTokens, convey.ShouldEqual, 1500)
				convey.So(cfg.LLM.Timeout, convey.ShouldEqual, 45*time.Second)
				convey.So(cfg.Metrics.Enabled, convey.ShouldBeFalse)
			})

			convey.Convey("And the key of the selected provider is used", func() {
				convey.So(cfg.LLM.APIKey, convey.ShouldEqual, "gm-key")
			})
		})

		convey.Convey("When an explicit key and a fallback are both set", func() {
			t.Setenv("RECUPERO_SOURCE__DRIVER", "workbook")
			t.Setenv("RECUPERO_SOURCE__WORKBOOK_PATH", "x.xlsx")
			t.Setenv("RECUPERO_LLM__API_KEY", "explicit")
			t.Setenv("ANTHROPIC_API_KEY", "fallback")

			cfg, err := config.Load(ctx)

			convey.Convey("Then the explicit key wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LLM.APIKey, convey.ShouldEqual, "explicit")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			path := filepath.Join(t.TempDir(), "config.yaml")
			yaml := `
addr: ":7000"
log_level: debug
http:
  write_timeout: 5m
source:
  driver: sheets
  spreadsheet_id: from-file
  credentials_file: /etc/recupero/sa.json
llm:
  model: claude-sonnet-4-5
  max_tokens: 800
`
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			t.Setenv(config.EnvFile, path)
			t.Setenv("RECUPERO_LLM__MAX_TOKENS", "900")

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values apply and env vars take precedence", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7000")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.HTTP.WriteTimeout, convey.ShouldEqual, 5*time.Minute)
				convey.So(cfg.HTTP.ReadTimeout, convey.ShouldEqual, 10*time.Second)
				convey.So(cfg.Source.SpreadsheetID, convey.ShouldEqual, "from-file")
				convey.So(cfg.LLM.Model, convey.ShouldEqual, "claude-sonnet-4-5")
				convey.So(cfg.LLM.MaxTokens, convey.ShouldEqual, 900)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			t.Setenv(config.EnvFile, filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := config.Load(ctx)

			convey.Convey("Then loading fails", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When required settings are missing", func() {
			_, err := config.Load(ctx)

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
