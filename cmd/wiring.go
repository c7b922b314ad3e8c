package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/recupero/internal/adapters/http/api"
	"github.com/okian/recupero/internal/adapters/http/site"
	"github.com/okian/recupero/internal/adapters/http/swagger"
	"github.com/okian/recupero/internal/adapters/llm/anthropic"
	"github.com/okian/recupero/internal/adapters/llm/gemini"
	"github.com/okian/recupero/internal/adapters/sheets"
	"github.com/okian/recupero/internal/adapters/workbook"
	service "github.com/okian/recupero/internal/app"
	"github.com/okian/recupero/internal/config"
	"github.com/okian/recupero/internal/domain/narrative"
	"github.com/okian/recupero/pkg/logger"
)

var errUnknownDriver = errors.New("unknown source driver")

// newService builds the application context from cfg. The data source is
// opened later by Start.
func newService(ctx context.Context, cfg *config.Config) (*service.Service, error) {
	connect, err := connector(cfg.Source)
	if err != nil {
		return nil, err
	}

	opts := []service.Option{
		service.WithConnector(connect),
		service.WithLogger(logger.Named("service")),
	}

	narrator, err := newNarrator(ctx, cfg)
	if err != nil {
		// The dashboard still shows counts and rows without a model.
		logger.Get().Error(ctx, "narrative generator disabled", logger.String("provider", cfg.LLM.Provider), logger.Error(err))
	} else {
		opts = append(opts, service.WithNarrator(narrator))
	}

	return service.New(opts...), nil
}

// connector returns the open function for the configured driver.
func connector(src config.SourceConfig) (service.ConnectFunc, error) {
	switch src.Driver {
	case config.DriverSheets:
		sc := sheets.Config{
			SpreadsheetID:   src.SpreadsheetID,
			CredentialsFile: src.CredentialsFile,
		}
		if src.CredentialsJSON != "" {
			sc.CredentialsJSON = []byte(src.CredentialsJSON)
		}
		return func(ctx context.Context) (service.Source, error) {
			return sheets.Connect(ctx, sc)
		}, nil
	case config.DriverWorkbook:
		path := src.WorkbookPath
		return func(ctx context.Context) (service.Source, error) {
			return workbook.Open(ctx, path)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownDriver, src.Driver)
	}
}

func newNarrator(ctx context.Context, cfg *config.Config) (*narrative.Generator, error) {
	locale, err := narrative.ParseLocale(cfg.Locale)
	if err != nil {
		return nil, err
	}

	var completer narrative.Completer
	switch cfg.LLM.Provider {
	case config.ProviderAnthropic:
		completer = anthropic.New(anthropic.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		})
	case config.ProviderGemini:
		c, err := gemini.New(ctx, gemini.Config{
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			BaseURL: cfg.LLM.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		completer = c
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}

	return narrative.NewGenerator(completer,
		narrative.WithModel(cfg.LLM.Model),
		narrative.WithMaxTokens(cfg.LLM.MaxTokens),
		narrative.WithLocale(locale),
		narrative.WithTimeout(cfg.LLM.Timeout),
		narrative.WithProvider(cfg.LLM.Provider),
	), nil
}

// newMux registers the dashboard, the JSON API and the docs.
func newMux(ctx context.Context, cfg *config.Config, svc *service.Service) (*http.ServeMux, error) {
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)

	dashboard, err := site.New(svc, cfg.Locale)
	if err != nil {
		return nil, err
	}
	dashboard.Register(ctx, mux)
	return mux, nil
}
