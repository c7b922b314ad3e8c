// Package sheets reads student records from the first worksheet of a Google
// Sheets spreadsheet using a service-account credential.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/okian/recupero/internal/domain/record"
	"github.com/okian/recupero/pkg/logger"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// Errors returned by Connect.
var (
	ErrMissingSpreadsheetID = errors.New("spreadsheet id is empty")
	ErrMissingCredentials   = errors.New("service account credentials are empty")
	ErrNoWorksheets         = errors.New("spreadsheet has no worksheets")
)

// Config holds connection settings. CredentialsJSON takes precedence over
// CredentialsFile.
type Config struct {
	SpreadsheetID   string
	CredentialsJSON []byte
	CredentialsFile string

	// Endpoint overrides the API endpoint and disables authentication.
	Endpoint string
}

// Sheet is a long-lived handle on the first worksheet of a spreadsheet.
type Sheet struct {
	svc   *gsheets.Service
	id    string
	title string
	log   logger.Logger
}

// Connect authenticates and resolves the title of worksheet 0.
func Connect(ctx context.Context, cfg Config) (*Sheet, error) {
	id := strings.TrimSpace(cfg.SpreadsheetID)
	if id == "" {
		return nil, ErrMissingSpreadsheetID
	}

	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	meta, err := svc.Spreadsheets.Get(id).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	title, err := firstSheetTitle(meta)
	if err != nil {
		return nil, err
	}

	s := &Sheet{svc: svc, id: id, title: title, log: logger.Named("sheets")}
	s.log.Info(ctx, "connected to spreadsheet", logger.String("worksheet", title))
	return s, nil
}

func clientOptions(cfg Config) ([]option.ClientOption, error) {
	if cfg.Endpoint != "" {
		return []option.ClientOption{
			option.WithEndpoint(cfg.Endpoint),
			option.WithoutAuthentication(),
		}, nil
	}

	creds := cfg.CredentialsJSON
	if len(creds) == 0 && cfg.CredentialsFile != "" {
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		creds = b
	}
	if len(strings.TrimSpace(string(creds))) == 0 {
		return nil, ErrMissingCredentials
	}

	return []option.ClientOption{
		option.WithCredentialsJSON(creds),
		option.WithScopes(gsheets.SpreadsheetsReadonlyScope),
	}, nil
}

func firstSheetTitle(meta *gsheets.Spreadsheet) (string, error) {
	var (
		title string
		found bool
	)
	for _, sh := range meta.Sheets {
		if sh == nil || sh.Properties == nil {
			continue
		}
		if sh.Properties.Index == 0 {
			return sh.Properties.Title, nil
		}
		if !found {
			title, found = sh.Properties.Title, true
		}
	}
	if !found {
		return "", ErrNoWorksheets
	}
	return title, nil
}

// Title returns the name of the worksheet being read.
func (s *Sheet) Title() string { return s.title }

// FetchAll reads every row of the worksheet in one request.
func (s *Sheet) FetchAll(ctx context.Context) (record.Set, error) {
	start := time.Now()
	resp, err := s.svc.Spreadsheets.Values.Get(s.id, quoteTitle(s.title)).Context(ctx).Do()
	if err != nil {
		return record.Set{}, fmt.Errorf("read worksheet %q: %w", s.title, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = cellString(v)
		}
		rows[i] = cells
	}

	s.log.Debug(ctx, "worksheet read",
		logger.Int("rows", len(rows)),
		logger.Duration("elapsed", time.Since(start)))
	return record.FromRows(rows)
}

// quoteTitle turns a sheet title into an A1 range covering the whole sheet.
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
