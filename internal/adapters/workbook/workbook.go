// Package workbook reads student records from a local .xlsx or .csv file.
package workbook

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/recupero/internal/domain/record"
	"github.com/okian/recupero/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// ErrNoSheets is returned when a workbook has no worksheet.
var ErrNoSheets = errors.New("workbook has no worksheets")

const (
	typeXLSX = "xlsx"
	typeCSV  = "csv"
)

// Workbook is a handle on a local spreadsheet file. The file is re-read on
// every fetch so edits are picked up without a restart.
type Workbook struct {
	path     string
	fileType string
	sheet    string
	log      logger.Logger
}

// Open checks that path is a readable spreadsheet and resolves its first
// worksheet.
func Open(ctx context.Context, path string) (*Workbook, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("workbook path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("workbook not found: %w", err)
	}

	w := &Workbook{
		path:     path,
		fileType: typeXLSX,
		log:      logger.Named("workbook"),
	}
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		w.fileType = typeCSV
		w.log.Info(ctx, "using csv file", logger.String("path", path))
		return w, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	w.sheet = sheets[0]
	w.log.Info(ctx, "opened workbook",
		logger.String("path", path),
		logger.String("sheet", w.sheet))
	return w, nil
}

// Sheet returns the name of the worksheet being read.
func (w *Workbook) Sheet() string { return w.sheet }

// FetchAll reads every row of the first worksheet.
func (w *Workbook) FetchAll(ctx context.Context) (record.Set, error) {
	if err := ctx.Err(); err != nil {
		return record.Set{}, err
	}

	start := time.Now()
	var (
		rows [][]string
		err  error
	)
	switch w.fileType {
	case typeCSV:
		rows, err = w.readCSV()
	default:
		rows, err = w.readXLSX()
	}
	if err != nil {
		return record.Set{}, err
	}

	w.log.Debug(ctx, "worksheet read",
		logger.Int("rows", len(rows)),
		logger.Duration("elapsed", time.Since(start)))
	return record.FromRows(rows)
}

func (w *Workbook) readXLSX() ([][]string, error) {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(w.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", w.sheet, err)
	}
	return rows, nil
}

func (w *Workbook) readCSV() ([][]string, error) {
	file, err := os.Open(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}
