package fixtures

import (
	"fmt"

	"github.com/okian/recupero/internal/domain/record"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Recuperos"

// WriteWorkbook saves rows under the expected header row in the first
// worksheet of a new .xlsx file.
func WriteWorkbook(path string, rows []Row) error {
	return writeWorkbook(path, defaultSheet, rows)
}

func writeWorkbook(path, sheet string, rows []Row) error {
	if sheet == "" {
		sheet = defaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := []any{record.HeaderStudent, record.HeaderSubject, record.HeaderRecovered}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{r.Student, r.Subject, r.Recovered}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
