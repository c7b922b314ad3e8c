package workbook

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/recupero/internal/domain/record"
	"github.com/okian/recupero/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func writeXLSX(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	must := func(err error) {
		if err != nil {
			t.Fatalf("build workbook: %v", err)
		}
	}
	if sheet != "Sheet1" {
		must(f.SetSheetName("Sheet1", sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		must(err)
		must(f.SetSheetRow(sheet, cell, &row))
	}
	// A second sheet that must be ignored.
	_, err := f.NewSheet("Notas")
	must(err)
	must(f.SetCellValue("Notas", "A1", "ignored"))

	path := filepath.Join(t.TempDir(), "recuperos.xlsx")
	must(f.SaveAs(path))
	return path
}

func TestWorkbook_FetchAll(t *testing.T) {
	Convey("Given an xlsx workbook with a second sheet", t, func() {
		path := writeXLSX(t, "Recuperos", [][]any{
			{"Estudiante", "Materia", "Recupero?"},
			{"Ana Gomez", "Matemática", "Si"},
			{"Ana Gomez", "Lengua", "No"},
			{"Luis Perez", "Historia"},
		})
		ctx := context.Background()
		wb, err := Open(ctx, path)
		So(err, ShouldBeNil)

		Convey("Then the first sheet is selected", func() {
			So(wb.Sheet(), ShouldEqual, "Recuperos")
		})

		Convey("When all rows are fetched", func() {
			set, err := wb.FetchAll(ctx)

			Convey("Then short rows are padded to the header width", func() {
				So(err, ShouldBeNil)
				So(set.Len(), ShouldEqual, 3)
				So(set.Headers, ShouldResemble, []string{"Estudiante", "Materia", "Recupero?"})
				So(set.Records[1].Recovered, ShouldEqual, record.RecoveryNo)
				So(set.Records[2].Recovered, ShouldEqual, record.Recovery(""))
			})
		})

		Convey("When the file changes after opening", func() {
			f, err := excelize.OpenFile(path)
			So(err, ShouldBeNil)
			So(f.SetSheetRow("Recuperos", "A5", &[]any{"Ana Gomez", "Física", "Si"}), ShouldBeNil)
			So(f.Save(), ShouldBeNil)
			So(f.Close(), ShouldBeNil)

			set, err := wb.FetchAll(ctx)

			Convey("Then the next fetch sees the new row", func() {
				So(err, ShouldBeNil)
				So(set.Len(), ShouldEqual, 4)
			})
		})

		Convey("When the context is canceled", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := wb.FetchAll(canceled)

			Convey("Then the fetch stops", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})

	Convey("Given a workbook whose header lacks Estudiante", t, func() {
		path := writeXLSX(t, "Sheet1", [][]any{
			{"Alumno", "Recupero?"},
			{"Ana", "Si"},
		})
		wb, err := Open(context.Background(), path)
		So(err, ShouldBeNil)

		_, err = wb.FetchAll(context.Background())
		So(errors.Is(err, record.ErrSchemaMismatch), ShouldBeTrue)
	})

	Convey("Given a csv file", t, func() {
		path := filepath.Join(t.TempDir(), "recuperos.csv")
		So(os.WriteFile(path, []byte("Estudiante,Materia,Recupero?\nAna Gomez,Física,Si\nLuis,Química\n"), 0o600), ShouldBeNil)

		wb, err := Open(context.Background(), path)
		So(err, ShouldBeNil)
		set, err := wb.FetchAll(context.Background())

		So(err, ShouldBeNil)
		So(set.Len(), ShouldEqual, 2)
		So(set.Records[0].Subject, ShouldEqual, "Física")
		So(set.Records[1].Values, ShouldResemble, []string{"Luis", "Química", ""})
	})
}

func TestOpen_Errors(t *testing.T) {
	Convey("Given paths that cannot be opened", t, func() {
		ctx := context.Background()

		Convey("When the path is empty", func() {
			_, err := Open(ctx, "")
			So(err, ShouldNotBeNil)
		})

		Convey("When the file is missing", func() {
			_, err := Open(ctx, filepath.Join(t.TempDir(), "missing.xlsx"))
			So(err, ShouldNotBeNil)
		})

		Convey("When the file is not a workbook", func() {
			bad := filepath.Join(t.TempDir(), "bad.xlsx")
			So(os.WriteFile(bad, []byte("not a zip"), 0o600), ShouldBeNil)
			_, err := Open(ctx, bad)
			So(err, ShouldNotBeNil)
		})
	})
}
