package fixtures

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

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

func TestGenerate(t *testing.T) {
	Convey("Given a seeded configuration", t, func() {
		cfg := &Config{Students: 12, Seed: 7}

		Convey("When rows are generated twice", func() {
			a := Generate(cfg, &Stats{})
			stats := &Stats{}
			b := Generate(cfg, stats)

			Convey("Then the output is deterministic", func() {
				So(a, ShouldResemble, b)
			})

			Convey("And the stats describe the rows", func() {
				So(stats.Students, ShouldEqual, 12)
				So(Students(b), ShouldHaveLength, 12)
				So(stats.Rows, ShouldEqual, len(b))
				So(stats.Resolved+stats.Pending+stats.OffEnum, ShouldEqual, stats.Rows)
				So(stats.Rows, ShouldBeGreaterThanOrEqualTo, 12*minSubjects)
			})
		})
	})
}

func TestWriteWorkbook(t *testing.T) {
	Convey("Given generated rows written to a workbook", t, func() {
		stats := &Stats{}
		rows := Generate(&Config{Students: 5, Seed: 3}, stats)
		path := filepath.Join(t.TempDir(), "out.xlsx")
		So(WriteWorkbook(path, rows), ShouldBeNil)

		Convey("Then the first sheet decodes back into the same records", func() {
			f, err := excelize.OpenFile(path)
			So(err, ShouldBeNil)
			defer f.Close()

			So(f.GetSheetList()[0], ShouldEqual, defaultSheet)
			raw, err := f.GetRows(defaultSheet)
			So(err, ShouldBeNil)

			set, err := record.FromRows(raw)
			So(err, ShouldBeNil)
			summary := record.Summarize(set)
			So(summary.Resolved, ShouldEqual, stats.Resolved)
			So(summary.Pending, ShouldEqual, stats.Pending)
		})
	})
}

func TestFirstName(t *testing.T) {
	Convey("Given full names", t, func() {
		So(FirstName("Ana Gómez"), ShouldEqual, "Ana")
		So(FirstName("Ana"), ShouldEqual, "Ana")
	})
}

func TestRunWithProbe(t *testing.T) {
	Convey("Given a fake dashboard", t, func() {
		var analyses atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/healthz":
				w.WriteHeader(http.StatusOK)
			case "/api/v1/analyses":
				analyses.Add(1)
				var req analysisRequest
				_ = json.NewDecoder(r.Body).Decode(&req)
				state := "result"
				if req.Student == "Zzz" {
					state = "not_found"
				}
				_ = json.NewEncoder(w).Encode(map[string]string{"state": state})
			default:
				http.NotFound(w, r)
			}
		}))
		defer server.Close()

		cfg := &Config{
			Output:   filepath.Join(t.TempDir(), "nested", "seed.xlsx"),
			Students: 6,
			Seed:     1,
			BaseURL:  server.URL,
			Probes:   3,
			Workers:  2,
			Timeout:  5 * time.Second,
		}

		Convey("When the tool runs", func() {
			stats, err := Run(context.Background(), cfg)

			Convey("Then the sample students and one unknown name are probed", func() {
				So(err, ShouldBeNil)
				So(analyses.Load(), ShouldEqual, int64(4))
				So(stats.Probed, ShouldEqual, 4)
				So(stats.States["result"], ShouldEqual, 3)
				So(stats.States["not_found"], ShouldEqual, 1)
				So(stats.Failed, ShouldEqual, 0)
			})
		})
	})
}

func TestRunLogsFullSeed(t *testing.T) {
	Convey("Given a seed above the signed range", t, func() {
		var buf bytes.Buffer
		So(logger.Init(logger.WithOutput(&buf)), ShouldBeNil)
		defer func() { _ = logger.Init() }()

		cfg := &Config{
			Output:   filepath.Join(t.TempDir(), "seed.xlsx"),
			Students: 2,
			Seed:     math.MaxUint64,
		}

		Convey("When the tool runs", func() {
			_, err := Run(context.Background(), cfg)

			Convey("Then the log line carries the seed unchanged", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, "seed="+strconv.FormatUint(math.MaxUint64, 10))
			})
		})
	})
}
