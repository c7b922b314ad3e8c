// Package site serves the dashboard: one form, two metric tiles, the
// rendered report and a collapsible table of the matched rows.
package site

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/okian/recupero/internal/adapters/http/api"
	service "github.com/okian/recupero/internal/app"
	"github.com/okian/recupero/pkg/logger"
)

// Error constants
var (
	ErrRender = errors.New("dashboard render failed")
)

const (
	formField = "student"
	maxForm   = 4 << 10
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Analyzer runs one analysis per form submission.
type Analyzer interface {
	Analyze(ctx context.Context, query string) service.Analysis
}

// Handler renders the dashboard.
type Handler struct {
	analyzer Analyzer
	pages    *template.Template
	msgs     messages
	log      logger.Logger
}

// New parses the embedded templates for the given locale (es or en).
func New(a Analyzer, locale string) (*Handler, error) {
	msgs, err := lookupMessages(locale)
	if err != nil {
		return nil, err
	}
	funcs := template.FuncMap{
		"percent": func(part, total int) string {
			if total == 0 {
				return "0%"
			}
			return fmt.Sprintf("%.0f%%", float64(part)*100/float64(total))
		},
	}
	pages, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Handler{
		analyzer: a,
		pages:    pages,
		msgs:     msgs,
		log:      logger.Named("site"),
	}, nil
}

// Register attaches the dashboard routes to mux.
func (h *Handler) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	mux.HandleFunc("GET /{$}", api.MetricsMiddleware(h.HandleIndex, "dashboard"))
	mux.HandleFunc("POST /analyze", api.MetricsMiddleware(h.HandleAnalyze, "dashboard_analyze"))
	mux.HandleFunc("GET /analyze", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
}

// row is one line of the raw-data table.
type row []string

type page struct {
	M          messages
	Query      string
	State      service.State
	Result     bool
	Info       string
	Error      string
	Total      int
	Resolved   int
	Pending    int
	Report     template.HTML
	Headers    []string
	Rows       []row
	AnalysisID string
}

// HandleIndex handles GET / and shows the empty form.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, page{M: h.msgs, State: service.StateIdle})
}

// HandleAnalyze handles the form submission.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxForm)
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	a := h.analyzer.Analyze(r.Context(), r.PostFormValue(formField))
	h.render(w, r, h.pageFor(a))
}

func (h *Handler) pageFor(a service.Analysis) page {
	p := page{
		M:          h.msgs,
		Query:      a.Query,
		State:      a.State,
		AnalysisID: a.ID.String(),
	}

	switch a.State {
	case service.StateIdle:
		p.Info = h.msgs.EnterName
	case service.StateNotFound:
		p.Error = h.msgs.NotFound
	case service.StateFailed:
		p.Error = h.msgs.Generic
		if a.Failure != nil {
			p.Error = h.msgs.failure(a.Failure.Kind)
		}
	case service.StateResult:
		p.Result = true
		p.Total = a.Summary.Total
		p.Resolved = a.Summary.Resolved
		p.Pending = a.Summary.Pending
		p.Report = renderMarkdown(a.Report)
		if a.Failure != nil {
			p.Error = h.msgs.failure(a.Failure.Kind)
		}
		p.Headers = a.Set.Headers
		p.Rows = make([]row, 0, a.Set.Len())
		for _, rec := range a.Set.Records {
			p.Rows = append(p.Rows, rec.Values)
		}
	}
	return p
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, p page) {
	var b strings.Builder
	if err := h.pages.ExecuteTemplate(&b, "index.html", p); err != nil {
		h.log.Error(r.Context(), "failed to render dashboard", logger.Error(fmt.Errorf("%w: %w", ErrRender, err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(b.String()))
}
