// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	service "github.com/okian/recupero/internal/app"
	"github.com/okian/recupero/internal/domain/record"
)

const maxRequestBody = 4 << 10

// AnalysesHandler handles analysis requests.
type AnalysesHandler struct {
	deps Dependencies
}

// NewAnalysesHandler creates a new analyses handler.
func NewAnalysesHandler(deps Dependencies) *AnalysesHandler {
	return &AnalysesHandler{deps: deps}
}

// analysisRequest mirrors the OpenAPI schema for POST /api/v1/analyses.
type analysisRequest struct {
	Student string `json:"student"`
}

type failureResponse struct {
	Kind    service.Kind `json:"kind"`
	Message string       `json:"message"`
}

type summaryResponse struct {
	Total    int `json:"total"`
	Resolved int `json:"resolved"`
	Pending  int `json:"pending"`
}

type analysisResponse struct {
	ID         string           `json:"id"`
	Query      string           `json:"query"`
	State      service.State    `json:"state"`
	Summary    *summaryResponse `json:"summary,omitempty"`
	Headers    []string         `json:"headers,omitempty"`
	Records    [][]string       `json:"records,omitempty"`
	Report     string           `json:"report,omitempty"`
	Failure    *failureResponse `json:"failure,omitempty"`
	DurationMs float64          `json:"duration_ms"`
}

// HandlePostAnalysis handles POST /api/v1/analyses requests.
func (h *AnalysesHandler) HandlePostAnalysis(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	a := h.deps.Analyze(r.Context(), req.Student)
	if a.State == service.StateIdle {
		writeError(w, http.StatusBadRequest, "bad_request", ErrEmptyQuery)
		return
	}
	writeJSON(w, statusFor(a), toResponse(a))
}

// statusFor maps the presentation state to an HTTP status. A result whose
// report failed is still a 200: the data is there.
func statusFor(a service.Analysis) int {
	switch a.State {
	case service.StateResult:
		return http.StatusOK
	case service.StateNotFound:
		return http.StatusNotFound
	case service.StateIdle:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func toResponse(a service.Analysis) analysisResponse {
	resp := analysisResponse{
		ID:         a.ID.String(),
		Query:      a.Query,
		State:      a.State,
		Report:     a.Report,
		DurationMs: float64(a.Duration.Microseconds()) / 1000,
	}
	if a.State == service.StateResult {
		resp.Summary = &summaryResponse{
			Total:    a.Summary.Total,
			Resolved: a.Summary.Resolved,
			Pending:  a.Summary.Pending,
		}
		resp.Headers = a.Set.Headers
		resp.Records = rows(a.Set)
	}
	if a.Failure != nil {
		// The cause stays in the logs; clients get the kind.
		resp.Failure = &failureResponse{Kind: a.Failure.Kind, Message: failureMessage(a.Failure.Kind)}
	}
	return resp
}

func rows(set record.Set) [][]string {
	out := make([][]string, 0, set.Len())
	for _, r := range set.Records {
		out = append(out, r.Values)
	}
	return out
}

func failureMessage(kind service.Kind) string {
	switch kind {
	case service.KindConnection:
		return "data source connection failed"
	case service.KindFetch:
		return "data source fetch failed"
	case service.KindSchema:
		return "worksheet is missing expected columns"
	case service.KindGeneration:
		return "report generation failed"
	default:
		return "analysis failed"
	}
}
