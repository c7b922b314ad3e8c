// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/recupero/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Connector reports the state of the data source.
type Connector interface {
	Connected() bool
}

// HealthHandler handles health check and metrics requests.
type HealthHandler struct {
	source  Connector
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(source Connector) *HealthHandler {
	return &HealthHandler{
		source:  source,
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

type healthResponse struct {
	Status          string `json:"status"`
	SourceConnected bool   `json:"source_connected"`
}

// HandleHealth handles GET /healthz requests. The process is healthy even
// when the data source is down: every analysis retries the connection, so
// the status only degrades.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok", SourceConnected: true}
	if h.source != nil && !h.source.Connected() {
		resp.Status = "degraded"
		resp.SourceConnected = false
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleMetrics handles GET /metrics with the service's own registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}
