package handlers

import (
	"context"
	"net/http"

	"github.com/isdelr/geonotes-be/internal/monitoring"
)

// HealthProvider is satisfied by *monitoring.HealthChecker.
type HealthProvider interface {
	Check(ctx context.Context) monitoring.HealthReport
}

// HealthHandler serves the liveness/readiness probe.
type HealthHandler struct {
	checker HealthProvider
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(checker HealthProvider) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Get reports store reachability; a degraded service answers 503.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	report := h.checker.Check(r.Context())
	if report.Status != "ok" {
		msg := "one or more stores are unavailable"
		writeEnvelope(w, http.StatusServiceUnavailable, Envelope{Success: false, Data: report, Error: &msg})
		return
	}
	respondOK(w, report)
}
