// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/matchbalance/internal/domain/model"
)

// MonitorDependencies defines the interface for match log analysis.
type MonitorDependencies interface {
	Monitor(ctx context.Context) (model.MonitorReport, error)
}

// MonitorHandler handles monitor requests.
type MonitorHandler struct {
	deps MonitorDependencies
}

// NewMonitorHandler creates a new monitor handler.
func NewMonitorHandler(deps MonitorDependencies) *MonitorHandler {
	return &MonitorHandler{deps: deps}
}

// HandleGetMonitor handles GET /monitor requests.
func (h *MonitorHandler) HandleGetMonitor(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_monitor"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	report, err := h.deps.Monitor(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}
