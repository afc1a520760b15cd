// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// StatsProvider reports service statistics, e.g. matchesRecorded,
// persistFailures, logEntries and skippedLines.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the matchmaking service counters.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats. The body is the provider's map as a JSON
// object: configuration (logPath, resultPath, logCapacity,
// imbalanceThreshold) plus match log counters.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.statsProvider.GetStats())
}
