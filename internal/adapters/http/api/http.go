// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/matchbalance/internal/app"
	"github.com/okian/matchbalance/internal/domain/partition"
	"github.com/okian/matchbalance/internal/domain/predict"
)

// maxBodyBytes caps request bodies; a roster is eight small records.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SplitDependencies
	MatchDependencies
	MonitorDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	splitsHandler  *SplitsHandler
	matchesHandler *MatchesHandler
	monitorHandler *MonitorHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		splitsHandler:  NewSplitsHandler(deps),
		matchesHandler: NewMatchesHandler(deps),
		monitorHandler: NewMonitorHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/splits", MetricsMiddleware(s.splitsHandler.HandlePostSplits, "splits"))
	mux.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandleMatches, "matches"))
	mux.HandleFunc("/monitor", MetricsMiddleware(s.monitorHandler.HandleGetMonitor, "monitor"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeBody reads a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(v)
}

// writeDomainError translates roster and prediction failures to 400, a
// service that is not started to 503 and anything else to 500.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, service.ErrNotStarted) {
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	}
	if code := partition.Code(err); code != "" {
		writeError(w, http.StatusBadRequest, code, WrapKind(op, ErrInvalidRoster, err))
		return
	}
	if errors.Is(err, predict.ErrMissingFeature) || errors.Is(err, predict.ErrInvalidPrediction) {
		writeError(w, http.StatusBadRequest, "invalid_player", WrapKind(op, ErrInvalidRoster, err))
		return
	}
	writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, ErrUnavailable, err))
}
