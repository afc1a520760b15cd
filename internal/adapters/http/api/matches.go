// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/matchbalance/internal/domain/model"
)

// MatchDependencies defines the interface for recording and listing matches.
type MatchDependencies interface {
	Matchmake(ctx context.Context, records []model.PlayerRecord) (model.MatchResult, error)
	Entries(ctx context.Context) ([]model.MatchLogEntry, error)
}

// matchRequest mirrors the body of POST /matches.
type matchRequest struct {
	Players []model.PlayerRecord `json:"players"`
}

type matchesResponse struct {
	Entries []model.MatchLogEntry `json:"entries"`
	Count   int                   `json:"count"`
}

// MatchesHandler handles match requests.
type MatchesHandler struct {
	deps MatchDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// HandleMatches dispatches GET and POST /matches.
func (h *MatchesHandler) HandleMatches(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGetMatches(w, r)
	case http.MethodPost:
		h.handlePostMatch(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handlePostMatch predicts, splits and records one match. A storage failure
// still answers 200 with persisted=false.
func (h *MatchesHandler) handlePostMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_match"
	var req matchRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Matchmake(r.Context(), req.Players)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *MatchesHandler) handleGetMatches(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_matches"
	entries, err := h.deps.Entries(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	}
	if entries == nil {
		entries = []model.MatchLogEntry{}
	}
	writeJSON(w, http.StatusOK, matchesResponse{Entries: entries, Count: len(entries)})
}
