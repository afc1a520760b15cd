// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/matchbalance/internal/domain/model"
)

// SplitDependencies defines the interface for stateless partitioning.
type SplitDependencies interface {
	Split(ctx context.Context, roster model.Roster) (model.Split, []model.Split, error)
}

// splitsRequest mirrors the body of POST /splits.
type splitsRequest struct {
	Players model.Roster `json:"players"`
}

type splitsResponse struct {
	Best   model.Split   `json:"best"`
	Ranked []model.Split `json:"ranked"`
}

// SplitsHandler handles split requests.
type SplitsHandler struct {
	deps SplitDependencies
}

// NewSplitsHandler creates a new splits handler.
func NewSplitsHandler(deps SplitDependencies) *SplitsHandler {
	return &SplitsHandler{deps: deps}
}

// HandlePostSplits handles POST /splits requests. Nothing is recorded.
func (h *SplitsHandler) HandlePostSplits(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_splits"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req splitsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	best, ranked, err := h.deps.Split(r.Context(), req.Players)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, splitsResponse{Best: best, Ranked: ranked})
}
