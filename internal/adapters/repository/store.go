// Package repository persists match decisions: the rolling match log and the
// exported winning split.
package repository

import (
	"context"

	"github.com/okian/matchbalance/internal/domain/model"
)

// MatchLog is a bounded, append-only history of match decisions.
//
// Implementations do not lock internally; callers serialize writers.
type MatchLog interface {
	// RecordMatch appends entry, evicting the oldest entries beyond capacity,
	// and persists the result. On failure the log is left unchanged and the
	// error wraps ErrStorageWrite.
	RecordMatch(ctx context.Context, entry model.MatchLogEntry) error

	// Entries returns a copy of the log, oldest first.
	Entries(ctx context.Context) []model.MatchLogEntry

	// Len returns the number of entries held.
	Len(ctx context.Context) int
}
