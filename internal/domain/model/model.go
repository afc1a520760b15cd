// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Features is a named feature vector for one player, e.g. "kills", "score".
type Features map[string]float64

// PlayerRecord is a raw player as supplied by the roster loader, before prediction.
type PlayerRecord struct {
	Name     string   `json:"name" koanf:"name"`
	Features Features `json:"features" koanf:"features"`
}

// Player is a roster member with its predicted win-ratio.
type Player struct {
	ID       string  `json:"name"`      // unique display name
	WinRatio float64 `json:"win_ratio"` // predictor output, not range checked
}

// Roster is the ordered set of players for one matchmaking decision.
type Roster []Player

// IDs returns the player identifiers in roster order.
func (r Roster) IDs() []string {
	ids := make([]string, len(r))
	for i, p := range r {
		ids[i] = p.ID
	}
	return ids
}

// Split is one candidate partition of a roster into two teams.
type Split struct {
	TeamA []string `json:"teamA"` // sorted ascending
	TeamB []string `json:"teamB"` // sorted ascending
	AvgA  float64  `json:"avgA"`
	AvgB  float64  `json:"avgB"`
	PA    float64  `json:"pA"`
	PB    float64  `json:"pB"`
	Diff  float64  `json:"diff"` // |PA - 0.5|
}

// MatchLogEntry is one persisted matchmaking decision.
type MatchLogEntry struct {
	MatchID   string    `json:"match_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Players   []string  `json:"players"`
	TeamA     []string  `json:"team_a,omitempty"`
	TeamB     []string  `json:"team_b,omitempty"`
	WinrateA  float64   `json:"winrate_a"`
	WinrateB  float64   `json:"winrate_b"`
	Diff      float64   `json:"diff"`
}

// ErrIncompleteEntry is returned when a decoded log entry lacks a required field.
var ErrIncompleteEntry = errors.New("incomplete match log entry")

// Timestamp layouts accepted when decoding an entry, tried in order. Values
// without an offset are read as UTC. Entries are always written as RFC 3339.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	time.DateOnly,
}

// UnmarshalJSON decodes an entry, accepting ISO-8601 timestamps with or
// without an offset. timestamp, players and winrate_a must be present.
func (e *MatchLogEntry) UnmarshalJSON(b []byte) error {
	type plain MatchLogEntry
	var raw struct {
		plain
		Timestamp *string   `json:"timestamp"`
		Players   *[]string `json:"players"`
		WinrateA  *float64  `json:"winrate_a"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch {
	case raw.Timestamp == nil:
		return fmt.Errorf("%w: no timestamp", ErrIncompleteEntry)
	case raw.Players == nil:
		return fmt.Errorf("%w: no players", ErrIncompleteEntry)
	case raw.WinrateA == nil:
		return fmt.Errorf("%w: no winrate_a", ErrIncompleteEntry)
	}

	ts, err := parseTimestamp(*raw.Timestamp)
	if err != nil {
		return err
	}
	*e = MatchLogEntry(raw.plain)
	e.Timestamp = ts
	e.Players = *raw.Players
	e.WinrateA = *raw.WinrateA
	return nil
}

func parseTimestamp(v string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized timestamp %q", ErrIncompleteEntry, v)
}

// NewMatchLogEntry builds a log entry for the chosen split at ts.
func NewMatchLogEntry(s Split, ts time.Time) MatchLogEntry {
	players := make([]string, 0, len(s.TeamA)+len(s.TeamB))
	players = append(players, s.TeamA...)
	players = append(players, s.TeamB...)
	return MatchLogEntry{
		MatchID:   uuid.NewString(),
		Timestamp: ts.UTC(),
		Players:   players,
		TeamA:     append([]string(nil), s.TeamA...),
		TeamB:     append([]string(nil), s.TeamB...),
		WinrateA:  s.PA,
		WinrateB:  s.PB,
		Diff:      s.Diff,
	}
}

// MatchResult is the outcome of one matchmaking run. A storage failure does
// not discard the decision: Persisted is false and PersistError says why.
type MatchResult struct {
	Match        MatchLogEntry `json:"match"`
	Best         Split         `json:"best"`
	Ranked       []Split       `json:"-"`
	Persisted    bool          `json:"persisted"`
	PersistError string        `json:"persist_error,omitempty"`
}

// AlertKind classifies a monitor alert.
type AlertKind string

// Alert kinds raised by the log monitor.
const (
	AlertPlayerCount      AlertKind = "player_count"
	AlertDuplicatePlayers AlertKind = "duplicate_players"
	AlertUnbalanced       AlertKind = "unbalanced"
)

// Alert is a single integrity or balance violation found in the log.
type Alert struct {
	Kind    AlertKind `json:"kind"`
	Index   int       `json:"index"` // position of the entry in the analyzed log
	MatchID string    `json:"match_id,omitempty"`
	Message string    `json:"message"`
}

// WinrateStats aggregates team A win-probabilities across the log.
type WinrateStats struct {
	Mean              float64 `json:"mean"`
	StdDev            float64 `json:"stdev"` // population
	PercentUnbalanced float64 `json:"percent_unbalanced"`
}

// MonitorReport is the result of one monitoring run. Stats is nil when the
// log holds no entries.
type MonitorReport struct {
	TotalEntries int           `json:"total_entries"`
	Stats        *WinrateStats `json:"stats"`
	Alerts       []Alert       `json:"alerts"`
	Anomalies    int           `json:"anomalies"`
}

// HasData reports whether statistics were computed.
func (r MonitorReport) HasData() bool { return r.Stats != nil }

// Healthy reports whether the run found no anomalies.
func (r MonitorReport) Healthy() bool { return r.Anomalies == 0 }
