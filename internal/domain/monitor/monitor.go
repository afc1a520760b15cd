// Package monitor checks a match log for integrity and balance anomalies.
package monitor

import (
	"fmt"
	"math"

	"github.com/okian/matchbalance/internal/domain/model"
	"gonum.org/v1/gonum/stat"
)

// Default monitor configuration constants.
const (
	DefaultImbalanceThreshold = 0.15 // more skewed than 65/35
	DefaultExpectedPlayers    = 8
	percentMultiplier         = 100
)

type analyzer struct {
	threshold       float64
	expectedPlayers int
}

// Analyze runs the player-count, duplicate and balance checks over every
// entry and aggregates team A win-probabilities. It never mutates entries.
//
// The count and duplicate checks are independent: an entry with 7 players,
// two of them the same, raises two anomalies. Statistics cover every entry,
// including ones that failed a check.
func Analyze(entries []model.MatchLogEntry, opts ...Option) model.MonitorReport {
	a := analyzer{
		threshold:       DefaultImbalanceThreshold,
		expectedPlayers: DefaultExpectedPlayers,
	}
	for _, opt := range opts {
		opt(&a)
	}

	report := model.MonitorReport{
		TotalEntries: len(entries),
		Alerts:       []model.Alert{},
	}
	if len(entries) == 0 {
		return report
	}

	winrates := make([]float64, len(entries))
	unbalanced := 0
	for i, e := range entries {
		winrates[i] = e.WinrateA

		if len(e.Players) != a.expectedPlayers {
			report.Alerts = append(report.Alerts, alert(model.AlertPlayerCount, i, e,
				fmt.Sprintf("wrong player count: %d, want %d: %v", len(e.Players), a.expectedPlayers, e.Players)))
		}
		if dups := duplicates(e.Players); len(dups) > 0 {
			report.Alerts = append(report.Alerts, alert(model.AlertDuplicatePlayers, i, e,
				fmt.Sprintf("duplicate players %v in %v", dups, e.Players)))
		}
		if a.isUnbalanced(e.WinrateA) {
			unbalanced++
			report.Alerts = append(report.Alerts, alert(model.AlertUnbalanced, i, e,
				fmt.Sprintf("unbalanced winrate: %.2f / %.2f", e.WinrateA, e.WinrateB)))
		}
	}
	report.Anomalies = len(report.Alerts)

	mean, std := stat.PopMeanStdDev(winrates, nil)
	report.Stats = &model.WinrateStats{
		Mean:              mean,
		StdDev:            std,
		PercentUnbalanced: float64(unbalanced*percentMultiplier) / float64(len(entries)),
	}
	return report
}

func (a analyzer) isUnbalanced(winrateA float64) bool {
	return math.Abs(winrateA-0.5) > a.threshold
}

func alert(kind model.AlertKind, index int, e model.MatchLogEntry, msg string) model.Alert {
	return model.Alert{Kind: kind, Index: index, MatchID: e.MatchID, Message: msg}
}

// duplicates returns each identifier that appears more than once, in first-repeat order.
func duplicates(players []string) []string {
	counts := make(map[string]int, len(players))
	var dups []string
	for _, p := range players {
		counts[p]++
		if counts[p] == 2 {
			dups = append(dups, p)
		}
	}
	return dups
}
