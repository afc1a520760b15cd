// Package partition finds the most evenly matched 4v4 split of an 8-player roster.
//
// The search is exhaustive: every 4-subset is enumerated, mirror duplicates
// (team A and team B swapped) are dropped, and the remaining 35 canonical
// splits are scored by how far team A's normalized win probability is from 0.5.
package partition

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/okian/matchbalance/internal/domain/model"
	"gonum.org/v1/gonum/stat/combin"
)

// Roster shape constants.
const (
	RosterSize = 8
	TeamSize   = RosterSize / 2
	// SplitCount is C(8,4)/2, the number of canonical splits.
	SplitCount = 35
)

// evenOdds is the win probability of a perfectly balanced match.
const evenOdds = 0.5

// Validate checks the roster shape before any computation.
func Validate(roster model.Roster) error {
	if len(roster) != RosterSize {
		return fmt.Errorf("%w: got %d players, want %d", ErrInvalidRosterSize, len(roster), RosterSize)
	}
	seen := make(map[string]struct{}, len(roster))
	for i, p := range roster {
		if p.ID == "" {
			return fmt.Errorf("%w: player at position %d", ErrEmptyPlayerID, i)
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicatePlayer, p.ID)
		}
		seen[p.ID] = struct{}{}
		if math.IsNaN(p.WinRatio) || math.IsInf(p.WinRatio, 0) {
			return fmt.Errorf("%w: %q has %v", ErrInvalidWinRatio, p.ID, p.WinRatio)
		}
	}
	return nil
}

// FindBestSplit scores all canonical splits of roster and returns them ranked
// by ascending diff, ties broken by team A's sorted member list. best is
// ranked[0]. On validation failure nothing is returned but the error.
func FindBestSplit(roster model.Roster) (best model.Split, ranked []model.Split, err error) {
	if err := Validate(roster); err != nil {
		return model.Split{}, nil, err
	}

	players := slices.Clone(roster)
	slices.SortFunc(players, func(a, b model.Player) int { return cmp.Compare(a.ID, b.ID) })

	ranked = make([]model.Split, 0, SplitCount)
	for _, combo := range combin.Combinations(RosterSize, TeamSize) {
		// players are sorted by ID, so index 0 is the smallest identifier and
		// a subset is canonical exactly when it holds it.
		if combo[0] != 0 {
			continue
		}
		ranked = append(ranked, score(players, combo))
	}

	slices.SortStableFunc(ranked, compareSplits)
	return ranked[0], ranked, nil
}

// score builds the split with team A at the given indices of the ID-sorted players.
func score(players []model.Player, teamA []int) model.Split {
	inA := make([]bool, len(players))
	for _, i := range teamA {
		inA[i] = true
	}

	s := model.Split{
		TeamA: make([]string, 0, TeamSize),
		TeamB: make([]string, 0, TeamSize),
	}
	ratiosA := make([]float64, 0, TeamSize)
	ratiosB := make([]float64, 0, TeamSize)
	for i, p := range players {
		if inA[i] {
			s.TeamA = append(s.TeamA, p.ID)
			ratiosA = append(ratiosA, p.WinRatio)
		} else {
			s.TeamB = append(s.TeamB, p.ID)
			ratiosB = append(ratiosB, p.WinRatio)
		}
	}

	s.AvgA = mean(ratiosA)
	s.AvgB = mean(ratiosB)
	s.PA = WinProbability(s.AvgA, s.AvgB)
	s.PB = 1 - s.PA
	s.Diff = math.Abs(s.PA - evenOdds)
	return s
}

// WinProbability normalizes two team averages into team A's win probability.
// A non-positive total (both teams rated zero) yields even odds.
func WinProbability(avgA, avgB float64) float64 {
	denom := avgA + avgB
	if denom > 0 {
		return avgA / denom
	}
	return evenOdds
}

// mean sums in ID order, so a team always gets the same average.
func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func compareSplits(a, b model.Split) int {
	if c := cmp.Compare(a.Diff, b.Diff); c != 0 {
		return c
	}
	return slices.Compare(a.TeamA, b.TeamA)
}
