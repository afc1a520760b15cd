package matchmaker_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/okian/matchbalance/internal/domain/model"
	"github.com/okian/matchbalance/internal/matchmaker"
	. "github.com/smartystreets/goconvey/convey"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWriteMatch(t *testing.T) {
	Convey("Given a match result", t, func() {
		best := model.Split{
			TeamA: []string{"a", "d", "e", "h"}, TeamB: []string{"b", "c", "f", "g"},
			AvgA: 0.55, AvgB: 0.55, PA: 0.5, PB: 0.5,
		}
		second := model.Split{
			TeamA: []string{"a", "b", "c", "d"}, TeamB: []string{"e", "f", "g", "h"},
			AvgA: 0.6, AvgB: 0.5, PA: 0.5454, PB: 0.4546, Diff: 0.0454,
		}
		res := model.MatchResult{
			Match:     model.MatchLogEntry{MatchID: "m-1"},
			Best:      best,
			Ranked:    []model.Split{best, second},
			Persisted: true,
		}

		Convey("When printing it with more top splits than ranked", func() {
			var buf bytes.Buffer
			err := matchmaker.WriteMatch(&buf, res, 5)
			out := buf.String()

			Convey("Then both teams and the available splits should be listed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "Team A: a, d, e, h")
				So(out, ShouldContainSubstring, "Team B: b, c, f, g")
				So(out, ShouldContainSubstring, "Match:  m-1")
				So(out, ShouldContainSubstring, "Saved:  yes")
				So(out, ShouldContainSubstring, "Top 2 splits:")
				So(out, ShouldContainSubstring, "a,b,c,d")
			})
		})

		Convey("When the decision was not persisted", func() {
			res.Persisted = false
			res.PersistError = "permission denied"
			var buf bytes.Buffer
			So(matchmaker.WriteMatch(&buf, res, 0), ShouldBeNil)

			Convey("Then the failure should be shown and no table printed", func() {
				So(buf.String(), ShouldContainSubstring, "Saved:  NO (permission denied)")
				So(buf.String(), ShouldNotContainSubstring, "Top")
			})
		})

		Convey("When the writer fails", func() {
			So(matchmaker.WriteMatch(failingWriter{}, res, 1), ShouldNotBeNil)
		})
	})
}

func TestWriteReport(t *testing.T) {
	Convey("Given an empty monitor report", t, func() {
		var buf bytes.Buffer
		err := matchmaker.WriteReport(&buf, model.MonitorReport{Alerts: []model.Alert{}})

		Convey("Then it should say there is no data", func() {
			So(err, ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "Entries analyzed: 0")
			So(buf.String(), ShouldContainSubstring, "No match data.")
			So(buf.String(), ShouldContainSubstring, "No alerts.")
		})
	})

	Convey("Given a report with alerts", t, func() {
		report := model.MonitorReport{
			TotalEntries: 4,
			Stats:        &model.WinrateStats{Mean: 0.55, StdDev: 0.1, PercentUnbalanced: 25},
			Alerts: []model.Alert{
				{Kind: model.AlertUnbalanced, Index: 2, MatchID: "m-3", Message: "unbalanced winrate: 0.80 / 0.20"},
			},
			Anomalies: 1,
		}
		var buf bytes.Buffer
		err := matchmaker.WriteReport(&buf, report)

		Convey("Then statistics and alerts should be printed", func() {
			So(err, ShouldBeNil)
			out := buf.String()
			So(out, ShouldContainSubstring, "mean 0.5500, stdev 0.1000")
			So(out, ShouldContainSubstring, "Unbalanced:       25.0%")
			So(out, ShouldContainSubstring, "Anomalies:        1")
			So(out, ShouldContainSubstring, "[unbalanced] entry 2 (m-3): unbalanced winrate: 0.80 / 0.20")
		})
	})
}
