package matchmaker

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/okian/matchbalance/internal/domain/model"
)

// WriteMatch prints the chosen split and the top ranked alternatives.
func WriteMatch(w io.Writer, res model.MatchResult, top int) error {
	var buf bytes.Buffer
	b := res.Best

	fmt.Fprintln(&buf, "=== Best split ===")
	fmt.Fprintf(&buf, "Team A: %-30s avg %.4f  p=%.4f\n", strings.Join(b.TeamA, ", "), b.AvgA, b.PA)
	fmt.Fprintf(&buf, "Team B: %-30s avg %.4f  p=%.4f\n", strings.Join(b.TeamB, ", "), b.AvgB, b.PB)
	fmt.Fprintf(&buf, "Diff:   %.4f\n", b.Diff)
	if res.Match.MatchID != "" {
		fmt.Fprintf(&buf, "Match:  %s\n", res.Match.MatchID)
	}
	if res.Persisted {
		fmt.Fprintln(&buf, "Saved:  yes")
	} else {
		fmt.Fprintf(&buf, "Saved:  NO (%s)\n", res.PersistError)
	}

	if n := min(top, len(res.Ranked)); n > 0 {
		fmt.Fprintf(&buf, "\nTop %d splits:\n", n)
		tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "RANK\tTEAM A\tTEAM B\tP(A)\tDIFF")
		for i, s := range res.Ranked[:n] {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%.4f\t%.4f\n",
				i+1, strings.Join(s.TeamA, ","), strings.Join(s.TeamB, ","), s.PA, s.Diff)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	fmt.Fprintln(&buf)

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteReport prints a monitoring report.
func WriteReport(w io.Writer, r model.MonitorReport) error {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "=== Match log monitor ===")
	fmt.Fprintf(&buf, "Entries analyzed: %d\n", r.TotalEntries)
	if !r.HasData() {
		fmt.Fprintln(&buf, "No match data.")
	} else {
		fmt.Fprintf(&buf, "Team A win-rate:  mean %.4f, stdev %.4f\n", r.Stats.Mean, r.Stats.StdDev)
		fmt.Fprintf(&buf, "Unbalanced:       %.1f%%\n", r.Stats.PercentUnbalanced)
	}
	fmt.Fprintf(&buf, "Anomalies:        %d\n", r.Anomalies)

	if len(r.Alerts) == 0 {
		fmt.Fprintln(&buf, "No alerts.")
	} else {
		fmt.Fprintln(&buf, "Alerts:")
		for _, a := range r.Alerts {
			fmt.Fprintf(&buf, "  - [%s] entry %d", a.Kind, a.Index)
			if a.MatchID != "" {
				fmt.Fprintf(&buf, " (%s)", a.MatchID)
			}
			fmt.Fprintf(&buf, ": %s\n", a.Message)
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}
