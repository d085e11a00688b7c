package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-possession-log/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintRunHeader prints a one-line summary header for a run.
func PrintRunHeader(w io.Writer, r model.RunSummary) {
	fmt.Fprintf(w, "\nRun: %s  |  Team: %s  |  Started: %s  |  Coordinates: %s  |  Matches: %d ok, %d degraded, %d failed  |  Rows: %d\n\n",
		shortID(r.RunID), r.Team, r.StartedAt, r.Policy, r.MatchesOK, r.MatchesWarn, r.MatchesFail, r.RowCount)
}

// PrintMatchResults prints the per-match outcome of a run that just finished.
func PrintMatchResults(w io.Writer, results []model.MatchResult) {
	table := newTable(w)
	table.Header("MATCH", "STATUS", "MATCH_WON", "EVENTS", "ROWS", "CASES", "GOALS", "DROPPED", "SYNTH", "NOTE")
	for _, r := range results {
		note := ""
		switch {
		case r.Err != nil:
			note = r.Err.Error()
		case len(r.Warnings) > 0:
			note = r.Warnings[0]
		}
		table.Append(
			r.MatchID,
			string(r.Status),
			r.Outcome.String(),
			strconv.Itoa(r.Events),
			strconv.Itoa(len(r.Rows)),
			strconv.Itoa(r.Cases),
			strconv.Itoa(r.GoalCases),
			strconv.Itoa(r.Dropped),
			strconv.Itoa(r.Synthetic),
			truncate(note, 60),
		)
	}
	table.Render()
}

// PrintStoredMatches prints the per-match results of a stored run.
func PrintStoredMatches(w io.Writer, matches []model.StoredMatch) {
	table := newTable(w)
	table.Header("MATCH", "DATE", "STATUS", "MATCH_WON", "EVENTS", "ROWS", "CASES", "GOALS", "GOAL%", "NOTE")
	for _, m := range matches {
		goalPct := "-"
		if m.Cases > 0 {
			goalPct = fmt.Sprintf("%.1f%%", float64(m.GoalCases)/float64(m.Cases)*100)
		}
		date := m.MatchDate
		if date == "" {
			date = "-"
		}
		table.Append(
			m.MatchID,
			date,
			string(m.Status),
			m.Outcome.String(),
			strconv.Itoa(m.Events),
			strconv.Itoa(m.Rows),
			strconv.Itoa(m.Cases),
			strconv.Itoa(m.GoalCases),
			goalPct,
			truncate(m.Warning, 60),
		)
	}
	table.Render()
}

// PrintRunList prints one line per stored run.
func PrintRunList(w io.Writer, runs []model.RunSummary) {
	table := newTable(w)
	table.Header("RUN", "STARTED", "TEAM", "COORDS", "OK", "DEGRADED", "FAILED", "ROWS")
	for _, r := range runs {
		table.Append(
			shortID(r.RunID),
			r.StartedAt,
			r.Team,
			r.Policy,
			strconv.Itoa(r.MatchesOK),
			strconv.Itoa(r.MatchesWarn),
			strconv.Itoa(r.MatchesFail),
			strconv.Itoa(r.RowCount),
		)
	}
	table.Render()
}

// PrintBreakdown prints case and goal counts per label with the goal rate's
// 95% confidence interval. Small samples are flagged.
func PrintBreakdown(w io.Writer, title string, rows []model.Breakdown) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", title)
	table := newTable(w)
	table.Header(title, "CASES", "GOALS", "ROWS", "GOAL%", "95% CI", "FLAG")
	for _, b := range rows {
		pct, ci := "-", "-"
		if b.Cases > 0 {
			pct = fmt.Sprintf("%.1f%%", float64(b.Goals)/float64(b.Cases)*100)
			lo, hi := wilsonCI(b.Goals, b.Cases)
			ci = fmt.Sprintf("%.1f-%.1f%%", lo*100, hi*100)
		}
		table.Append(
			b.Label,
			strconv.Itoa(b.Cases),
			strconv.Itoa(b.Goals),
			strconv.Itoa(b.Rows),
			pct,
			ci,
			sampleFlag(b.Cases),
		)
	}
	table.Render()
}

// PrintCaseTable prints one line per case. Goal-ending cases are marked with "*".
func PrintCaseTable(w io.Writer, cases []model.CaseSummary) {
	table := newTable(w)
	table.Header(" ", "CASE", "START", "ACTIONS", "PLAYERS", "TYPE", "FROM", "TO")
	for _, c := range cases {
		marker := " "
		if c.FinalizeInGoal {
			marker = "*"
		}
		table.Append(
			marker,
			c.CaseID,
			c.Start,
			strconv.Itoa(c.Actions),
			strconv.Itoa(c.Resources),
			string(c.PossessionType),
			c.FirstZone,
			c.LastZone,
		)
	}
	table.Render()
}

// PrintResourceTable prints player involvement counts.
func PrintResourceTable(w io.Writer, stats []model.ResourceStat) {
	table := newTable(w)
	table.Header("NAME", "ACTIONS", "CASES", "GOAL CASES")
	for _, s := range stats {
		table.Append(
			s.Name,
			strconv.Itoa(s.Actions),
			strconv.Itoa(s.Cases),
			strconv.Itoa(s.GoalCases),
		)
	}
	table.Render()
}

// PrintQueryResult prints the output of a raw query.
func PrintQueryResult(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}

func sampleFlag(n int) string {
	switch {
	case n >= 50:
		return "OK"
	case n >= 20:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

// wilsonCI computes the 95% Wilson score confidence interval for a proportion.
// Returns (lo, hi) as fractions in [0, 1].
func wilsonCI(hits, n int) (lo, hi float64) {
	if n == 0 {
		return 0, 1
	}
	z := 1.96
	p := float64(hits) / float64(n)
	nf := float64(n)
	denom := 1 + z*z/nf
	center := (p + z*z/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z*z/(4*nf*nf)) / denom
	return math.Max(0, center-half), math.Min(1, center+half)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
