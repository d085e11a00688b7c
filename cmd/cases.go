package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-possession-log/internal/aggregator"
	"github.com/pable/go-possession-log/internal/model"
	"github.com/pable/go-possession-log/internal/report"
	"github.com/pable/go-possession-log/internal/storage"
)

var (
	casesMatch     string
	casesGoalsOnly bool
)

var casesCmd = &cobra.Command{
	Use:   "cases <run-id-prefix>",
	Short: "List the cases (possessions) of one match of a stored run",
	Args:  cobra.ExactArgs(1),
	RunE:  runCases,
}

func init() {
	casesCmd.Flags().StringVar(&casesMatch, "match", "", "match id (required)")
	casesCmd.Flags().BoolVar(&casesGoalsOnly, "goals", false, "only goal-ending cases")
	_ = casesCmd.MarkFlagRequired("match")
}

func runCases(cmd *cobra.Command, args []string) error {
	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()
	return showCases(os.Stdout, db, args[0], casesMatch, casesGoalsOnly)
}

func showCases(w io.Writer, db *storage.DB, prefix, matchID string, goalsOnly bool) error {
	run, err := db.GetRunByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query run: %w", err)
	}
	if run == nil {
		fmt.Fprintf(os.Stderr, "No run found with id prefix %q\n", prefix)
		return nil
	}

	rows, err := db.GetEventRows(run.RunID, matchID)
	if err != nil {
		return fmt.Errorf("get event rows: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintf(os.Stderr, "No rows for match %s in run %s\n", matchID, run.RunID)
		return nil
	}

	cases := aggregator.SummarizeCases(rows)
	if goalsOnly {
		var goals []model.CaseSummary
		for _, c := range cases {
			if c.FinalizeInGoal {
				goals = append(goals, c)
			}
		}
		cases = goals
	}

	fmt.Fprintf(w, "\nMatch: %s  |  Team: %s  |  Match won: %s  |  Cases: %d\n\n",
		matchID, rows[0].Team, rows[0].MatchWon, len(cases))
	report.PrintCaseTable(w, cases)
	return nil
}
