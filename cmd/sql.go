package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-possession-log/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the event-log database",
	Long: `Run an arbitrary SQL query against the event-log database and print results as a table.

Schema overview:
  runs(id, team, started_at, coordinate_policy)
  match_results(run_id, match_id, match_date, status, match_won, events, row_count, cases,
    goal_cases, dropped, synthetic, warning, error)
  event_rows(run_id, match_id, seq, case_id, activity, timestamp, resource, team,
    period, minute, second, possession, zone, vertical, finalize_in_goal,
    match_won, possession_type)

Note: match_won is stored as TEXT ('true', 'false', 'unknown') and possession is NULL
for events without a possession.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}
	report.PrintQueryResult(os.Stdout, cols, rows)
	return nil
}
