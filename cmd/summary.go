package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-possession-log/internal/report"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about everything stored in the database:
run count and date range, distinct matches, rows and cases, and the most
involved players of the newest run.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ov, err := db.GetDBOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.Runs == 0 {
		fmt.Fprintln(os.Stdout, "No runs stored yet. Run 'eventlog build' to create one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Runs stored   : %d\n", ov.Runs)
	fmt.Fprintf(os.Stdout, "  Run range     : %s .. %s\n", ov.FirstRun, ov.LastRun)
	fmt.Fprintf(os.Stdout, "  Matches seen  : %d\n", ov.Matches)
	fmt.Fprintf(os.Stdout, "  Total rows    : %d\n", ov.Rows)
	fmt.Fprintf(os.Stdout, "  Total cases   : %d (%d ending in a goal)\n", ov.Cases, ov.GoalCases)

	runs, err := db.ListRuns()
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	latest := runs[0]
	top, err := db.TopResources(latest.RunID, 10)
	if err != nil {
		return fmt.Errorf("get top players: %w", err)
	}
	if len(top) > 0 {
		fmt.Fprintf(os.Stdout, "\n--- Most Involved Players (run %s) ---\n\n", latest.RunID)
		report.PrintResourceTable(os.Stdout, top)
	}
	return nil
}
