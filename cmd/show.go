package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-possession-log/internal/report"
	"github.com/pable/go-possession-log/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <run-id-prefix>",
	Short: "Show a stored run: per-match results and possession breakdowns",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()
	return showRun(os.Stdout, db, args[0])
}

func showRun(w io.Writer, db *storage.DB, prefix string) error {
	run, err := db.GetRunByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query run: %w", err)
	}
	if run == nil {
		fmt.Fprintf(os.Stderr, "No run found with id prefix %q\n", prefix)
		return nil
	}

	matches, err := db.GetMatchResults(run.RunID)
	if err != nil {
		return fmt.Errorf("get match results: %w", err)
	}
	types, err := db.PossessionTypeBreakdown(run.RunID)
	if err != nil {
		return fmt.Errorf("get possession type breakdown: %w", err)
	}
	zones, err := db.ZoneBreakdown(run.RunID)
	if err != nil {
		return fmt.Errorf("get zone breakdown: %w", err)
	}

	report.PrintRunHeader(w, *run)
	report.PrintStoredMatches(w, matches)
	report.PrintBreakdown(w, "POSSESSION TYPE", types)
	report.PrintBreakdown(w, "ZONE", zones)
	return nil
}
