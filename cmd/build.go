package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pable/go-possession-log/internal/loader"
	"github.com/pable/go-possession-log/internal/model"
	"github.com/pable/go-possession-log/internal/pipeline"
	"github.com/pable/go-possession-log/internal/report"
	"github.com/pable/go-possession-log/internal/storage"
)

var buildNoCSV bool

var buildCmd = &cobra.Command{
	Use:   "build [match-id ...]",
	Short: "Build the event log for a set of matches",
	Long: `Run the pipeline over the given matches (default: every *.json in the events dir),
write one CSV per match to the output dir and store the assembled log under a new run id.

Exits non-zero when any match failed; the other matches are still written and stored.`,
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.String("team", "", "tracked team name (default Barcelona)")
	f.StringSlice("exclude", nil, "activities that never count as actions (replaces the default list)")
	f.String("coordinate-policy", "", "rows without location: unknown (keep) or drop")
	f.Int("fast-below", 0, "possessions with fewer actions are Fast Transition (default 5)")
	f.Int("long-from", 0, "possessions with at least this many actions are Long Buildup (default 20)")
	f.String("events-dir", "", "directory of <match_id>.json event files")
	f.String("matches-dir", "", "directory of <match_id>.json match metadata files")
	f.String("output-dir", "", "directory for the per-match CSV files")
	f.Int("workers", 0, "number of matches processed concurrently (default NumCPU)")
	f.BoolVar(&buildNoCSV, "no-csv", false, "skip writing per-match CSV files")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	ids, invalid := loader.SplitMatchIDs(args)
	if len(invalid) > 0 {
		return fmt.Errorf("%w: %s", loader.ErrInvalidMatchID, strings.Join(invalid, ", "))
	}
	if len(ids) == 0 {
		if ids, err = loader.DiscoverMatchIDs(cfg.EventsDir); err != nil {
			return err
		}
	}
	if len(ids) == 0 {
		fmt.Fprintf(os.Stdout, "No event files found in %s.\n", cfg.EventsDir)
		return nil
	}

	runner, err := pipeline.New(cfg, log)
	if err != nil {
		return err
	}
	if buildNoCSV {
		runner.WriteCSV = false
	}

	db, err := storage.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	run := model.RunSummary{
		RunID:     uuid.NewString(),
		Team:      cfg.Team,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
		Policy:    string(cfg.CoordinatePolicy),
	}
	runLog := log.WithField("run_id", run.RunID)
	runLog.WithField("matches", len(ids)).Info("run started")

	rep, err := runner.Run(ctx, ids)
	if err != nil {
		return fmt.Errorf("assemble event log: %w", err)
	}

	if err := db.InsertRun(run); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for _, res := range rep.Results {
		if err := db.SaveMatch(run.RunID, res); err != nil {
			return fmt.Errorf("store match %s: %w", res.MatchID, err)
		}
	}

	run.MatchesFail = rep.Failed()
	run.MatchesWarn = rep.Degraded()
	run.MatchesOK = len(rep.Results) - run.MatchesFail - run.MatchesWarn
	run.RowCount = len(rep.Log.Rows)
	report.PrintRunHeader(os.Stdout, run)
	report.PrintMatchResults(os.Stdout, rep.Results)
	if runner.WriteCSV {
		fmt.Fprintf(os.Stdout, "\nCSV files: %s\n", cfg.OutputDir)
	}
	fmt.Fprintf(os.Stdout, "Stored run %s (%d cases). Inspect it with 'eventlog show %s'.\n",
		run.RunID, rep.Log.Cases, run.RunID[:8])

	if run.MatchesFail > 0 {
		return fmt.Errorf("%d of %d matches failed", run.MatchesFail, len(rep.Results))
	}
	return nil
}
