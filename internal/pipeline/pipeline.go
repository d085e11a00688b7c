// Package pipeline runs the per-match enrichment over a set of matches with a
// fixed-size worker pool and assembles the results into one event log.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/pable/go-possession-log/internal/aggregator"
	"github.com/pable/go-possession-log/internal/config"
	"github.com/pable/go-possession-log/internal/enrich"
	"github.com/pable/go-possession-log/internal/export"
	"github.com/pable/go-possession-log/internal/loader"
	"github.com/pable/go-possession-log/internal/model"
	"github.com/pable/go-possession-log/internal/outcome"
	"github.com/pable/go-possession-log/internal/spatial"
	"github.com/pable/go-possession-log/internal/team"
)

// Runner processes matches according to one configuration.
type Runner struct {
	cfg     *config.Config
	log     *logrus.Logger
	team    *team.Matcher
	builder *enrich.Builder

	// WriteCSV controls whether each successful match is written to cfg.OutputDir.
	WriteCSV bool
}

// Report is the outcome of a run: one result per requested match, sorted by
// match id, plus the assembled log of every match that did not fail.
type Report struct {
	Results []model.MatchResult
	Log     *EventLog
}

// Failed returns the number of matches that hit a fatal condition.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == model.StatusFailed {
			n++
		}
	}
	return n
}

// Degraded returns the number of matches processed with warnings.
func (r *Report) Degraded() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == model.StatusDegraded {
			n++
		}
	}
	return n
}

// New validates cfg and builds the strategies it selects.
func New(cfg *config.Config, log *logrus.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	grid, err := spatial.NewGrid(cfg.Zones.Boundaries, cfg.Zones.PitchWidth)
	if err != nil {
		return nil, err
	}
	classifier, err := aggregator.NewThresholdClassifier(cfg.Possession.FastBelow, cfg.Possession.LongFrom)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.New()
	}
	m := team.NewMatcher(cfg.Team)
	return &Runner{
		cfg:  cfg,
		log:  log,
		team: m,
		builder: &enrich.Builder{
			Team:       m,
			Excluded:   cfg.Excluded(),
			Policy:     cfg.CoordinatePolicy,
			Zones:      grid,
			Classifier: classifier,
		},
		WriteCSV: cfg.OutputDir != "",
	}, nil
}

// ProcessMatch runs the full per-match sequence: load, analyze every event,
// resolve the outcome, build rows, write the CSV. It never panics on bad input;
// a fatal condition yields a StatusFailed result with no rows.
func (r *Runner) ProcessMatch(matchID string) model.MatchResult {
	entry := r.log.WithField("match_id", matchID)
	res := model.MatchResult{MatchID: matchID, Status: model.StatusOK}

	if err := loader.ValidateMatchID(matchID); err != nil {
		entry.WithError(err).Error("skipping match")
		return failed(res, err)
	}
	events, err := loader.LoadEvents(loader.EventsPath(r.cfg.EventsDir, matchID))
	if err != nil {
		entry.WithError(err).Error("skipping match")
		return failed(res, err)
	}
	res.Events = len(events)

	// Both possession aggregates are complete before any row is tagged.
	poss := aggregator.Analyze(events, r.team, r.builder.Excluded)

	res.Outcome = r.resolveOutcome(&res, entry)

	rows, st := r.builder.Build(matchID, events, poss, res.Outcome)
	res.Rows = rows
	res.Dropped = st.Dropped()
	res.Synthetic = st.Synthetic
	res.Cases, res.GoalCases = aggregator.CountCases(rows)
	if st.Unlocated > 0 {
		entry.WithField("rows", st.Unlocated).Debug("rows without location kept with Unknown zone")
	}

	if r.WriteCSV {
		path, err := export.WriteMatchFile(r.cfg.OutputDir, matchID, rows)
		if err != nil {
			entry.WithError(err).Error("write match csv")
			return failed(res, err)
		}
		entry.WithField("path", path).Debug("csv written")
	}

	if len(res.Warnings) > 0 {
		res.Status = model.StatusDegraded
	}
	entry.WithFields(logrus.Fields{
		"events":  res.Events,
		"rows":    len(res.Rows),
		"cases":   res.Cases,
		"goals":   res.GoalCases,
		"outcome": res.Outcome.String(),
		"status":  res.Status,
	}).Info("match processed")
	return res
}

func (r *Runner) resolveOutcome(res *model.MatchResult, entry *logrus.Entry) model.MatchOutcome {
	meta, err := loader.LoadMetadata(loader.MetadataPath(r.cfg.MatchesDir, res.MatchID))
	if err != nil {
		res.Warnings = append(res.Warnings, err.Error())
		entry.WithError(err).Warn("no match metadata, match_won set to unknown")
		return model.OutcomeUnknown
	}
	res.MatchDate = meta.MatchDate
	o, err := outcome.Resolve(meta, r.team)
	if err != nil {
		res.Warnings = append(res.Warnings, err.Error())
		entry.WithError(err).Warn("cannot resolve match outcome, match_won set to unknown")
	}
	return o
}

// failed discards any partial state of a match.
func failed(res model.MatchResult, err error) model.MatchResult {
	return model.MatchResult{
		MatchID:   res.MatchID,
		MatchDate: res.MatchDate,
		Status:    model.StatusFailed,
		Events:    res.Events,
		Err:       err,
	}
}

// Run processes matchIDs (normalised: trimmed, deduplicated, sorted) on a pool
// of cfg.Workers goroutines. Each worker owns its match's events, aggregates and
// rows. A failed match does not stop the others. When ctx is cancelled no new
// matches are started; matches never started are reported as failed.
func (r *Runner) Run(ctx context.Context, matchIDs []string) (*Report, error) {
	ids := loader.NormalizeMatchIDs(matchIDs)

	workers := r.cfg.Workers
	if workers > len(ids) {
		workers = len(ids)
	}

	jobs := make(chan string)
	results := make(chan model.MatchResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				results <- r.ProcessMatch(id)
			}
		}()
	}

	started := make(map[string]bool, len(ids))
feed:
	for _, id := range ids {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- id:
			started[id] = true
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	out := make([]model.MatchResult, 0, len(ids))
	for res := range results {
		out = append(out, res)
	}
	for _, id := range ids {
		if !started[id] {
			out = append(out, model.MatchResult{MatchID: id, Status: model.StatusFailed, Err: ctx.Err()})
		}
	}
	sortResults(out)

	elog, err := Assemble(out)
	if err != nil {
		return nil, err
	}
	r.log.WithFields(logrus.Fields{
		"matches": len(out),
		"rows":    len(elog.Rows),
		"cases":   elog.Cases,
	}).Info("event log assembled")
	return &Report{Results: out, Log: elog}, nil
}

func sortResults(results []model.MatchResult) {
	sort.Slice(results, func(i, j int) bool {
		return loader.LessMatchID(results[i].MatchID, results[j].MatchID)
	})
}

// ErrCaseCollision means two matches produced the same case id.
var ErrCaseCollision = errors.New("case id produced by more than one match")

// EventLog is the case-structured log of a run.
type EventLog struct {
	Rows    []model.EnrichedEventRow
	Matches []string
	Cases   int
}

// Assemble concatenates the rows of every non-failed match, ordered by match
// id with each match's own row order kept, and verifies that no case id is
// shared between matches.
func Assemble(results []model.MatchResult) (*EventLog, error) {
	sorted := append([]model.MatchResult(nil), results...)
	sortResults(sorted)

	owner := make(map[string]string)
	elog := &EventLog{}
	for _, res := range sorted {
		if res.Status == model.StatusFailed {
			continue
		}
		for _, row := range res.Rows {
			if prev, ok := owner[row.CaseID]; ok {
				if prev != res.MatchID {
					return nil, fmt.Errorf("%w: %s in %s and %s", ErrCaseCollision, row.CaseID, prev, res.MatchID)
				}
				continue
			}
			owner[row.CaseID] = res.MatchID
		}
		elog.Rows = append(elog.Rows, res.Rows...)
		elog.Matches = append(elog.Matches, res.MatchID)
	}
	elog.Cases = len(owner)
	return elog, nil
}
