// Package model holds the typed records shared by every pipeline stage.
package model

import "strconv"

// MatchOutcome is the tracked team's result in a match.
type MatchOutcome int

const (
	OutcomeUnknown MatchOutcome = 0
	OutcomeWon     MatchOutcome = 1
	OutcomeLost    MatchOutcome = 2
)

func (o MatchOutcome) String() string {
	switch o {
	case OutcomeWon:
		return "true"
	case OutcomeLost:
		return "false"
	default:
		return "unknown"
	}
}

// ParseOutcome is the inverse of MatchOutcome.String.
func ParseOutcome(s string) MatchOutcome {
	switch s {
	case "true":
		return OutcomeWon
	case "false":
		return OutcomeLost
	default:
		return OutcomeUnknown
	}
}

// OutcomeFromWin maps a definite win/no-win comparison to an outcome.
func OutcomeFromWin(won bool) MatchOutcome {
	if won {
		return OutcomeWon
	}
	return OutcomeLost
}

// PossessionID is the possession index within a match.
type PossessionID int

// NoPossession buckets events that carry no possession index.
const NoPossession PossessionID = -1

// String renders the id the way it appears in case ids; NoPossession is "None".
func (p PossessionID) String() string {
	if p == NoPossession {
		return "None"
	}
	return strconv.Itoa(int(p))
}

// Column renders the id for the possession output column (empty for NoPossession).
func (p PossessionID) Column() string {
	if p == NoPossession {
		return ""
	}
	return strconv.Itoa(int(p))
}

// CaseID builds the process-mining case identifier for a possession of a match.
func CaseID(matchID string, p PossessionID) string {
	return matchID + "-" + p.String()
}

// PossessionType labels a possession by how many actions it took.
type PossessionType string

const (
	FastTransition PossessionType = "Fast Transition"
	NormalPlay     PossessionType = "Normal Play"
	LongBuildup    PossessionType = "Long Buildup"
)

// Activity names with special meaning in the pipeline.
const (
	ActivityShot = "Shot"
	ActivityGoal = "Goal"
	OutcomeGoal  = "Goal"
)

// Location is a point on the 120x80 pitch.
type Location struct{ X, Y float64 }

// ---- Raw records produced by the loader ----

type RawEvent struct {
	Activity    string
	Team        string // "" if the record has no team
	Player      string // "" if none
	Location    *Location
	Period      int
	Minute      int
	Second      int
	Timestamp   string
	Possession  PossessionID
	ShotOutcome string // only set for shot events
}

// IsGoalShot reports whether the event is a shot that produced a goal.
func (e RawEvent) IsGoalShot() bool {
	return e.ShotOutcome == OutcomeGoal
}

type MatchMetadata struct {
	HomeTeam  string
	AwayTeam  string
	HomeScore int
	AwayScore int
	MatchDate string
}

// ---- Enriched output ----

type EnrichedEventRow struct {
	MatchID        string
	CaseID         string
	Activity       string
	Timestamp      string
	Resource       string
	Team           string
	Period         int
	Minute         int
	Second         int
	Possession     PossessionID
	Zone           string
	Vertical       string
	FinalizeInGoal bool
	MatchWon       MatchOutcome
	PossessionType PossessionType
}

// MatchStatus summarises how a match fared in a run.
type MatchStatus string

const (
	StatusOK       MatchStatus = "ok"
	StatusDegraded MatchStatus = "degraded"
	StatusFailed   MatchStatus = "failed"
)

// MatchResult is the per-match product of one pipeline run.
type MatchResult struct {
	MatchID   string
	MatchDate string // from metadata, "" when unavailable
	Status    MatchStatus
	Outcome   MatchOutcome
	Rows      []EnrichedEventRow
	Warnings  []string
	Err       error
	Events    int
	Cases     int
	GoalCases int
	Dropped   int
	Synthetic int
}

// RunSummary describes a stored pipeline run.
type RunSummary struct {
	RunID       string
	Team        string
	StartedAt   string
	Policy      string
	MatchesOK   int
	MatchesWarn int
	MatchesFail int
	RowCount    int
}

// StoredMatch is a match result as persisted for a run.
type StoredMatch struct {
	RunID     string
	MatchID   string
	MatchDate string
	Status    MatchStatus
	Outcome   MatchOutcome
	Events    int
	Rows      int
	Cases     int
	GoalCases int
	Warning   string
}

// CaseSummary aggregates the rows of one case.
type CaseSummary struct {
	CaseID         string
	Possession     PossessionID
	Actions        int
	FirstZone      string
	LastZone       string
	Resources      int
	FinalizeInGoal bool
	PossessionType PossessionType
	Start          string
}

// Breakdown counts rows or cases per label.
type Breakdown struct {
	Label string
	Cases int
	Goals int
	Rows  int
}

// DBOverview aggregates everything in the store.
type DBOverview struct {
	Runs      int
	Matches   int
	Rows      int
	Cases     int
	GoalCases int
	FirstRun  string
	LastRun   string
}

// ResourceStat counts a player's involvement in a run's cases.
type ResourceStat struct {
	Name      string
	Actions   int
	Cases     int
	GoalCases int
}
