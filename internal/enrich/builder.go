// Package enrich turns a match's raw events into process-mining rows for the
// tracked team.
package enrich

import (
	"github.com/pable/go-possession-log/internal/aggregator"
	"github.com/pable/go-possession-log/internal/config"
	"github.com/pable/go-possession-log/internal/model"
	"github.com/pable/go-possession-log/internal/team"
)

// ZoneClassifier maps a location to a zone and a vertical band. A nil location
// yields the classifier's unknown label for both.
type ZoneClassifier interface {
	Classify(loc *model.Location) (zone, vertical string)
}

// Builder filters, enriches and expands events. All strategy choices are fixed
// at construction so one Builder serves every match of a run.
type Builder struct {
	Team       *team.Matcher
	Excluded   map[string]bool
	Policy     config.CoordinatePolicy
	Zones      ZoneClassifier
	Classifier aggregator.PossessionClassifier
}

// Stats counts the per-row decisions taken while building one match.
type Stats struct {
	Events             int
	DroppedTeam        int
	DroppedActivity    int
	DroppedCoordinates int
	Unlocated          int // kept rows with no usable location
	Synthetic          int
}

// Dropped is the total number of events that produced no row.
func (s Stats) Dropped() int {
	return s.DroppedTeam + s.DroppedActivity + s.DroppedCoordinates
}

// Build emits rows in source order; a synthetic Goal row directly follows the
// shot that scored it. poss must already cover every event of the match.
//
// A tracked-team goal shot is never dropped by the activity or coordinate
// filters, so every possession in poss.Goals gets exactly its Goal rows.
func (b *Builder) Build(matchID string, events []model.RawEvent, poss *aggregator.Possessions, outcome model.MatchOutcome) ([]model.EnrichedEventRow, Stats) {
	st := Stats{Events: len(events)}
	rows := make([]model.EnrichedEventRow, 0, len(events)/2)

	for _, ev := range events {
		if !b.Team.Is(ev.Team) {
			st.DroppedTeam++
			continue
		}
		goalShot := ev.IsGoalShot()
		if b.Excluded[ev.Activity] && !goalShot {
			st.DroppedActivity++
			continue
		}
		if ev.Location == nil {
			if b.Policy == config.PolicyDrop && !goalShot {
				st.DroppedCoordinates++
				continue
			}
			st.Unlocated++
		}

		zone, vertical := b.Zones.Classify(ev.Location)
		row := model.EnrichedEventRow{
			MatchID:        matchID,
			CaseID:         model.CaseID(matchID, ev.Possession),
			Activity:       ev.Activity,
			Timestamp:      ev.Timestamp,
			Resource:       ev.Player,
			Team:           ev.Team,
			Period:         ev.Period,
			Minute:         ev.Minute,
			Second:         ev.Second,
			Possession:     ev.Possession,
			Zone:           zone,
			Vertical:       vertical,
			FinalizeInGoal: poss.HasGoal(ev.Possession),
			MatchWon:       outcome,
			PossessionType: b.Classifier.Classify(poss.ActionCount(ev.Possession)),
		}
		rows = append(rows, row)

		if goalShot {
			goal := row
			goal.Activity = model.ActivityGoal
			goal.FinalizeInGoal = true
			rows = append(rows, goal)
			st.Synthetic++
		}
	}
	return rows, st
}
