// Package outcome derives the tracked team's match result from match metadata.
package outcome

import (
	"errors"
	"fmt"

	"github.com/pable/go-possession-log/internal/model"
	"github.com/pable/go-possession-log/internal/team"
)

// ErrAmbiguousTeam means neither side of the match is the tracked team, which
// usually signals upstream data drift (renamed team, wrong season file).
var ErrAmbiguousTeam = errors.New("tracked team is neither home nor away")

// ErrNoMetadata is returned when Resolve is called without metadata.
var ErrNoMetadata = errors.New("no match metadata")

// Resolve returns the tracked team's outcome. A draw counts as not won.
// When the outcome cannot be determined it returns OutcomeUnknown together
// with an error describing why; callers treat that error as a warning.
func Resolve(meta *model.MatchMetadata, m *team.Matcher) (model.MatchOutcome, error) {
	if meta == nil {
		return model.OutcomeUnknown, ErrNoMetadata
	}
	switch {
	case m.Is(meta.HomeTeam):
		return model.OutcomeFromWin(meta.HomeScore > meta.AwayScore), nil
	case m.Is(meta.AwayTeam):
		return model.OutcomeFromWin(meta.AwayScore > meta.HomeScore), nil
	default:
		return model.OutcomeUnknown, fmt.Errorf("%w: %q vs %q (tracking %q)",
			ErrAmbiguousTeam, meta.HomeTeam, meta.AwayTeam, m.Name())
	}
}
