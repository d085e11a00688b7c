package aggregator

import (
	"fmt"

	"github.com/pable/go-possession-log/internal/model"
	"github.com/pable/go-possession-log/internal/team"
)

// Possessions holds the per-match possession lookups. It is built in one pass
// over all of a match's events and must be complete before any row is tagged.
type Possessions struct {
	Goals   map[model.PossessionID]bool
	Actions map[model.PossessionID]int
}

// HasGoal reports whether the tracked team scored in possession p.
func (p *Possessions) HasGoal(id model.PossessionID) bool {
	return p.Goals[id]
}

// ActionCount returns the number of non-excluded tracked-team events in possession p.
func (p *Possessions) ActionCount(id model.PossessionID) int {
	return p.Actions[id]
}

// Analyze scans events once. For every tracked-team event it records the
// possession as goal-ending if the event is a goal shot, and independently
// counts it as an action unless its activity is excluded. Events without a
// possession index fall into the model.NoPossession bucket.
func Analyze(events []model.RawEvent, tracked *team.Matcher, excluded map[string]bool) *Possessions {
	p := &Possessions{
		Goals:   make(map[model.PossessionID]bool),
		Actions: make(map[model.PossessionID]int),
	}
	for _, ev := range events {
		if !tracked.Is(ev.Team) {
			continue
		}
		if ev.IsGoalShot() {
			p.Goals[ev.Possession] = true
		}
		if !excluded[ev.Activity] {
			p.Actions[ev.Possession]++
		}
	}
	return p
}

// PossessionClassifier labels a possession from its action count.
type PossessionClassifier interface {
	Classify(actions int) model.PossessionType
}

// ThresholdClassifier is the default PossessionClassifier:
// fewer than FastBelow actions is a fast transition, LongFrom or more is a long
// buildup, anything in between is normal play.
type ThresholdClassifier struct {
	FastBelow int
	LongFrom  int
}

// DefaultClassifier uses the 5/20 thresholds.
var DefaultClassifier = ThresholdClassifier{FastBelow: 5, LongFrom: 20}

// NewThresholdClassifier validates the thresholds.
func NewThresholdClassifier(fastBelow, longFrom int) (ThresholdClassifier, error) {
	if fastBelow <= 0 || longFrom <= fastBelow {
		return ThresholdClassifier{}, fmt.Errorf("invalid possession thresholds: fast_below=%d long_from=%d", fastBelow, longFrom)
	}
	return ThresholdClassifier{FastBelow: fastBelow, LongFrom: longFrom}, nil
}

func (c ThresholdClassifier) Classify(actions int) model.PossessionType {
	switch {
	case actions < c.FastBelow:
		return model.FastTransition
	case actions < c.LongFrom:
		return model.NormalPlay
	default:
		return model.LongBuildup
	}
}
