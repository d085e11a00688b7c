package outcome

import (
	"errors"
	"testing"

	"github.com/pable/go-possession-log/internal/model"
	"github.com/pable/go-possession-log/internal/team"
)

func TestResolve(t *testing.T) {
	m := team.NewMatcher("Barcelona")
	tests := []struct {
		name string
		meta model.MatchMetadata
		want model.MatchOutcome
	}{
		{"home win", model.MatchMetadata{HomeTeam: "Barcelona", AwayTeam: "Elche", HomeScore: 3, AwayScore: 0}, model.OutcomeWon},
		{"home loss", model.MatchMetadata{HomeTeam: "Barcelona", AwayTeam: "Málaga", HomeScore: 0, AwayScore: 1}, model.OutcomeLost},
		{"away win", model.MatchMetadata{HomeTeam: "Real Madrid", AwayTeam: "Barcelona", HomeScore: 1, AwayScore: 2}, model.OutcomeWon},
		{"away loss", model.MatchMetadata{HomeTeam: "Real Madrid", AwayTeam: "Barcelona", HomeScore: 3, AwayScore: 1}, model.OutcomeLost},
		{"draw is not a win", model.MatchMetadata{HomeTeam: "Getafe", AwayTeam: "Barcelona", HomeScore: 0, AwayScore: 0}, model.OutcomeLost},
		{"case-insensitive", model.MatchMetadata{HomeTeam: "BARCELONA", AwayTeam: "Eibar", HomeScore: 2, AwayScore: 0}, model.OutcomeWon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := tt.meta
			got, err := Resolve(&meta, m)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestResolveAmbiguousTeam(t *testing.T) {
	meta := &model.MatchMetadata{HomeTeam: "Sevilla", AwayTeam: "Valencia", HomeScore: 1, AwayScore: 0}
	got, err := Resolve(meta, team.NewMatcher("Barcelona"))
	if got != model.OutcomeUnknown {
		t.Errorf("want unknown, got %v", got)
	}
	if !errors.Is(err, ErrAmbiguousTeam) {
		t.Errorf("want ErrAmbiguousTeam, got %v", err)
	}
}

func TestResolveNilMetadata(t *testing.T) {
	got, err := Resolve(nil, team.NewMatcher("Barcelona"))
	if got != model.OutcomeUnknown || !errors.Is(err, ErrNoMetadata) {
		t.Errorf("want unknown + ErrNoMetadata, got %v, %v", got, err)
	}
}
