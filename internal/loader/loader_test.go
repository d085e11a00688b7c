package loader

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pable/go-possession-log/internal/model"
)

const sampleEvents = `[
  {"id": "a1", "index": 1, "period": 1, "timestamp": "00:00:00.000", "minute": 0, "second": 0,
   "type": {"id": 35, "name": "Starting XI"}, "team": {"id": 217, "name": "Barcelona"}},
  {"id": "a2", "index": 2, "period": 1, "timestamp": "00:00:01.250", "minute": 0, "second": 1,
   "type": {"id": 30, "name": "Pass"}, "possession": 2,
   "team": {"id": 217, "name": "Barcelona"}, "player": {"id": 5503, "name": "Lionel Andrés Messi Cuccittini"},
   "location": [61.0, 40.1]},
  {"id": "a3", "index": 3, "period": 1, "timestamp": "00:00:04.000", "minute": 0, "second": 4,
   "type": {"id": 16, "name": "Shot"}, "possession": 2,
   "team": {"id": 217, "name": "Barcelona"}, "location": [110.2, 38],
   "shot": {"outcome": {"id": 97, "name": "Goal"}}},
  {"id": "a4", "index": 4, "period": 1, "timestamp": "00:00:05.000", "minute": 0, "second": 5,
   "type": {"id": 30, "name": "Pass"}, "possession": 3,
   "team": {"id": 220, "name": "Real Madrid"}, "location": [12, "bad"]}
]`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadEvents(t *testing.T) {
	path := writeFile(t, t.TempDir(), "100.json", sampleEvents)

	events, err := LoadEvents(path)
	if err != nil {
		t.Fatalf("LoadEvents: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}

	first := events[0]
	if first.Activity != "Starting XI" || first.Possession != model.NoPossession || first.Location != nil {
		t.Errorf("first event: unexpected %+v", first)
	}

	pass := events[1]
	if pass.Player != "Lionel Andrés Messi Cuccittini" {
		t.Errorf("player: got %q", pass.Player)
	}
	if pass.Location == nil || pass.Location.X != 61.0 || pass.Location.Y != 40.1 {
		t.Errorf("location: got %+v", pass.Location)
	}
	if pass.Possession != 2 || pass.Timestamp != "00:00:01.250" || pass.Second != 1 {
		t.Errorf("pass fields: got %+v", pass)
	}

	shot := events[2]
	if !shot.IsGoalShot() {
		t.Errorf("shot should be a goal, outcome=%q", shot.ShotOutcome)
	}
	if shot.Player != "" {
		t.Errorf("shot without player should have empty player, got %q", shot.Player)
	}

	if events[3].Location != nil {
		t.Errorf("non-numeric location should be treated as missing, got %+v", events[3].Location)
	}
	if events[3].Team != "Real Madrid" {
		t.Errorf("team: got %q", events[3].Team)
	}
}

func TestParseEventsMalformed(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantRecord int
	}{
		{"not json", `{{{`, -1},
		{"object not array", `{"type": {"name": "Pass"}}`, -1},
		{"null document", `null`, -1},
		{"record not object", `[1, 2]`, -1},
		{"missing type", `[{"type": {"name": "Pass"}}, {"team": {"name": "Barcelona"}}]`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvents("m.json", []byte(tt.body))
			var mErr *MalformedInputError
			if !errors.As(err, &mErr) {
				t.Fatalf("expected MalformedInputError, got %v", err)
			}
			if mErr.Record != tt.wantRecord {
				t.Errorf("record: want %d, got %d", tt.wantRecord, mErr.Record)
			}
		})
	}
}

func TestParseEventsEmptyList(t *testing.T) {
	events, err := ParseEvents("m.json", []byte(`[]`))
	if err != nil {
		t.Fatalf("empty list should load: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestLoadEventsMissingFile(t *testing.T) {
	_, err := LoadEvents(filepath.Join(t.TempDir(), "nope.json"))
	var mErr *MalformedInputError
	if !errors.As(err, &mErr) {
		t.Fatalf("expected MalformedInputError for missing file, got %v", err)
	}
}

func TestLoadLocationShapes(t *testing.T) {
	tests := []struct {
		raw  string
		want *model.Location
	}{
		{`[1, 2]`, &model.Location{X: 1, Y: 2}},
		{`[1, 2, 3]`, nil},
		{`[1]`, nil},
		{`"1,2"`, nil},
		{`null`, nil},
	}
	for _, tt := range tests {
		got := parseLocation([]byte(tt.raw))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseLocation(%s): want %+v, got %+v", tt.raw, tt.want, got)
		}
	}
}

func TestLoadMetadata(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "100.json", `{
		"match_id": 100, "match_date": "2015-05-17",
		"home_team": {"home_team_id": 212, "home_team_name": "Atlético Madrid"},
		"away_team": {"away_team_id": 217, "away_team_name": "Barcelona"},
		"home_score": 0, "away_score": 1}`)

	meta, err := LoadMetadata(path)
	if err != nil {
		t.Fatalf("LoadMetadata: %v", err)
	}
	want := model.MatchMetadata{HomeTeam: "Atlético Madrid", AwayTeam: "Barcelona", HomeScore: 0, AwayScore: 1, MatchDate: "2015-05-17"}
	if *meta != want {
		t.Errorf("metadata: want %+v, got %+v", want, *meta)
	}
}

func TestLoadMetadataFailuresAreRecoverable(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"missing":    filepath.Join(dir, "nope.json"),
		"garbage":    writeFile(t, dir, "g.json", `not json`),
		"no scores":  writeFile(t, dir, "s.json", `{"home_team": {"home_team_name": "A"}, "away_team": {"away_team_name": "B"}}`),
		"null score": writeFile(t, dir, "n.json", `{"home_team": {"home_team_name": "A"}, "away_team": {"away_team_name": "B"}, "home_score": null, "away_score": 1}`),
	}
	for name, path := range cases {
		if _, err := LoadMetadata(path); !errors.Is(err, ErrMissingMetadata) {
			t.Errorf("%s: expected ErrMissingMetadata, got %v", name, err)
		}
	}
}

func TestDiscoverMatchIDsSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"3890561.json", "266236.json", "notes.txt", "abc.json", "9.json"} {
		writeFile(t, dir, name, `[]`)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	ids, err := DiscoverMatchIDs(dir)
	if err != nil {
		t.Fatalf("DiscoverMatchIDs: %v", err)
	}
	want := []string{"9", "266236", "3890561", "abc"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids: want %v, got %v", want, ids)
	}
}

func TestNormalizeMatchIDs(t *testing.T) {
	got := NormalizeMatchIDs([]string{"M2", " M1 ", "M2", "", "10.json", "2"})
	want := []string{"2", "10", "M1", "M2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestValidateMatchID(t *testing.T) {
	for _, id := range []string{"266236", "M1", "a.b", "x..y"} {
		if err := ValidateMatchID(id); err != nil {
			t.Errorf("ValidateMatchID(%q): unexpected error %v", id, err)
		}
	}
	for _, id := range []string{"", ".", "..", "../x", "a/b", `..\x`, "/etc/passwd"} {
		if err := ValidateMatchID(id); !errors.Is(err, ErrInvalidMatchID) {
			t.Errorf("ValidateMatchID(%q): want ErrInvalidMatchID, got %v", id, err)
		}
	}
}

func TestSplitMatchIDs(t *testing.T) {
	valid, invalid := SplitMatchIDs([]string{"10", "../x", " 9 ", "..", "9"})
	if !reflect.DeepEqual(valid, []string{"9", "10"}) {
		t.Errorf("valid: got %v", valid)
	}
	if !reflect.DeepEqual(invalid, []string{"..", "../x"}) {
		t.Errorf("invalid: got %v", invalid)
	}
}
