// Package loader reads StatsBomb-style match files into typed records.
//
// Events live at <events_dir>/<match_id>.json as one JSON array per match;
// match metadata lives at <matches_dir>/<match_id>.json. Optional fields in
// the source become explicit absence on the typed records (nil location,
// NoPossession, empty strings) rather than silent defaults.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pable/go-possession-log/internal/model"
)

// ErrInvalidMatchID means a match id cannot name a file inside the data directories.
var ErrInvalidMatchID = errors.New("invalid match id")

// ErrMissingMetadata means the match metadata could not be used. It is recoverable:
// the match proceeds with an unknown outcome.
var ErrMissingMetadata = errors.New("match metadata unavailable")

// MalformedInputError means a match's event source is not a well-formed record list.
// It is fatal for that match only.
type MalformedInputError struct {
	Path   string
	Record int // index of the offending record, -1 when the whole document is bad
	Err    error
}

func (e *MalformedInputError) Error() string {
	if e.Record >= 0 {
		return fmt.Sprintf("malformed events %s (record %d): %v", e.Path, e.Record, e.Err)
	}
	return fmt.Sprintf("malformed events %s: %v", e.Path, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

type named struct {
	Name string `json:"name"`
}

type wireEvent struct {
	Period     int             `json:"period"`
	Timestamp  string          `json:"timestamp"`
	Minute     int             `json:"minute"`
	Second     int             `json:"second"`
	Type       *named          `json:"type"`
	Team       *named          `json:"team"`
	Player     *named          `json:"player"`
	Location   json.RawMessage `json:"location"`
	Possession *int            `json:"possession"`
	Shot       *struct {
		Outcome *named `json:"outcome"`
	} `json:"shot"`
}

// EventsPath returns the events file for a match.
func EventsPath(dir, matchID string) string {
	return filepath.Join(dir, matchID+".json")
}

// MetadataPath returns the metadata file for a match.
func MetadataPath(dir, matchID string) string {
	return filepath.Join(dir, matchID+".json")
}

// LoadEvents parses the event file at path. The returned slice keeps source order.
func LoadEvents(path string) ([]model.RawEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &MalformedInputError{Path: path, Record: -1, Err: err}
	}
	return ParseEvents(path, data)
}

// ParseEvents decodes an in-memory event document; path is only used in errors.
func ParseEvents(path string, data []byte) ([]model.RawEvent, error) {
	var wire []wireEvent
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &MalformedInputError{Path: path, Record: -1, Err: err}
	}
	if wire == nil {
		// "null" decodes without error but is not a record list.
		return nil, &MalformedInputError{Path: path, Record: -1, Err: errors.New("document is not an array")}
	}

	out := make([]model.RawEvent, 0, len(wire))
	for i, w := range wire {
		if w.Type == nil || w.Type.Name == "" {
			return nil, &MalformedInputError{Path: path, Record: i, Err: errors.New("missing type.name")}
		}
		ev := model.RawEvent{
			Activity:   w.Type.Name,
			Period:     w.Period,
			Minute:     w.Minute,
			Second:     w.Second,
			Timestamp:  w.Timestamp,
			Location:   parseLocation(w.Location),
			Possession: model.NoPossession,
		}
		if w.Team != nil {
			ev.Team = w.Team.Name
		}
		if w.Player != nil {
			ev.Player = w.Player.Name
		}
		if w.Possession != nil {
			ev.Possession = model.PossessionID(*w.Possession)
		}
		if w.Shot != nil && w.Shot.Outcome != nil {
			ev.ShotOutcome = w.Shot.Outcome.Name
		}
		out = append(out, ev)
	}
	return out, nil
}

// parseLocation accepts only a two-element numeric array; anything else is
// treated as a missing location.
func parseLocation(raw json.RawMessage) *model.Location {
	if len(raw) == 0 {
		return nil
	}
	var xy []float64
	if err := json.Unmarshal(raw, &xy); err != nil || len(xy) != 2 {
		return nil
	}
	return &model.Location{X: xy[0], Y: xy[1]}
}

type wireMatch struct {
	MatchDate string `json:"match_date"`
	HomeTeam  struct {
		Name string `json:"home_team_name"`
	} `json:"home_team"`
	AwayTeam struct {
		Name string `json:"away_team_name"`
	} `json:"away_team"`
	HomeScore *int `json:"home_score"`
	AwayScore *int `json:"away_score"`
}

// LoadMetadata reads a match metadata file. Every failure wraps ErrMissingMetadata.
func LoadMetadata(path string) (*model.MatchMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no metadata file %s", ErrMissingMetadata, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrMissingMetadata, err)
	}
	var w wireMatch
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrMissingMetadata, path, err)
	}
	if w.HomeTeam.Name == "" || w.AwayTeam.Name == "" || w.HomeScore == nil || w.AwayScore == nil {
		return nil, fmt.Errorf("%w: incomplete metadata in %s", ErrMissingMetadata, path)
	}
	return &model.MatchMetadata{
		HomeTeam:  w.HomeTeam.Name,
		AwayTeam:  w.AwayTeam.Name,
		HomeScore: *w.HomeScore,
		AwayScore: *w.AwayScore,
		MatchDate: w.MatchDate,
	}, nil
}

// ValidateMatchID rejects ids that would resolve outside the events, matches or
// output directory once joined into a path.
func ValidateMatchID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidMatchID, id)
	}
	return nil
}

// DiscoverMatchIDs lists the match ids with an events file in dir, sorted ascending.
func DiscoverMatchIDs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read events dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	return NormalizeMatchIDs(ids), nil
}

// NormalizeMatchIDs trims, deduplicates and sorts match ids. Numeric ids sort
// numerically so "9" precedes "10". Ids failing ValidateMatchID are kept so the
// caller can report them; use SplitMatchIDs to separate them.
func NormalizeMatchIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSuffix(strings.TrimSpace(id), ".json")
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return LessMatchID(out[i], out[j]) })
	return out
}

// SplitMatchIDs normalises ids and separates the ones ValidateMatchID rejects.
func SplitMatchIDs(ids []string) (valid, invalid []string) {
	for _, id := range NormalizeMatchIDs(ids) {
		if ValidateMatchID(id) != nil {
			invalid = append(invalid, id)
			continue
		}
		valid = append(valid, id)
	}
	return valid, invalid
}

// LessMatchID orders numeric ids by value and everything else lexically,
// numeric ids first.
func LessMatchID(a, b string) bool {
	na, aNum := numeric(a)
	nb, bNum := numeric(b)
	switch {
	case aNum && bNum:
		if len(na) != len(nb) {
			return len(na) < len(nb)
		}
		return na < nb
	case aNum != bNum:
		return aNum
	default:
		return a < b
	}
}

// numeric reports whether s is all digits and returns it without leading zeros.
func numeric(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	t := strings.TrimLeft(s, "0")
	if t == "" {
		t = "0"
	}
	return t, true
}
