// Package team compares team names the way the data source spells them
// inconsistently: case-insensitively, with full Unicode case folding.
package team

import (
	"strings"

	"golang.org/x/text/cases"
)

// Matcher reports whether a team name refers to the tracked team. It is safe
// for concurrent use; a cases.Caser is not, so each comparison folds with its own.
type Matcher struct {
	name   string
	folded string
}

// NewMatcher returns a Matcher for the tracked team name.
func NewMatcher(name string) *Matcher {
	name = strings.TrimSpace(name)
	return &Matcher{name: name, folded: cases.Fold().String(name)}
}

// Name returns the tracked team name as configured.
func (m *Matcher) Name() string { return m.name }

// Is reports whether candidate names the tracked team. An empty candidate never matches.
func (m *Matcher) Is(candidate string) bool {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return false
	}
	if candidate == m.name {
		return true
	}
	return cases.Fold().String(candidate) == m.folded
}
