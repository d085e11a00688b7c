// Package spatial discretises StatsBomb pitch coordinates (120 x 80, origin at
// the attacking team's own goal line, left touchline) into coarse zones.
package spatial

import (
	"fmt"

	"github.com/pable/go-possession-log/internal/model"
)

// Unknown is returned for a missing coordinate.
const Unknown = "Unknown"

// Zone names along the long axis, own goal to opponent goal.
const (
	OwnPenaltyArea      = "Own Penalty Area"
	OwnHalf             = "Own Half"
	MidfieldZone        = "Midfield Zone"
	Attacking34         = "Attacking 3/4"
	OpponentHalf        = "Opponent Half"
	OpponentPenaltyArea = "Opponent Penalty Area"
)

// Vertical band names across the short axis.
const (
	Left        = "left"
	CenterLeft  = "center-left"
	CenterRight = "center-right"
	Right       = "right"
)

var zoneNames = [6]string{OwnPenaltyArea, OwnHalf, MidfieldZone, Attacking34, OpponentHalf, OpponentPenaltyArea}

var bandNames = [4]string{Left, CenterLeft, CenterRight, Right}

// Grid is the default zone classifier: five x boundaries split the long axis
// into six zones, and the pitch width is split into four equal bands.
type Grid struct {
	boundaries [5]float64
	width      float64
}

// DefaultGrid uses the standard 18/40/60/80/102 boundaries on an 80-wide pitch.
var DefaultGrid = Grid{boundaries: [5]float64{18, 40, 60, 80, 102}, width: 80}

// NewGrid validates and builds a Grid.
func NewGrid(boundaries []float64, width float64) (Grid, error) {
	if len(boundaries) != 5 {
		return Grid{}, fmt.Errorf("need 5 zone boundaries, got %d", len(boundaries))
	}
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i] <= boundaries[i-1] {
			return Grid{}, fmt.Errorf("zone boundaries must be strictly increasing: %v", boundaries)
		}
	}
	if width <= 0 {
		return Grid{}, fmt.Errorf("pitch width must be positive, got %g", width)
	}
	var g Grid
	copy(g.boundaries[:], boundaries)
	g.width = width
	return g, nil
}

// Zone maps x to one of six zones. Each zone is closed below and open above;
// values under the first boundary (including negatives) land in the first zone
// and everything from the last boundary on lands in the last.
func (g Grid) Zone(x float64) string {
	for i, b := range g.boundaries {
		if x < b {
			return zoneNames[i]
		}
	}
	return zoneNames[len(zoneNames)-1]
}

// Vertical clamps y to [0, width] and maps it to one of four equal bands.
// The last band is closed at width.
func (g Grid) Vertical(y float64) string {
	if y < 0 {
		y = 0
	}
	if y > g.width {
		y = g.width
	}
	band := g.width / 4
	for i := 0; i < 3; i++ {
		if y < band*float64(i+1) {
			return bandNames[i]
		}
	}
	return bandNames[3]
}

// Classify returns zone and vertical band for loc, or Unknown for both when loc is nil.
func (g Grid) Classify(loc *model.Location) (zone, vertical string) {
	if loc == nil {
		return Unknown, Unknown
	}
	return g.Zone(loc.X), g.Vertical(loc.Y)
}

// Zones lists the zone names in pitch order.
func Zones() []string {
	return append([]string(nil), zoneNames[:]...)
}
