package board

import (
	"math"

	"github.com/prospectlab/rule5-board/internal/domain/prospect"
)

// Direction tells a renderer which end of a metric's scale is good, so
// percentile shading can run the gradient the right way.
type Direction string

const (
	DirectionHigherBetter Direction = "higher_better"
	DirectionLowerBetter  Direction = "lower_better"
)

// hitterGradients and pitcherGradients key shading direction by display
// column. Chase and strikeout rates flip between the two tables: a hitter
// wants them low, a pitcher wants to induce them.
var hitterGradients = map[string]Direction{
	"xBA":          DirectionHigherBetter,
	"xwOBA":        DirectionHigherBetter,
	"xSLG":         DirectionHigherBetter,
	"Barrel%":      DirectionHigherBetter,
	"EV":           DirectionHigherBetter,
	"BB%":          DirectionHigherBetter,
	"Sprint Speed": DirectionHigherBetter,
	"Chase%":       DirectionLowerBetter,
	"K%":           DirectionLowerBetter,
}

var pitcherGradients = map[string]Direction{
	"Max Velo": DirectionHigherBetter,
	"K%":       DirectionHigherBetter,
	"Whiff%":   DirectionHigherBetter,
	"Chase%":   DirectionHigherBetter,
	"xBA":      DirectionLowerBetter,
	"xwOBA":    DirectionLowerBetter,
	"xSLG":     DirectionLowerBetter,
	"BB%":      DirectionLowerBetter,
}

// GradientDirections returns the shading direction per display column for
// one advanced table. Callers must not mutate the returned map.
func GradientDirections(playerType prospect.PlayerType) map[string]Direction {
	if playerType == prospect.PlayerTypePitcher {
		return pitcherGradients
	}

	return hitterGradients
}

// TopProspects selects entries whose organizational rank is at or above the
// cutoff (numerically at or below maxOrgRank) and orders them by that rank.
// The input slice is left untouched.
func TopProspects(entries []prospect.RosterEntry, maxOrgRank int) []prospect.RosterEntry {
	var top []prospect.RosterEntry
	for _, entry := range entries {
		if entry.OrgRank != nil && *entry.OrgRank <= maxOrgRank {
			top = append(top, entry)
		}
	}
	SortEligibility(top)

	return top
}

// Percent1 rescales a fraction into percentage points rounded to one
// decimal. Season-stat rates arrive as fractions and must cross this
// boundary exactly once on their way to a rendered table.
func Percent1(v *float64) *float64 {
	if v == nil {
		return nil
	}
	scaled := math.Round(*v * 1000) / 10

	return &scaled
}

// Round1 rounds to one decimal, passing nil through.
func Round1(v *float64) *float64 {
	if v == nil {
		return nil
	}
	rounded := math.Round(*v*10) / 10

	return &rounded
}

// Round0 rounds to a whole number, passing nil through.
func Round0(v *float64) *float64 {
	if v == nil {
		return nil
	}
	rounded := math.Round(*v)

	return &rounded
}
