package board

import (
	"math"
	"sort"

	"github.com/prospectlab/rule5-board/internal/domain/prospect"
)

// FilterOptions describes the choices a filter control can offer for one
// eligibility table: the distinct values per dimension and the age span.
// The age bounds are widened to whole years so fractional ages at the
// extremes stay inside the advertised range.
type FilterOptions struct {
	Orgs      []string
	Positions []string
	Levels    []string
	AgeMin    *int
	AgeMax    *int
}

// BuildFilterOptions collects the distinct filter values present in the
// entries. Blank positions and levels are omitted.
func BuildFilterOptions(entries []prospect.RosterEntry) FilterOptions {
	orgs := map[string]struct{}{}
	positions := map[string]struct{}{}
	levels := map[string]struct{}{}

	var ageMin, ageMax *float64
	for _, entry := range entries {
		if entry.Org != "" {
			orgs[entry.Org] = struct{}{}
		}
		if entry.Position != "" {
			positions[entry.Position] = struct{}{}
		}
		if entry.Level != "" {
			levels[entry.Level] = struct{}{}
		}
		if entry.Age != nil {
			if ageMin == nil || *entry.Age < *ageMin {
				ageMin = entry.Age
			}
			if ageMax == nil || *entry.Age > *ageMax {
				ageMax = entry.Age
			}
		}
	}

	options := FilterOptions{
		Orgs:      sortedKeys(orgs),
		Positions: sortedKeys(positions),
		Levels:    sortedKeys(levels),
	}
	if ageMin != nil {
		low := int(math.Floor(*ageMin))
		options.AgeMin = &low
	}
	if ageMax != nil {
		high := int(math.Ceil(*ageMax))
		options.AgeMax = &high
	}

	return options
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}
