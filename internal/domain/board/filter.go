package board

import (
	"strings"

	"github.com/prospectlab/rule5-board/internal/domain/prospect"
)

// Filter narrows an eligibility table. Zero-valued dimensions are skipped,
// populated ones combine with AND. Entries missing a value a dimension
// needs (a nil age against an age range) never match that dimension.
type Filter struct {
	Search    string
	Orgs      []string
	Positions []string
	Levels    []string
	AgeMin    *float64
	AgeMax    *float64
}

// IsZero reports whether every dimension is unset.
func (f Filter) IsZero() bool {
	return f.Search == "" &&
		len(f.Orgs) == 0 &&
		len(f.Positions) == 0 &&
		len(f.Levels) == 0 &&
		f.AgeMin == nil &&
		f.AgeMax == nil
}

// Apply returns the entries matching every populated dimension. A zero
// filter returns the input unchanged.
func Apply(entries []prospect.RosterEntry, f Filter) []prospect.RosterEntry {
	if f.IsZero() {
		return entries
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	orgs := toSet(f.Orgs)
	positions := toSet(f.Positions)
	levels := toSet(f.Levels)

	matched := make([]prospect.RosterEntry, 0, len(entries))
	for _, entry := range entries {
		if search != "" && !strings.Contains(strings.ToLower(entry.Name), search) {
			continue
		}
		if orgs != nil && !orgs[entry.Org] {
			continue
		}
		if positions != nil && !positions[entry.Position] {
			continue
		}
		if levels != nil && !levels[entry.Level] {
			continue
		}
		if f.AgeMin != nil || f.AgeMax != nil {
			if entry.Age == nil {
				continue
			}
			if f.AgeMin != nil && *entry.Age < *f.AgeMin {
				continue
			}
			if f.AgeMax != nil && *entry.Age > *f.AgeMax {
				continue
			}
		}
		matched = append(matched, entry)
	}

	return matched
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}

	return set
}
