package board

import (
	"sort"

	"github.com/prospectlab/rule5-board/internal/domain/prospect"
)

// SortEligibility orders entries by organizational rank then overall rank,
// ascending, with missing ranks after every ranked entry. The stable sort
// keeps arrival order between full ties so repeated runs over the same data
// render identically.
func SortEligibility(entries []prospect.RosterEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if c := compareIntPtrAsc(entries[i].OrgRank, entries[j].OrgRank); c != 0 {
			return c < 0
		}

		return compareIntPtrAsc(entries[i].OverallRank, entries[j].OverallRank) < 0
	})
}

// SortAdvanced orders joined advanced rows by prospect score, descending,
// with missing scores last.
func SortAdvanced(rows []AdvancedRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return compareFloatPtrDesc(rows[i].Metrics.ProspectScore, rows[j].Metrics.ProspectScore) < 0
	})
}

// SortSeasonBatting orders joined batting rows by organizational rank,
// ascending, with missing ranks last.
func SortSeasonBatting(rows []SeasonBattingRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return compareIntPtrAsc(rows[i].Entry.OrgRank, rows[j].Entry.OrgRank) < 0
	})
}

// SortSeasonPitching orders joined pitching rows by organizational rank,
// ascending, with missing ranks last.
func SortSeasonPitching(rows []SeasonPitchingRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return compareIntPtrAsc(rows[i].Entry.OrgRank, rows[j].Entry.OrgRank) < 0
	})
}

func compareIntPtrAsc(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}

func compareFloatPtrDesc(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a > *b:
		return -1
	case *a < *b:
		return 1
	default:
		return 0
	}
}
