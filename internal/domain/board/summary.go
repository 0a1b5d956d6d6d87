package board

import (
	"sort"

	"github.com/prospectlab/rule5-board/internal/domain/prospect"
)

const (
	// youngAgeCutoff is the inclusive age ceiling for the "young prospects"
	// summary count.
	youngAgeCutoff = 23.0

	// topOrgRankCutoff is the inclusive organizational rank ceiling for the
	// "top org prospects" summary count.
	topOrgRankCutoff = 20
)

// Summary aggregates headline numbers over an eligibility table. AverageAge
// is nil when no entry carries an age.
type Summary struct {
	TotalPlayers     int
	AverageAge       *float64
	RankedProspects  int
	YoungProspects   int
	TopOrgProspects  int
	MostExposedOrg   string
	MostExposedCount int
	ByOrg            []CountByKey
	ByPosition       []CountByKey
}

// CountByKey is one bucket of a grouped count.
type CountByKey struct {
	Key   string
	Count int
}

// Summarize computes the summary block for a set of eligibility entries.
func Summarize(entries []prospect.RosterEntry) Summary {
	s := Summary{TotalPlayers: len(entries)}

	var ageSum float64
	var ageCount int
	orgCounts := map[string]int{}
	positionCounts := map[string]int{}
	for _, entry := range entries {
		if entry.Age != nil {
			ageSum += *entry.Age
			ageCount++
			if *entry.Age <= youngAgeCutoff {
				s.YoungProspects++
			}
		}
		if entry.OrgRank != nil {
			s.RankedProspects++
			if *entry.OrgRank <= topOrgRankCutoff {
				s.TopOrgProspects++
			}
		}
		if entry.Org != "" {
			orgCounts[entry.Org]++
		}
		if entry.Position != "" {
			positionCounts[entry.Position]++
		}
	}

	if ageCount > 0 {
		avg := ageSum / float64(ageCount)
		s.AverageAge = &avg
	}

	s.ByOrg = sortedCounts(orgCounts)
	s.ByPosition = sortedCounts(positionCounts)
	if len(s.ByOrg) > 0 {
		s.MostExposedOrg = s.ByOrg[0].Key
		s.MostExposedCount = s.ByOrg[0].Count
	}

	return s
}

// LevelCounts buckets joined batting and pitching rows by their reduced
// season level.
func LevelCounts(batting []SeasonBattingRow, pitching []SeasonPitchingRow) (hitters, pitchers []CountByKey) {
	hitterCounts := map[string]int{}
	for _, row := range batting {
		if row.Stats.Level != "" {
			hitterCounts[row.Stats.Level]++
		}
	}
	pitcherCounts := map[string]int{}
	for _, row := range pitching {
		if row.Stats.Level != "" {
			pitcherCounts[row.Stats.Level]++
		}
	}

	return sortedCounts(hitterCounts), sortedCounts(pitcherCounts)
}

// sortedCounts flattens a count map into buckets ordered by count
// descending, key ascending on ties, so grouped output is stable run to run.
func sortedCounts(counts map[string]int) []CountByKey {
	if len(counts) == 0 {
		return nil
	}
	buckets := make([]CountByKey, 0, len(counts))
	for key, count := range counts {
		buckets = append(buckets, CountByKey{Key: key, Count: count})
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}

		return buckets[i].Key < buckets[j].Key
	})

	return buckets
}
