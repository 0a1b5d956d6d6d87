package board

import (
	"strings"

	"github.com/prospectlab/rule5-board/internal/domain/prospect"
)

// AdvancedCoverageLevel is the only tier the advanced-metrics source covers.
// The eligibility side of that join is restricted to it before matching.
const AdvancedCoverageLevel = prospect.LevelAAA

// Options control join behavior.
type Options struct {
	// StrictKey appends the primary position to the advanced join key to
	// disambiguate same-named players. The season stat source reports
	// neither position nor organization, so season joins always key on
	// name alone.
	StrictKey bool
}

// AdvancedRow is one eligibility entry joined with one advanced metric
// record. The metric record's own age and position are dropped in favor of
// the eligibility values, matching the column-collision policy: the
// eligibility side wins, the rest of the secondary side stays under Metrics.
type AdvancedRow struct {
	Entry   prospect.RosterEntry
	Metrics prospect.AdvancedMetricRecord
}

// SeasonBattingRow is one eligibility entry joined with one season batting
// line. Stats.Age survives alongside Entry.Age; exports suffix it with the
// stat source name instead of overwriting.
type SeasonBattingRow struct {
	Entry prospect.RosterEntry
	Stats prospect.SeasonBattingRecord
}

// SeasonPitchingRow is one eligibility entry joined with one season pitching
// line.
type SeasonPitchingRow struct {
	Entry prospect.RosterEntry
	Stats prospect.SeasonPitchingRecord
}

// JoinAdvanced inner-joins eligibility entries with advanced metric records
// by normalized name. Only entries at the advanced source's covered level
// participate. A name matched by several metric records (a two-way player
// appears on both the hitter and pitcher boards) emits one row per match.
// Output order follows input order; callers impose presentation order with
// an explicit sort.
func JoinAdvanced(entries []prospect.RosterEntry, metrics []prospect.AdvancedMetricRecord, opts Options) []AdvancedRow {
	if len(entries) == 0 || len(metrics) == 0 {
		return nil
	}

	byKey := make(map[string][]prospect.AdvancedMetricRecord, len(metrics))
	for _, metric := range metrics {
		key := advancedKey(metric.Name, metric.Position, opts.StrictKey)
		if key == "" {
			continue
		}
		byKey[key] = append(byKey[key], metric)
	}

	var rows []AdvancedRow
	for _, entry := range entries {
		if entry.Level != AdvancedCoverageLevel {
			continue
		}
		key := advancedKey(entry.Name, entry.Position, opts.StrictKey)
		if key == "" {
			continue
		}
		for _, metric := range byKey[key] {
			metric.Age = nil
			metric.Position = ""
			rows = append(rows, AdvancedRow{Entry: entry, Metrics: metric})
		}
	}

	return rows
}

// JoinSeasonBatting inner-joins eligibility entries with season batting
// lines by normalized name. Multi-level season strings reduce to the single
// highest tier on the way through.
func JoinSeasonBatting(entries []prospect.RosterEntry, stats []prospect.SeasonBattingRecord) []SeasonBattingRow {
	if len(entries) == 0 || len(stats) == 0 {
		return nil
	}

	byKey := make(map[string][]prospect.SeasonBattingRecord, len(stats))
	for _, stat := range stats {
		key := prospect.NormalizeName(stat.Name)
		if key == "" {
			continue
		}
		byKey[key] = append(byKey[key], stat)
	}

	var rows []SeasonBattingRow
	for _, entry := range entries {
		key := prospect.NormalizeName(entry.Name)
		if key == "" {
			continue
		}
		for _, stat := range byKey[key] {
			stat.Level = prospect.ReduceLevel(stat.Level)
			rows = append(rows, SeasonBattingRow{Entry: entry, Stats: stat})
		}
	}

	return rows
}

// JoinSeasonPitching mirrors JoinSeasonBatting for pitching lines.
func JoinSeasonPitching(entries []prospect.RosterEntry, stats []prospect.SeasonPitchingRecord) []SeasonPitchingRow {
	if len(entries) == 0 || len(stats) == 0 {
		return nil
	}

	byKey := make(map[string][]prospect.SeasonPitchingRecord, len(stats))
	for _, stat := range stats {
		key := prospect.NormalizeName(stat.Name)
		if key == "" {
			continue
		}
		byKey[key] = append(byKey[key], stat)
	}

	var rows []SeasonPitchingRow
	for _, entry := range entries {
		key := prospect.NormalizeName(entry.Name)
		if key == "" {
			continue
		}
		for _, stat := range byKey[key] {
			stat.Level = prospect.ReduceLevel(stat.Level)
			rows = append(rows, SeasonPitchingRow{Entry: entry, Stats: stat})
		}
	}

	return rows
}

func advancedKey(name, position string, strict bool) string {
	key := prospect.NormalizeName(name)
	if key == "" || !strict {
		return key
	}

	return key + "|" + strings.ToUpper(prospect.PrimaryPosition(position))
}
