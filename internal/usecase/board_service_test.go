package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prospectlab/rule5-board/internal/domain/board"
	"github.com/prospectlab/rule5-board/internal/domain/prospect"
	"github.com/prospectlab/rule5-board/internal/platform/cache"
)

func testBoardConfig() BoardConfig {
	return BoardConfig{
		Season:                2025,
		FetchWorkers:          5,
		MinPAThreshold:        50,
		MinIPThreshold:        20,
		TopProspectMaxOrgRank: 10,
	}
}

func TestBoardServiceRefresh_BuildsSortedSnapshot(t *testing.T) {
	t.Parallel()

	roster := &stubRosterProvider{entriesByOrg: map[string][]prospect.RosterEntry{
		"HOU": {
			{Name: "Jon Singleton", Position: "1B", Age: prospect.Float(27), Level: prospect.LevelAAA, Org: "HOU", OrgRank: prospect.Int(5), OverallRank: prospect.Int(80)},
		},
		"SF": {
			{Name: "Luis Matos", Position: "OF", Age: prospect.Float(21), Level: prospect.LevelAA, Org: "SF", OrgRank: prospect.Int(3)},
		},
	}}
	stats := &stubSeasonStatsProvider{
		batting: []prospect.SeasonBattingRecord{
			{Name: "Jon Singleton", Level: "AA,AAA", Age: prospect.Float(27), PA: prospect.Float(410), AVG: prospect.Float(0.254)},
		},
		pitching: []prospect.SeasonPitchingRecord{},
	}
	advanced := &stubAdvancedMetricsProvider{
		hitters: []prospect.AdvancedMetricRecord{
			{Name: "jon singleton ", Age: prospect.Float(99), Position: "1B", ProspectScore: prospect.Float(82), PlayerType: prospect.PlayerTypeHitter, PA: prospect.Float(410)},
		},
	}

	svc := NewBoardService(roster, stats, advanced, nil, nil, testBoardConfig())

	snap, err := svc.Refresh(context.Background(), nil)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	if snap.Season != 2025 {
		t.Fatalf("expected season 2025, got=%d", snap.Season)
	}
	if snap.FetchedAt.IsZero() {
		t.Fatalf("expected fetched timestamp to be set")
	}
	if len(snap.Eligibility) != 2 {
		t.Fatalf("expected 2 eligibility rows, got=%d", len(snap.Eligibility))
	}
	if snap.Eligibility[0].Name != "Luis Matos" || snap.Eligibility[1].Name != "Jon Singleton" {
		t.Fatalf("expected org-rank ordering, got=%q then %q", snap.Eligibility[0].Name, snap.Eligibility[1].Name)
	}
	if len(snap.Advanced) != 1 || snap.Advanced[0].Entry.Name != "Jon Singleton" {
		t.Fatalf("expected the covered-level hitter to join, got=%+v", snap.Advanced)
	}
	if snap.Advanced[0].Metrics.Age != nil {
		t.Fatalf("expected metric age to defer to the eligibility side, got=%v", snap.Advanced[0].Metrics.Age)
	}
	if len(snap.SeasonBatting) != 1 || snap.SeasonBatting[0].Stats.Level != prospect.LevelAAA {
		t.Fatalf("expected one batting row at reduced level AAA, got=%+v", snap.SeasonBatting)
	}
	if len(snap.FailedOrgs) != 0 || len(snap.Warnings) != 0 {
		t.Fatalf("expected clean refresh, failed=%v warnings=%v", snap.FailedOrgs, snap.Warnings)
	}
	if got := roster.calls.Load(); got != int32(len(prospect.OrgIDs())) {
		t.Fatalf("expected one roster call per org, got=%d", got)
	}
}

func TestBoardServiceRefresh_ToleratesPartialOrgFailures(t *testing.T) {
	t.Parallel()

	roster := &stubRosterProvider{
		entriesByOrg: map[string][]prospect.RosterEntry{
			"HOU": {{Name: "Jon Singleton", Position: "1B", Level: prospect.LevelAAA, Org: "HOU"}},
		},
		failOrgs: map[string]bool{"BAL": true},
	}
	svc := NewBoardService(roster, &stubSeasonStatsProvider{}, &stubAdvancedMetricsProvider{}, nil, nil, testBoardConfig())

	snap, err := svc.Refresh(context.Background(), nil)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	if len(snap.FailedOrgs) != 1 || snap.FailedOrgs[0] != "BAL" {
		t.Fatalf("expected BAL to be reported failed, got=%v", snap.FailedOrgs)
	}
	if len(snap.Warnings) != 1 || snap.Warnings[0] != "Failed to fetch BAL" {
		t.Fatalf("unexpected warnings: %v", snap.Warnings)
	}
	if len(snap.Eligibility) != 1 || snap.Eligibility[0].Org != "HOU" {
		t.Fatalf("expected surviving orgs to keep their rows, got=%+v", snap.Eligibility)
	}
}

func TestBoardServiceRefresh_AllRosterFetchesFailed(t *testing.T) {
	t.Parallel()

	roster := &stubRosterProvider{failAll: true}
	svc := NewBoardService(roster, &stubSeasonStatsProvider{}, &stubAdvancedMetricsProvider{}, nil, nil, testBoardConfig())

	_, err := svc.Refresh(context.Background(), nil)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got=%v", err)
	}
}

func TestBoardServiceRefresh_ReportsProgress(t *testing.T) {
	t.Parallel()

	roster := &stubRosterProvider{}
	svc := NewBoardService(roster, &stubSeasonStatsProvider{}, &stubAdvancedMetricsProvider{}, nil, nil, testBoardConfig())

	var seen []int
	wantTotal := len(prospect.OrgIDs())
	_, err := svc.Refresh(context.Background(), func(completed, total int) {
		if total != wantTotal {
			t.Errorf("expected total %d, got=%d", wantTotal, total)
		}
		seen = append(seen, completed)
	})
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	if len(seen) != wantTotal {
		t.Fatalf("expected %d progress calls, got=%d", wantTotal, len(seen))
	}
	for i, completed := range seen {
		if completed != i+1 {
			t.Fatalf("expected monotonic progress, call %d reported %d", i, completed)
		}
	}
}

func TestBoardServiceRefresh_DegradesWhenSeasonStatsFail(t *testing.T) {
	t.Parallel()

	roster := &stubRosterProvider{entriesByOrg: map[string][]prospect.RosterEntry{
		"HOU": {{Name: "Arm Guy", Position: "P", Level: prospect.LevelAAA, Org: "HOU"}},
	}}
	stats := &stubSeasonStatsProvider{
		battingErr: errors.New("stat source down"),
		pitching: []prospect.SeasonPitchingRecord{
			{Name: "Arm Guy", Level: prospect.LevelAAA, IP: prospect.Float(88)},
		},
	}
	svc := NewBoardService(roster, stats, &stubAdvancedMetricsProvider{}, nil, nil, testBoardConfig())

	snap, err := svc.Refresh(context.Background(), nil)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	if len(snap.Warnings) != 1 || snap.Warnings[0] != "Season batting stats unavailable" {
		t.Fatalf("unexpected warnings: %v", snap.Warnings)
	}
	if len(snap.SeasonBatting) != 0 {
		t.Fatalf("expected no batting rows, got=%d", len(snap.SeasonBatting))
	}
	if len(snap.SeasonPitching) != 1 {
		t.Fatalf("expected pitching join to survive, got=%d", len(snap.SeasonPitching))
	}
}

func TestBoardServiceRefresh_DegradesWhenAdvancedSourceFails(t *testing.T) {
	t.Parallel()

	roster := &stubRosterProvider{entriesByOrg: map[string][]prospect.RosterEntry{
		"HOU": {{Name: "Arm Guy", Position: "P", Level: prospect.LevelAAA, Org: "HOU"}},
	}}
	advanced := &stubAdvancedMetricsProvider{
		hittersErr: errors.New("advanced source down"),
		pitchers: []prospect.AdvancedMetricRecord{
			{Name: "Arm Guy", Position: "P", ProspectScore: prospect.Float(91), PlayerType: prospect.PlayerTypePitcher, IP: prospect.Float(88)},
		},
	}
	svc := NewBoardService(roster, &stubSeasonStatsProvider{}, advanced, nil, nil, testBoardConfig())

	snap, err := svc.Refresh(context.Background(), nil)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	if len(snap.Warnings) != 1 || snap.Warnings[0] != "Advanced hitter metrics unavailable" {
		t.Fatalf("unexpected warnings: %v", snap.Warnings)
	}
	if len(snap.Advanced) != 1 || snap.Advanced[0].Metrics.PlayerType != prospect.PlayerTypePitcher {
		t.Fatalf("expected the pitcher board to still join, got=%+v", snap.Advanced)
	}
}

func TestBoardServiceBoard_ReusesCachedSnapshot(t *testing.T) {
	t.Parallel()

	roster := &stubRosterProvider{}
	cfg := testBoardConfig()
	cfg.CacheEnabled = true
	svc := NewBoardService(roster, &stubSeasonStatsProvider{}, &stubAdvancedMetricsProvider{}, cache.NewStore(time.Minute), nil, cfg)

	first, err := svc.Board(context.Background())
	if err != nil {
		t.Fatalf("first Board error: %v", err)
	}
	second, err := svc.Board(context.Background())
	if err != nil {
		t.Fatalf("second Board error: %v", err)
	}

	if first != second {
		t.Fatalf("expected the cached snapshot to be reused")
	}
	if got := roster.calls.Load(); got != int32(len(prospect.OrgIDs())) {
		t.Fatalf("expected a single fetch cycle, got %d roster calls", got)
	}
}

func TestBoardServiceInvalidate_ForcesRebuild(t *testing.T) {
	t.Parallel()

	roster := &stubRosterProvider{}
	cfg := testBoardConfig()
	cfg.CacheEnabled = true
	svc := NewBoardService(roster, &stubSeasonStatsProvider{}, &stubAdvancedMetricsProvider{}, cache.NewStore(time.Minute), nil, cfg)

	if _, err := svc.Board(context.Background()); err != nil {
		t.Fatalf("Board error: %v", err)
	}
	svc.Invalidate(context.Background())
	if _, err := svc.Board(context.Background()); err != nil {
		t.Fatalf("Board after invalidate error: %v", err)
	}

	want := int32(2 * len(prospect.OrgIDs()))
	if got := roster.calls.Load(); got != want {
		t.Fatalf("expected two fetch cycles, got %d roster calls, want %d", got, want)
	}
}

func TestBoardServiceRefresh_RequiresConfiguredSources(t *testing.T) {
	t.Parallel()

	svc := NewBoardService(nil, nil, nil, nil, nil, testBoardConfig())

	_, err := svc.Refresh(context.Background(), nil)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got=%v", err)
	}
}

func TestBoardServiceAdvancedTables_AppliesAppearanceThresholds(t *testing.T) {
	t.Parallel()

	roster := &stubRosterProvider{entriesByOrg: map[string][]prospect.RosterEntry{
		"HOU": {
			{Name: "Full Season Bat", Position: "1B", Level: prospect.LevelAAA, Org: "HOU"},
			{Name: "September Cup", Position: "OF", Level: prospect.LevelAAA, Org: "HOU"},
			{Name: "Workhorse Arm", Position: "P", Level: prospect.LevelAAA, Org: "HOU"},
			{Name: "Fresh Callup Arm", Position: "P", Level: prospect.LevelAAA, Org: "HOU"},
		},
	}}
	advanced := &stubAdvancedMetricsProvider{
		hitters: []prospect.AdvancedMetricRecord{
			{Name: "Full Season Bat", PlayerType: prospect.PlayerTypeHitter, PA: prospect.Float(120)},
			{Name: "September Cup", PlayerType: prospect.PlayerTypeHitter, PA: prospect.Float(30)},
		},
		pitchers: []prospect.AdvancedMetricRecord{
			{Name: "Workhorse Arm", PlayerType: prospect.PlayerTypePitcher, IP: prospect.Float(25)},
			{Name: "Fresh Callup Arm", PlayerType: prospect.PlayerTypePitcher},
		},
	}
	svc := NewBoardService(roster, &stubSeasonStatsProvider{}, advanced, nil, nil, testBoardConfig())

	tables, err := svc.AdvancedTables(context.Background())
	if err != nil {
		t.Fatalf("AdvancedTables error: %v", err)
	}

	if len(tables.Hitters) != 1 || tables.Hitters[0].Entry.Name != "Full Season Bat" {
		t.Fatalf("expected only the hitter above the PA threshold, got=%+v", tables.Hitters)
	}
	if len(tables.Pitchers) != 1 || tables.Pitchers[0].Entry.Name != "Workhorse Arm" {
		t.Fatalf("expected only the pitcher above the IP threshold, got=%+v", tables.Pitchers)
	}
	if tables.MinPA != 50 || tables.MinIP != 20 {
		t.Fatalf("expected thresholds to be echoed, got pa=%v ip=%v", tables.MinPA, tables.MinIP)
	}

	table, err := svc.Eligibility(context.Background(), board.Filter{})
	if err != nil {
		t.Fatalf("Eligibility error: %v", err)
	}
	if len(table.Entries) != 4 {
		t.Fatalf("thresholds must not shrink the eligibility table, got=%d", len(table.Entries))
	}
}

func TestBoardServiceEligibility_AppliesFilter(t *testing.T) {
	t.Parallel()

	roster := &stubRosterProvider{entriesByOrg: map[string][]prospect.RosterEntry{
		"HOU": {{Name: "Jon Singleton", Position: "1B", Age: prospect.Float(27), Level: prospect.LevelAAA, Org: "HOU", OrgRank: prospect.Int(5)}},
		"SF":  {{Name: "Luis Matos", Position: "OF", Age: prospect.Float(21), Level: prospect.LevelAA, Org: "SF", OrgRank: prospect.Int(3)}},
	}}
	svc := NewBoardService(roster, &stubSeasonStatsProvider{}, &stubAdvancedMetricsProvider{}, nil, nil, testBoardConfig())

	table, err := svc.Eligibility(context.Background(), board.Filter{Orgs: []string{"HOU"}})
	if err != nil {
		t.Fatalf("Eligibility error: %v", err)
	}

	if len(table.Entries) != 1 || table.Entries[0].Org != "HOU" {
		t.Fatalf("expected only HOU rows, got=%+v", table.Entries)
	}
	if table.Total != 2 {
		t.Fatalf("expected unfiltered total 2, got=%d", table.Total)
	}
	if len(table.FilterOptions.Orgs) != 2 {
		t.Fatalf("filter options must cover the whole board, got=%v", table.FilterOptions.Orgs)
	}
}

func TestBoardServiceEligibility_RejectsInvertedAgeRange(t *testing.T) {
	t.Parallel()

	svc := NewBoardService(&stubRosterProvider{}, &stubSeasonStatsProvider{}, &stubAdvancedMetricsProvider{}, nil, nil, testBoardConfig())

	_, err := svc.Eligibility(context.Background(), board.Filter{
		AgeMin: prospect.Float(25),
		AgeMax: prospect.Float(20),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
}

func TestBoardServiceSeasonTables_HidesZeroAppearanceRows(t *testing.T) {
	t.Parallel()

	roster := &stubRosterProvider{entriesByOrg: map[string][]prospect.RosterEntry{
		"HOU": {
			{Name: "Jon Singleton", Position: "1B", Level: prospect.LevelAAA, Org: "HOU"},
			{Name: "Phantom Bat", Position: "OF", Level: prospect.LevelAA, Org: "HOU"},
			{Name: "Arm Guy", Position: "P", Level: prospect.LevelAAA, Org: "HOU"},
		},
	}}
	stats := &stubSeasonStatsProvider{
		batting: []prospect.SeasonBattingRecord{
			{Name: "Jon Singleton", Level: prospect.LevelAAA, PA: prospect.Float(410)},
			{Name: "Phantom Bat", Level: prospect.LevelAA, PA: prospect.Float(0)},
		},
		pitching: []prospect.SeasonPitchingRecord{
			{Name: "Arm Guy", Level: prospect.LevelAAA, IP: prospect.Float(88)},
		},
	}
	svc := NewBoardService(roster, stats, &stubAdvancedMetricsProvider{}, nil, nil, testBoardConfig())

	tables, err := svc.SeasonTables(context.Background())
	if err != nil {
		t.Fatalf("SeasonTables error: %v", err)
	}

	if len(tables.Batting) != 1 || tables.Batting[0].Entry.Name != "Jon Singleton" {
		t.Fatalf("expected the zero-PA row to be hidden, got=%+v", tables.Batting)
	}
	if len(tables.Pitching) != 1 {
		t.Fatalf("expected one pitching row, got=%d", len(tables.Pitching))
	}

	// Level breakdowns count every joined row, including hidden ones.
	if len(tables.HitterLevels) != 2 {
		t.Fatalf("expected AAA and AA hitter buckets, got=%+v", tables.HitterLevels)
	}
	if len(tables.PitcherLevels) != 1 || tables.PitcherLevels[0].Key != prospect.LevelAAA {
		t.Fatalf("unexpected pitcher buckets: %+v", tables.PitcherLevels)
	}
}

func TestBoardServiceOverview_ComposesDashboard(t *testing.T) {
	t.Parallel()

	roster := &stubRosterProvider{entriesByOrg: map[string][]prospect.RosterEntry{
		"HOU": {{Name: "Jon Singleton", Position: "1B", Age: prospect.Float(27), Level: prospect.LevelAAA, Org: "HOU", OrgRank: prospect.Int(5), OverallRank: prospect.Int(80)}},
		"SF":  {{Name: "Luis Matos", Position: "OF", Age: prospect.Float(21), Level: prospect.LevelAA, Org: "SF", OrgRank: prospect.Int(30)}},
	}}
	advanced := &stubAdvancedMetricsProvider{
		hitters: []prospect.AdvancedMetricRecord{
			{Name: "jon singleton ", Age: prospect.Float(99), Position: "1B", ProspectScore: prospect.Float(82), PlayerType: prospect.PlayerTypeHitter, PA: prospect.Float(410)},
		},
	}
	svc := NewBoardService(roster, &stubSeasonStatsProvider{}, advanced, nil, nil, testBoardConfig())

	overview, err := svc.Overview(context.Background(), board.Filter{})
	if err != nil {
		t.Fatalf("Overview error: %v", err)
	}

	if overview.Summary.TotalPlayers != 2 {
		t.Fatalf("expected 2 players in summary, got=%d", overview.Summary.TotalPlayers)
	}
	if len(overview.TopProspects) != 1 || overview.TopProspects[0].Name != "Jon Singleton" {
		t.Fatalf("expected only the rank-5 player in top prospects, got=%+v", overview.TopProspects)
	}
	if len(overview.Hitters) != 1 || overview.Hitters[0].Metrics.Age != nil {
		t.Fatalf("expected one joined hitter with metric age cleared, got=%+v", overview.Hitters)
	}
	if len(overview.Eligibility) != 2 || overview.TotalPlayers != 2 {
		t.Fatalf("expected full eligibility table, got=%d rows total=%d", len(overview.Eligibility), overview.TotalPlayers)
	}
	if len(overview.FilterOptions.Orgs) != 2 || overview.FilterOptions.Orgs[0] != "HOU" {
		t.Fatalf("unexpected filter options: %+v", overview.FilterOptions.Orgs)
	}
	if overview.MaxOrgRank != 10 {
		t.Fatalf("expected the configured top-prospect cutoff, got=%d", overview.MaxOrgRank)
	}
}

func TestBoardServiceGradients_SplitsByPlayerType(t *testing.T) {
	t.Parallel()

	svc := NewBoardService(&stubRosterProvider{}, &stubSeasonStatsProvider{}, &stubAdvancedMetricsProvider{}, nil, nil, testBoardConfig())

	styling := svc.Gradients()
	if styling.Hitters["K%"] != board.DirectionLowerBetter {
		t.Fatalf("expected hitter strikeout rate to shade low, got=%q", styling.Hitters["K%"])
	}
	if styling.Pitchers["K%"] != board.DirectionHigherBetter {
		t.Fatalf("expected pitcher strikeout rate to shade high, got=%q", styling.Pitchers["K%"])
	}
}

type stubRosterProvider struct {
	entriesByOrg map[string][]prospect.RosterEntry
	failOrgs     map[string]bool
	failAll      bool
	calls        atomic.Int32
}

func (s *stubRosterProvider) FetchRoster(_ context.Context, _ int, orgCode string) ([]prospect.RosterEntry, error) {
	s.calls.Add(1)
	if s.failAll || s.failOrgs[orgCode] {
		return nil, errors.New("roster source down")
	}
	rows := s.entriesByOrg[orgCode]
	out := make([]prospect.RosterEntry, len(rows))
	copy(out, rows)
	return out, nil
}

type stubSeasonStatsProvider struct {
	batting     []prospect.SeasonBattingRecord
	pitching    []prospect.SeasonPitchingRecord
	battingErr  error
	pitchingErr error
}

func (s *stubSeasonStatsProvider) FetchSeasonBatting(_ context.Context, _ int) ([]prospect.SeasonBattingRecord, error) {
	if s.battingErr != nil {
		return nil, s.battingErr
	}
	out := make([]prospect.SeasonBattingRecord, len(s.batting))
	copy(out, s.batting)
	return out, nil
}

func (s *stubSeasonStatsProvider) FetchSeasonPitching(_ context.Context, _ int) ([]prospect.SeasonPitchingRecord, error) {
	if s.pitchingErr != nil {
		return nil, s.pitchingErr
	}
	out := make([]prospect.SeasonPitchingRecord, len(s.pitching))
	copy(out, s.pitching)
	return out, nil
}

type stubAdvancedMetricsProvider struct {
	hitters     []prospect.AdvancedMetricRecord
	pitchers    []prospect.AdvancedMetricRecord
	hittersErr  error
	pitchersErr error
}

func (s *stubAdvancedMetricsProvider) FetchHitters(_ context.Context, _ int) ([]prospect.AdvancedMetricRecord, error) {
	if s.hittersErr != nil {
		return nil, s.hittersErr
	}
	out := make([]prospect.AdvancedMetricRecord, len(s.hitters))
	copy(out, s.hitters)
	return out, nil
}

func (s *stubAdvancedMetricsProvider) FetchPitchers(_ context.Context, _ int) ([]prospect.AdvancedMetricRecord, error) {
	if s.pitchersErr != nil {
		return nil, s.pitchersErr
	}
	out := make([]prospect.AdvancedMetricRecord, len(s.pitchers))
	copy(out, s.pitchers)
	return out, nil
}
