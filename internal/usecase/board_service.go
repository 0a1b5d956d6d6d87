package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/prospectlab/rule5-board/internal/domain/board"
	"github.com/prospectlab/rule5-board/internal/domain/prospect"
	"github.com/prospectlab/rule5-board/internal/platform/cache"
	"github.com/prospectlab/rule5-board/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

// RosterProvider lists one organization's draft-exposed players.
type RosterProvider interface {
	FetchRoster(ctx context.Context, orgID int, orgCode string) ([]prospect.RosterEntry, error)
}

// SeasonStatsProvider returns a season of minor-league stat lines across
// levels.
type SeasonStatsProvider interface {
	FetchSeasonBatting(ctx context.Context, season int) ([]prospect.SeasonBattingRecord, error)
	FetchSeasonPitching(ctx context.Context, season int) ([]prospect.SeasonPitchingRecord, error)
}

// AdvancedMetricsProvider returns percentile-scored metric records for the
// level the advanced source covers.
type AdvancedMetricsProvider interface {
	FetchHitters(ctx context.Context, season int) ([]prospect.AdvancedMetricRecord, error)
	FetchPitchers(ctx context.Context, season int) ([]prospect.AdvancedMetricRecord, error)
}

// ProgressFunc receives roster fan-out progress. Calls are serialized and
// completed increases by one per call up to total.
type ProgressFunc func(completed, total int)

type BoardConfig struct {
	Season                int
	FetchWorkers          int
	CacheEnabled          bool
	StrictJoinKey         bool
	MinPAThreshold        float64
	MinIPThreshold        float64
	TopProspectMaxOrgRank int
}

// BoardSnapshot is one fully assembled refresh cycle: the sorted
// eligibility table plus every joined stat table derived from it. Snapshots
// are immutable once built; accessors hand out slices of the cached value.
type BoardSnapshot struct {
	Season         int
	FetchedAt      time.Time
	Eligibility    []prospect.RosterEntry
	Advanced       []board.AdvancedRow
	SeasonBatting  []board.SeasonBattingRow
	SeasonPitching []board.SeasonPitchingRow
	FailedOrgs     []string
	Warnings       []string
}

type BoardService struct {
	roster   RosterProvider
	stats    SeasonStatsProvider
	advanced AdvancedMetricsProvider
	cache    *cache.Store
	logger   *logging.Logger
	cfg      BoardConfig
}

func NewBoardService(
	roster RosterProvider,
	stats SeasonStatsProvider,
	advanced AdvancedMetricsProvider,
	store *cache.Store,
	logger *logging.Logger,
	cfg BoardConfig,
) *BoardService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FetchWorkers <= 0 {
		cfg.FetchWorkers = 5
	}

	return &BoardService{
		roster:   roster,
		stats:    stats,
		advanced: advanced,
		cache:    store,
		logger:   logger,
		cfg:      cfg,
	}
}

const boardCachePrefix = "board:"

// Season display tables hide players without a recorded appearance; the
// provider also emits zero-PA placeholder rows.
const (
	seasonDisplayMinPA = 1.0
	seasonDisplayMinIP = 1.0
)

// Board returns the current snapshot, building one if the cache has none.
func (s *BoardService) Board(ctx context.Context) (*BoardSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.Board")
	defer span.End()

	return s.snapshot(ctx, nil)
}

// Refresh builds a fresh snapshot, replacing the cached one. The optional
// progress callback observes the roster fan-out.
func (s *BoardService) Refresh(ctx context.Context, progress ProgressFunc) (*BoardSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.Refresh")
	defer span.End()

	snapshot, err := s.buildSnapshot(ctx, progress)
	if err != nil {
		return nil, err
	}
	if s.cacheEnabled() {
		s.cache.Set(ctx, s.cacheKey(), snapshot)
	}

	return snapshot, nil
}

// Invalidate drops every cached snapshot so the next read rebuilds.
func (s *BoardService) Invalidate(ctx context.Context) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.Invalidate")
	defer span.End()

	if s.cache == nil {
		return
	}
	s.cache.DeletePrefix(ctx, boardCachePrefix)
	s.logger.InfoContext(ctx, "board cache invalidated", "season", s.cfg.Season)
}

// BoardOverview is the whole dashboard in one payload: headline summary,
// top prospects, both advanced tables, both season tables, and the filtered
// eligibility table with its filter choices.
type BoardOverview struct {
	Season         int
	FetchedAt      time.Time
	Summary        board.Summary
	TopProspects   []prospect.RosterEntry
	MaxOrgRank     int
	Hitters        []board.AdvancedRow
	Pitchers       []board.AdvancedRow
	MinPA          float64
	MinIP          float64
	SeasonBatting  []board.SeasonBattingRow
	SeasonPitching []board.SeasonPitchingRow
	HitterLevels   []board.CountByKey
	PitcherLevels  []board.CountByKey
	Eligibility    []prospect.RosterEntry
	TotalPlayers   int
	FilterOptions  board.FilterOptions
	FailedOrgs     []string
	Warnings       []string
}

func (s *BoardService) Overview(ctx context.Context, filter board.Filter) (BoardOverview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.Overview")
	defer span.End()

	if err := validateFilter(filter); err != nil {
		return BoardOverview{}, err
	}
	snap, err := s.snapshot(ctx, nil)
	if err != nil {
		return BoardOverview{}, err
	}

	hitters, pitchers := s.thresholdAdvanced(snap.Advanced)
	hitterLevels, pitcherLevels := board.LevelCounts(snap.SeasonBatting, snap.SeasonPitching)

	return BoardOverview{
		Season:         snap.Season,
		FetchedAt:      snap.FetchedAt,
		Summary:        board.Summarize(snap.Eligibility),
		TopProspects:   board.TopProspects(snap.Eligibility, s.cfg.TopProspectMaxOrgRank),
		MaxOrgRank:     s.cfg.TopProspectMaxOrgRank,
		Hitters:        hitters,
		Pitchers:       pitchers,
		MinPA:          s.cfg.MinPAThreshold,
		MinIP:          s.cfg.MinIPThreshold,
		SeasonBatting:  filterSeasonBatting(snap.SeasonBatting, seasonDisplayMinPA),
		SeasonPitching: filterSeasonPitching(snap.SeasonPitching, seasonDisplayMinIP),
		HitterLevels:   hitterLevels,
		PitcherLevels:  pitcherLevels,
		Eligibility:    board.Apply(snap.Eligibility, filter),
		TotalPlayers:   len(snap.Eligibility),
		FilterOptions:  board.BuildFilterOptions(snap.Eligibility),
		FailedOrgs:     snap.FailedOrgs,
		Warnings:       snap.Warnings,
	}, nil
}

// EligibilityTable is the filtered main table plus the metadata a client
// needs to render filter controls.
type EligibilityTable struct {
	Season        int
	FetchedAt     time.Time
	Total         int
	Entries       []prospect.RosterEntry
	FilterOptions board.FilterOptions
	Warnings      []string
}

func (s *BoardService) Eligibility(ctx context.Context, filter board.Filter) (EligibilityTable, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.Eligibility")
	defer span.End()

	if err := validateFilter(filter); err != nil {
		return EligibilityTable{}, err
	}
	snap, err := s.snapshot(ctx, nil)
	if err != nil {
		return EligibilityTable{}, err
	}

	return EligibilityTable{
		Season:        snap.Season,
		FetchedAt:     snap.FetchedAt,
		Total:         len(snap.Eligibility),
		Entries:       board.Apply(snap.Eligibility, filter),
		FilterOptions: board.BuildFilterOptions(snap.Eligibility),
		Warnings:      snap.Warnings,
	}, nil
}

// TopProspectList is the ranked short list whose organizational rank sits
// at or inside the configured cutoff.
type TopProspectList struct {
	Season     int
	FetchedAt  time.Time
	MaxOrgRank int
	Entries    []prospect.RosterEntry
}

func (s *BoardService) TopProspects(ctx context.Context) (TopProspectList, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.TopProspects")
	defer span.End()

	snap, err := s.snapshot(ctx, nil)
	if err != nil {
		return TopProspectList{}, err
	}

	return TopProspectList{
		Season:     snap.Season,
		FetchedAt:  snap.FetchedAt,
		MaxOrgRank: s.cfg.TopProspectMaxOrgRank,
		Entries:    board.TopProspects(snap.Eligibility, s.cfg.TopProspectMaxOrgRank),
	}, nil
}

// AdvancedTables holds both threshold-filtered advanced metric tables.
// Rows below the appearance thresholds are hidden here but remain on the
// eligibility table.
type AdvancedTables struct {
	Season    int
	FetchedAt time.Time
	MinPA     float64
	MinIP     float64
	Hitters   []board.AdvancedRow
	Pitchers  []board.AdvancedRow
}

func (s *BoardService) AdvancedTables(ctx context.Context) (AdvancedTables, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.AdvancedTables")
	defer span.End()

	snap, err := s.snapshot(ctx, nil)
	if err != nil {
		return AdvancedTables{}, err
	}

	hitters, pitchers := s.thresholdAdvanced(snap.Advanced)
	return AdvancedTables{
		Season:    snap.Season,
		FetchedAt: snap.FetchedAt,
		MinPA:     s.cfg.MinPAThreshold,
		MinIP:     s.cfg.MinIPThreshold,
		Hitters:   hitters,
		Pitchers:  pitchers,
	}, nil
}

// SeasonTables holds the all-level season stat tables and their level
// breakdowns.
type SeasonTables struct {
	Season        int
	FetchedAt     time.Time
	Batting       []board.SeasonBattingRow
	Pitching      []board.SeasonPitchingRow
	HitterLevels  []board.CountByKey
	PitcherLevels []board.CountByKey
}

func (s *BoardService) SeasonTables(ctx context.Context) (SeasonTables, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.SeasonTables")
	defer span.End()

	snap, err := s.snapshot(ctx, nil)
	if err != nil {
		return SeasonTables{}, err
	}

	hitterLevels, pitcherLevels := board.LevelCounts(snap.SeasonBatting, snap.SeasonPitching)
	return SeasonTables{
		Season:        snap.Season,
		FetchedAt:     snap.FetchedAt,
		Batting:       filterSeasonBatting(snap.SeasonBatting, seasonDisplayMinPA),
		Pitching:      filterSeasonPitching(snap.SeasonPitching, seasonDisplayMinIP),
		HitterLevels:  hitterLevels,
		PitcherLevels: pitcherLevels,
	}, nil
}

// BoardSummary pairs the headline numbers with the level breakdowns and
// any degradation warnings from the refresh.
type BoardSummary struct {
	Season        int
	FetchedAt     time.Time
	Summary       board.Summary
	HitterLevels  []board.CountByKey
	PitcherLevels []board.CountByKey
	FailedOrgs    []string
	Warnings      []string
}

func (s *BoardService) Summary(ctx context.Context) (BoardSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.Summary")
	defer span.End()

	snap, err := s.snapshot(ctx, nil)
	if err != nil {
		return BoardSummary{}, err
	}

	hitterLevels, pitcherLevels := board.LevelCounts(snap.SeasonBatting, snap.SeasonPitching)
	return BoardSummary{
		Season:        snap.Season,
		FetchedAt:     snap.FetchedAt,
		Summary:       board.Summarize(snap.Eligibility),
		HitterLevels:  hitterLevels,
		PitcherLevels: pitcherLevels,
		FailedOrgs:    snap.FailedOrgs,
		Warnings:      snap.Warnings,
	}, nil
}

// GradientStyling exposes the per-table metric shading directions.
type GradientStyling struct {
	Hitters  map[string]board.Direction
	Pitchers map[string]board.Direction
}

func (s *BoardService) Gradients() GradientStyling {
	return GradientStyling{
		Hitters:  board.GradientDirections(prospect.PlayerTypeHitter),
		Pitchers: board.GradientDirections(prospect.PlayerTypePitcher),
	}
}

func (s *BoardService) snapshot(ctx context.Context, progress ProgressFunc) (*BoardSnapshot, error) {
	if !s.cacheEnabled() {
		return s.buildSnapshot(ctx, progress)
	}

	value, err := s.cache.GetOrLoad(ctx, s.cacheKey(), func(ctx context.Context) (any, error) {
		return s.buildSnapshot(ctx, progress)
	})
	if err != nil {
		return nil, err
	}

	snap, ok := value.(*BoardSnapshot)
	if !ok {
		return nil, fmt.Errorf("unexpected cached snapshot type %T", value)
	}
	return snap, nil
}

func (s *BoardService) buildSnapshot(ctx context.Context, progress ProgressFunc) (*BoardSnapshot, error) {
	if s.roster == nil || s.stats == nil || s.advanced == nil {
		return nil, fmt.Errorf("%w: board sources are not fully configured", ErrDependencyUnavailable)
	}

	started := time.Now()

	var (
		entries    []prospect.RosterEntry
		failedOrgs []string
		rosterErr  error

		battingRecords []prospect.SeasonBattingRecord
		battingErr     error

		pitchingRecords []prospect.SeasonPitchingRecord
		pitchingErr     error

		advancedRecords  []prospect.AdvancedMetricRecord
		advancedWarnings []string
	)

	var fetchers conc.WaitGroup
	fetchers.Go(func() {
		entries, failedOrgs, rosterErr = s.fetchRosters(ctx, progress)
	})
	fetchers.Go(func() {
		battingRecords, battingErr = s.stats.FetchSeasonBatting(ctx, s.cfg.Season)
	})
	fetchers.Go(func() {
		pitchingRecords, pitchingErr = s.stats.FetchSeasonPitching(ctx, s.cfg.Season)
	})
	fetchers.Go(func() {
		advancedRecords, advancedWarnings = s.fetchAdvanced(ctx)
	})
	fetchers.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if rosterErr != nil {
		return nil, rosterErr
	}

	warnings := make([]string, 0, len(failedOrgs)+4)
	for _, org := range failedOrgs {
		warnings = append(warnings, fmt.Sprintf("Failed to fetch %s", org))
	}
	if battingErr != nil {
		s.logger.WarnContext(ctx, "season batting stats unavailable", "season", s.cfg.Season, "error", battingErr)
		warnings = append(warnings, "Season batting stats unavailable")
		battingRecords = nil
	}
	if pitchingErr != nil {
		s.logger.WarnContext(ctx, "season pitching stats unavailable", "season", s.cfg.Season, "error", pitchingErr)
		warnings = append(warnings, "Season pitching stats unavailable")
		pitchingRecords = nil
	}
	warnings = append(warnings, advancedWarnings...)

	board.SortEligibility(entries)

	advancedRows := board.JoinAdvanced(entries, advancedRecords, board.Options{StrictKey: s.cfg.StrictJoinKey})
	board.SortAdvanced(advancedRows)

	battingRows := board.JoinSeasonBatting(entries, battingRecords)
	board.SortSeasonBatting(battingRows)

	pitchingRows := board.JoinSeasonPitching(entries, pitchingRecords)
	board.SortSeasonPitching(pitchingRows)

	snapshot := &BoardSnapshot{
		Season:         s.cfg.Season,
		FetchedAt:      time.Now().UTC(),
		Eligibility:    entries,
		Advanced:       advancedRows,
		SeasonBatting:  battingRows,
		SeasonPitching: pitchingRows,
		FailedOrgs:     failedOrgs,
		Warnings:       warnings,
	}

	s.logger.InfoContext(
		ctx,
		"board snapshot built",
		"season", s.cfg.Season,
		"players", len(entries),
		"advanced_rows", len(advancedRows),
		"season_batting_rows", len(battingRows),
		"season_pitching_rows", len(pitchingRows),
		"failed_orgs", len(failedOrgs),
		"duration_ms", time.Since(started).Milliseconds(),
	)

	return snapshot, nil
}

// fetchRosters fans the per-organization roster calls out over a bounded
// worker pool. A failed organization is reported, not fatal; the refresh
// only errors when every organization fails.
func (s *BoardService) fetchRosters(ctx context.Context, progress ProgressFunc) ([]prospect.RosterEntry, []string, error) {
	orgIDs := prospect.OrgIDs()
	perOrg := make([][]prospect.RosterEntry, len(orgIDs))
	failed := make([]bool, len(orgIDs))

	pool, err := ants.NewPool(s.cfg.FetchWorkers)
	if err != nil {
		return nil, nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var progressMu sync.Mutex
	completed := 0

	var workers sync.WaitGroup
	for idx, orgID := range orgIDs {
		idx, orgID := idx, orgID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			orgCode := prospect.OrgCodeByID[orgID]
			rows, fetchErr := s.roster.FetchRoster(ctx, orgID, orgCode)
			if fetchErr != nil {
				failed[idx] = true
				s.logger.WarnContext(ctx, "fetch roster failed", "org", orgCode, "error", fetchErr)
			} else {
				perOrg[idx] = rows
			}

			progressMu.Lock()
			completed++
			if progress != nil {
				progress(completed, len(orgIDs))
			}
			progressMu.Unlock()
		}); err != nil {
			workers.Done()
			return nil, nil, fmt.Errorf("submit roster fetch to worker pool: %w", err)
		}
	}
	workers.Wait()

	if ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}

	entries := make([]prospect.RosterEntry, 0, 256)
	failedOrgs := make([]string, 0)
	for idx, orgID := range orgIDs {
		if failed[idx] {
			failedOrgs = append(failedOrgs, prospect.OrgCodeByID[orgID])
			continue
		}
		entries = append(entries, perOrg[idx]...)
	}

	if len(failedOrgs) == len(orgIDs) {
		return nil, failedOrgs, fmt.Errorf("%w: all roster fetches failed", ErrDependencyUnavailable)
	}

	return entries, failedOrgs, nil
}

// fetchAdvanced pulls both advanced boards. Either board failing degrades
// to a warning so the other can still join.
func (s *BoardService) fetchAdvanced(ctx context.Context) ([]prospect.AdvancedMetricRecord, []string) {
	var records []prospect.AdvancedMetricRecord
	var warnings []string

	hitters, err := s.advanced.FetchHitters(ctx, s.cfg.Season)
	if err != nil {
		s.logger.WarnContext(ctx, "advanced hitter metrics unavailable", "season", s.cfg.Season, "error", err)
		warnings = append(warnings, "Advanced hitter metrics unavailable")
	} else {
		records = append(records, hitters...)
	}

	pitchers, err := s.advanced.FetchPitchers(ctx, s.cfg.Season)
	if err != nil {
		s.logger.WarnContext(ctx, "advanced pitcher metrics unavailable", "season", s.cfg.Season, "error", err)
		warnings = append(warnings, "Advanced pitcher metrics unavailable")
	} else {
		records = append(records, pitchers...)
	}

	return records, warnings
}

func (s *BoardService) thresholdAdvanced(rows []board.AdvancedRow) (hitters, pitchers []board.AdvancedRow) {
	for _, row := range rows {
		switch row.Metrics.PlayerType {
		case prospect.PlayerTypePitcher:
			if row.Metrics.IP != nil && *row.Metrics.IP >= s.cfg.MinIPThreshold {
				pitchers = append(pitchers, row)
			}
		default:
			if row.Metrics.PA != nil && *row.Metrics.PA >= s.cfg.MinPAThreshold {
				hitters = append(hitters, row)
			}
		}
	}
	return hitters, pitchers
}

func filterSeasonBatting(rows []board.SeasonBattingRow, minPA float64) []board.SeasonBattingRow {
	kept := make([]board.SeasonBattingRow, 0, len(rows))
	for _, row := range rows {
		if row.Stats.PA != nil && *row.Stats.PA >= minPA {
			kept = append(kept, row)
		}
	}
	return kept
}

func filterSeasonPitching(rows []board.SeasonPitchingRow, minIP float64) []board.SeasonPitchingRow {
	kept := make([]board.SeasonPitchingRow, 0, len(rows))
	for _, row := range rows {
		if row.Stats.IP != nil && *row.Stats.IP >= minIP {
			kept = append(kept, row)
		}
	}
	return kept
}

func validateFilter(filter board.Filter) error {
	if filter.AgeMin != nil && filter.AgeMax != nil && *filter.AgeMin > *filter.AgeMax {
		return fmt.Errorf("%w: age_min must not exceed age_max", ErrInvalidInput)
	}
	return nil
}

func (s *BoardService) cacheEnabled() bool {
	return s.cfg.CacheEnabled && s.cache != nil
}

func (s *BoardService) cacheKey() string {
	key := fmt.Sprintf("%s%d", boardCachePrefix, s.cfg.Season)
	if s.cfg.StrictJoinKey {
		key += ":strict"
	}
	return key
}
