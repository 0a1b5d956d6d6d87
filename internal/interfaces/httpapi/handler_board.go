package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/prospectlab/rule5-board/internal/domain/board"
	"github.com/prospectlab/rule5-board/internal/domain/prospect"
	"github.com/prospectlab/rule5-board/internal/usecase"
)

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBoard")
	defer span.End()

	filter, err := filterFromQuery(ctx, r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	overview, err := h.boardService.Overview(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "get board failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, overviewToDTO(ctx, overview))
}

func (h *Handler) ListEligibility(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEligibility")
	defer span.End()

	filter, err := filterFromQuery(ctx, r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	table, err := h.boardService.Eligibility(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list eligibility failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eligibilityTableToDTO(ctx, table))
}

func (h *Handler) SearchEligibility(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchEligibility")
	defer span.End()

	var req eligibilitySearchRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	table, err := h.boardService.Eligibility(ctx, board.Filter{
		Search:    req.Search,
		Orgs:      req.Orgs,
		Positions: req.Positions,
		Levels:    req.Levels,
		AgeMin:    req.AgeMin,
		AgeMax:    req.AgeMax,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "search eligibility failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eligibilityTableToDTO(ctx, table))
}

func (h *Handler) ListTopProspects(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTopProspects")
	defer span.End()

	list, err := h.boardService.TopProspects(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list top prospects failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	players := make([]rosterEntryDTO, 0, len(list.Entries))
	for _, entry := range list.Entries {
		players = append(players, rosterEntryToDTO(ctx, entry))
	}

	writeSuccess(ctx, w, http.StatusOK, topProspectListDTO{
		Season:     list.Season,
		FetchedAt:  list.FetchedAt.UTC().Format(time.RFC3339),
		MaxOrgRank: list.MaxOrgRank,
		Players:    players,
	})
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSummary")
	defer span.End()

	summary, err := h.boardService.Summary(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get summary failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summaryResponseDTO{
		Season:        summary.Season,
		FetchedAt:     summary.FetchedAt.UTC().Format(time.RFC3339),
		Summary:       summaryToDTO(ctx, summary.Summary),
		HitterLevels:  countsToDTO(ctx, summary.HitterLevels),
		PitcherLevels: countsToDTO(ctx, summary.PitcherLevels),
		FailedOrgs:    summary.FailedOrgs,
		Warnings:      summary.Warnings,
	})
}

func (h *Handler) GetAdvancedTables(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAdvancedTables")
	defer span.End()

	tables, err := h.boardService.AdvancedTables(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get advanced tables failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, advancedTablesDTO{
		Season:    tables.Season,
		FetchedAt: tables.FetchedAt.UTC().Format(time.RFC3339),
		MinPA:     tables.MinPA,
		MinIP:     tables.MinIP,
		Hitters:   advancedRowsToDTO(ctx, tables.Hitters),
		Pitchers:  advancedRowsToDTO(ctx, tables.Pitchers),
	})
}

func (h *Handler) GetSeasonTables(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonTables")
	defer span.End()

	tables, err := h.boardService.SeasonTables(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get season tables failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonTablesDTO{
		Season:        tables.Season,
		FetchedAt:     tables.FetchedAt.UTC().Format(time.RFC3339),
		Batting:       seasonBattingToDTO(ctx, tables.Batting),
		Pitching:      seasonPitchingToDTO(ctx, tables.Pitching),
		HitterLevels:  countsToDTO(ctx, tables.HitterLevels),
		PitcherLevels: countsToDTO(ctx, tables.PitcherLevels),
	})
}

func (h *Handler) GetGradients(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGradients")
	defer span.End()

	styling := h.boardService.Gradients()
	writeSuccess(ctx, w, http.StatusOK, gradientsDTO{
		Hitters:  directionMapToDTO(ctx, styling.Hitters),
		Pitchers: directionMapToDTO(ctx, styling.Pitchers),
	})
}

type eligibilitySearchRequest struct {
	Search    string   `json:"search" validate:"omitempty,max=120"`
	Orgs      []string `json:"orgs" validate:"omitempty,max=30,dive,required"`
	Positions []string `json:"positions" validate:"omitempty,dive,required"`
	Levels    []string `json:"levels" validate:"omitempty,dive,required"`
	AgeMin    *float64 `json:"ageMin" validate:"omitempty,gte=14,lte=65"`
	AgeMax    *float64 `json:"ageMax" validate:"omitempty,gte=14,lte=65"`
}

type rosterEntryDTO struct {
	Player      string   `json:"player"`
	Position    string   `json:"position"`
	Age         *float64 `json:"age"`
	Level       string   `json:"level"`
	CurrentOrg  string   `json:"currentOrg"`
	OrgRank     *int     `json:"orgRank"`
	OverallRank *int     `json:"overallRank"`
}

type advancedRowDTO struct {
	Player        string   `json:"player"`
	Position      string   `json:"position"`
	Age           *float64 `json:"age"`
	CurrentOrg    string   `json:"currentOrg"`
	OrgRank       *int     `json:"orgRank"`
	PlayerType    string   `json:"playerType"`
	ProspectScore *float64 `json:"prospectScore"`
	PA            *float64 `json:"pa,omitempty"`
	IP            *float64 `json:"ip,omitempty"`
	XBA           *float64 `json:"xba"`
	XWOBA         *float64 `json:"xwoba"`
	XSLG          *float64 `json:"xslg"`
	BarrelPct     *float64 `json:"barrelPct,omitempty"`
	ChasePct      *float64 `json:"chasePct"`
	KPct          *float64 `json:"kPct"`
	BBPct         *float64 `json:"bbPct"`
	EV            *float64 `json:"ev,omitempty"`
	SprintSpeed   *float64 `json:"sprintSpeed,omitempty"`
	MaxVelo       *float64 `json:"maxVelo,omitempty"`
	WhiffPct      *float64 `json:"whiffPct,omitempty"`
}

type seasonBattingRowDTO struct {
	Player     string   `json:"player"`
	Age        *float64 `json:"age"`
	Level      string   `json:"level"`
	CurrentOrg string   `json:"currentOrg"`
	OrgRank    *int     `json:"orgRank"`
	G          *float64 `json:"g"`
	PA         *float64 `json:"pa"`
	AVG        *float64 `json:"avg"`
	OBP        *float64 `json:"obp"`
	SLG        *float64 `json:"slg"`
	OPS        *float64 `json:"ops"`
	HR         *float64 `json:"hr"`
	SB         *float64 `json:"sb"`
	BBPct      *float64 `json:"bbPct"`
	KPct       *float64 `json:"kPct"`
	WRCPlus    *float64 `json:"wrcPlus"`
}

type seasonPitchingRowDTO struct {
	Player      string   `json:"player"`
	Age         *float64 `json:"age"`
	Level       string   `json:"level"`
	CurrentOrg  string   `json:"currentOrg"`
	OrgRank     *int     `json:"orgRank"`
	G           *float64 `json:"g"`
	GS          *float64 `json:"gs"`
	IP          *float64 `json:"ip"`
	W           *float64 `json:"w"`
	L           *float64 `json:"l"`
	SV          *float64 `json:"sv"`
	HLD         *float64 `json:"hld"`
	ERA         *float64 `json:"era"`
	WHIP        *float64 `json:"whip"`
	FIP         *float64 `json:"fip"`
	XFIP        *float64 `json:"xfip"`
	KPer9       *float64 `json:"kPer9"`
	BBPer9      *float64 `json:"bbPer9"`
	HRPer9      *float64 `json:"hrPer9"`
	KMinusBBPct *float64 `json:"kMinusBbPct"`
	KPct        *float64 `json:"kPct"`
	BBPct       *float64 `json:"bbPct"`
	GBPct       *float64 `json:"gbPct"`
	HRPerFB     *float64 `json:"hrPerFb"`
	LOBPct      *float64 `json:"lobPct"`
}

type countDTO struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type filterOptionsDTO struct {
	Orgs      []string `json:"orgs"`
	Positions []string `json:"positions"`
	Levels    []string `json:"levels"`
	AgeMin    *int     `json:"ageMin"`
	AgeMax    *int     `json:"ageMax"`
}

type summaryDTO struct {
	TotalPlayers     int        `json:"totalPlayers"`
	AverageAge       *float64   `json:"averageAge"`
	RankedProspects  int        `json:"rankedProspects"`
	YoungProspects   int        `json:"youngProspects"`
	TopOrgProspects  int        `json:"topOrgProspects"`
	MostExposedOrg   string     `json:"mostExposedOrg,omitempty"`
	MostExposedCount int        `json:"mostExposedCount,omitempty"`
	ByOrg            []countDTO `json:"byOrg"`
	ByPosition       []countDTO `json:"byPosition"`
}

type summaryResponseDTO struct {
	Season        int        `json:"season"`
	FetchedAt     string     `json:"fetchedAt"`
	Summary       summaryDTO `json:"summary"`
	HitterLevels  []countDTO `json:"hitterLevels"`
	PitcherLevels []countDTO `json:"pitcherLevels"`
	FailedOrgs    []string   `json:"failedOrgs,omitempty"`
	Warnings      []string   `json:"warnings,omitempty"`
}

type eligibilityTableDTO struct {
	Season        int              `json:"season"`
	FetchedAt     string           `json:"fetchedAt"`
	Total         int              `json:"total"`
	Count         int              `json:"count"`
	Players       []rosterEntryDTO `json:"players"`
	FilterOptions filterOptionsDTO `json:"filterOptions"`
	Warnings      []string         `json:"warnings,omitempty"`
}

type topProspectListDTO struct {
	Season     int              `json:"season"`
	FetchedAt  string           `json:"fetchedAt"`
	MaxOrgRank int              `json:"maxOrgRank"`
	Players    []rosterEntryDTO `json:"players"`
}

type advancedTablesDTO struct {
	Season    int              `json:"season"`
	FetchedAt string           `json:"fetchedAt"`
	MinPA     float64          `json:"minPa"`
	MinIP     float64          `json:"minIp"`
	Hitters   []advancedRowDTO `json:"hitters"`
	Pitchers  []advancedRowDTO `json:"pitchers"`
}

type seasonTablesDTO struct {
	Season        int                    `json:"season"`
	FetchedAt     string                 `json:"fetchedAt"`
	Batting       []seasonBattingRowDTO  `json:"batting"`
	Pitching      []seasonPitchingRowDTO `json:"pitching"`
	HitterLevels  []countDTO             `json:"hitterLevels"`
	PitcherLevels []countDTO             `json:"pitcherLevels"`
}

type gradientsDTO struct {
	Hitters  map[string]string `json:"hitters"`
	Pitchers map[string]string `json:"pitchers"`
}

type boardDTO struct {
	Season         int                    `json:"season"`
	FetchedAt      string                 `json:"fetchedAt"`
	Summary        summaryDTO             `json:"summary"`
	TopProspects   []rosterEntryDTO       `json:"topProspects"`
	MaxOrgRank     int                    `json:"maxOrgRank"`
	Hitters        []advancedRowDTO       `json:"hitters"`
	Pitchers       []advancedRowDTO       `json:"pitchers"`
	MinPA          float64                `json:"minPa"`
	MinIP          float64                `json:"minIp"`
	SeasonBatting  []seasonBattingRowDTO  `json:"seasonBatting"`
	SeasonPitching []seasonPitchingRowDTO `json:"seasonPitching"`
	HitterLevels   []countDTO             `json:"hitterLevels"`
	PitcherLevels  []countDTO             `json:"pitcherLevels"`
	Eligibility    []rosterEntryDTO       `json:"eligibility"`
	TotalPlayers   int                    `json:"totalPlayers"`
	FilterOptions  filterOptionsDTO       `json:"filterOptions"`
	FailedOrgs     []string               `json:"failedOrgs,omitempty"`
	Warnings       []string               `json:"warnings,omitempty"`
}

func rosterEntryToDTO(ctx context.Context, entry prospect.RosterEntry) rosterEntryDTO {
	ctx, span := startSpan(ctx, "httpapi.rosterEntryToDTO")
	defer span.End()

	return rosterEntryDTO{
		Player:      entry.Name,
		Position:    entry.Position,
		Age:         entry.Age,
		Level:       entry.Level,
		CurrentOrg:  entry.Org,
		OrgRank:     entry.OrgRank,
		OverallRank: entry.OverallRank,
	}
}

func rosterEntriesToDTO(ctx context.Context, entries []prospect.RosterEntry) []rosterEntryDTO {
	ctx, span := startSpan(ctx, "httpapi.rosterEntriesToDTO")
	defer span.End()

	items := make([]rosterEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, rosterEntryToDTO(ctx, entry))
	}
	return items
}

func advancedRowsToDTO(ctx context.Context, rows []board.AdvancedRow) []advancedRowDTO {
	ctx, span := startSpan(ctx, "httpapi.advancedRowsToDTO")
	defer span.End()

	items := make([]advancedRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, advancedRowDTO{
			Player:        row.Entry.Name,
			Position:      row.Entry.Position,
			Age:           row.Entry.Age,
			CurrentOrg:    row.Entry.Org,
			OrgRank:       row.Entry.OrgRank,
			PlayerType:    string(row.Metrics.PlayerType),
			ProspectScore: row.Metrics.ProspectScore,
			PA:            row.Metrics.PA,
			IP:            row.Metrics.IP,
			XBA:           row.Metrics.XBA,
			XWOBA:         row.Metrics.XWOBA,
			XSLG:          row.Metrics.XSLG,
			BarrelPct:     row.Metrics.BarrelPct,
			ChasePct:      row.Metrics.ChasePct,
			KPct:          row.Metrics.KPct,
			BBPct:         row.Metrics.BBPct,
			EV:            row.Metrics.EV,
			SprintSpeed:   row.Metrics.SprintSpeed,
			MaxVelo:       row.Metrics.MaxVelo,
			WhiffPct:      row.Metrics.WhiffPct,
		})
	}
	return items
}

// seasonBattingToDTO crosses the fraction-to-percent boundary for the rate
// columns, so DTO values match the rendered table, not the raw feed.
func seasonBattingToDTO(ctx context.Context, rows []board.SeasonBattingRow) []seasonBattingRowDTO {
	ctx, span := startSpan(ctx, "httpapi.seasonBattingToDTO")
	defer span.End()

	items := make([]seasonBattingRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, seasonBattingRowDTO{
			Player:     row.Entry.Name,
			Age:        row.Entry.Age,
			Level:      row.Stats.Level,
			CurrentOrg: row.Entry.Org,
			OrgRank:    row.Entry.OrgRank,
			G:          row.Stats.G,
			PA:         row.Stats.PA,
			AVG:        row.Stats.AVG,
			OBP:        row.Stats.OBP,
			SLG:        row.Stats.SLG,
			OPS:        row.Stats.OPS,
			HR:         row.Stats.HR,
			SB:         row.Stats.SB,
			BBPct:      board.Percent1(row.Stats.BBPct),
			KPct:       board.Percent1(row.Stats.KPct),
			WRCPlus:    board.Round0(row.Stats.WRCPlus),
		})
	}
	return items
}

func seasonPitchingToDTO(ctx context.Context, rows []board.SeasonPitchingRow) []seasonPitchingRowDTO {
	ctx, span := startSpan(ctx, "httpapi.seasonPitchingToDTO")
	defer span.End()

	items := make([]seasonPitchingRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, seasonPitchingRowDTO{
			Player:      row.Entry.Name,
			Age:         row.Entry.Age,
			Level:       row.Stats.Level,
			CurrentOrg:  row.Entry.Org,
			OrgRank:     row.Entry.OrgRank,
			G:           row.Stats.G,
			GS:          row.Stats.GS,
			IP:          row.Stats.IP,
			W:           row.Stats.W,
			L:           row.Stats.L,
			SV:          row.Stats.SV,
			HLD:         row.Stats.HLD,
			ERA:         row.Stats.ERA,
			WHIP:        row.Stats.WHIP,
			FIP:         row.Stats.FIP,
			XFIP:        row.Stats.XFIP,
			KPer9:       row.Stats.KPer9,
			BBPer9:      row.Stats.BBPer9,
			HRPer9:      row.Stats.HRPer9,
			KMinusBBPct: board.Percent1(row.Stats.KMinusBBPct),
			KPct:        board.Percent1(row.Stats.KPct),
			BBPct:       board.Percent1(row.Stats.BBPct),
			GBPct:       board.Percent1(row.Stats.GBPct),
			HRPerFB:     board.Percent1(row.Stats.HRPerFB),
			LOBPct:      board.Percent1(row.Stats.LOBPct),
		})
	}
	return items
}

func countsToDTO(ctx context.Context, counts []board.CountByKey) []countDTO {
	ctx, span := startSpan(ctx, "httpapi.countsToDTO")
	defer span.End()

	items := make([]countDTO, 0, len(counts))
	for _, c := range counts {
		items = append(items, countDTO{Key: c.Key, Count: c.Count})
	}
	return items
}

func filterOptionsToDTO(ctx context.Context, options board.FilterOptions) filterOptionsDTO {
	ctx, span := startSpan(ctx, "httpapi.filterOptionsToDTO")
	defer span.End()

	return filterOptionsDTO{
		Orgs:      options.Orgs,
		Positions: options.Positions,
		Levels:    options.Levels,
		AgeMin:    options.AgeMin,
		AgeMax:    options.AgeMax,
	}
}

// summaryToDTO rounds the average age to one decimal, matching the headline
// rendering.
func summaryToDTO(ctx context.Context, summary board.Summary) summaryDTO {
	ctx, span := startSpan(ctx, "httpapi.summaryToDTO")
	defer span.End()

	return summaryDTO{
		TotalPlayers:     summary.TotalPlayers,
		AverageAge:       board.Round1(summary.AverageAge),
		RankedProspects:  summary.RankedProspects,
		YoungProspects:   summary.YoungProspects,
		TopOrgProspects:  summary.TopOrgProspects,
		MostExposedOrg:   summary.MostExposedOrg,
		MostExposedCount: summary.MostExposedCount,
		ByOrg:            countsToDTO(ctx, summary.ByOrg),
		ByPosition:       countsToDTO(ctx, summary.ByPosition),
	}
}

func directionMapToDTO(ctx context.Context, directions map[string]board.Direction) map[string]string {
	ctx, span := startSpan(ctx, "httpapi.directionMapToDTO")
	defer span.End()

	out := make(map[string]string, len(directions))
	for column, direction := range directions {
		out[column] = string(direction)
	}
	return out
}

func eligibilityTableToDTO(ctx context.Context, table usecase.EligibilityTable) eligibilityTableDTO {
	ctx, span := startSpan(ctx, "httpapi.eligibilityTableToDTO")
	defer span.End()

	return eligibilityTableDTO{
		Season:        table.Season,
		FetchedAt:     table.FetchedAt.UTC().Format(time.RFC3339),
		Total:         table.Total,
		Count:         len(table.Entries),
		Players:       rosterEntriesToDTO(ctx, table.Entries),
		FilterOptions: filterOptionsToDTO(ctx, table.FilterOptions),
		Warnings:      table.Warnings,
	}
}

func overviewToDTO(ctx context.Context, overview usecase.BoardOverview) boardDTO {
	ctx, span := startSpan(ctx, "httpapi.overviewToDTO")
	defer span.End()

	return boardDTO{
		Season:         overview.Season,
		FetchedAt:      overview.FetchedAt.UTC().Format(time.RFC3339),
		Summary:        summaryToDTO(ctx, overview.Summary),
		TopProspects:   rosterEntriesToDTO(ctx, overview.TopProspects),
		MaxOrgRank:     overview.MaxOrgRank,
		Hitters:        advancedRowsToDTO(ctx, overview.Hitters),
		Pitchers:       advancedRowsToDTO(ctx, overview.Pitchers),
		MinPA:          overview.MinPA,
		MinIP:          overview.MinIP,
		SeasonBatting:  seasonBattingToDTO(ctx, overview.SeasonBatting),
		SeasonPitching: seasonPitchingToDTO(ctx, overview.SeasonPitching),
		HitterLevels:   countsToDTO(ctx, overview.HitterLevels),
		PitcherLevels:  countsToDTO(ctx, overview.PitcherLevels),
		Eligibility:    rosterEntriesToDTO(ctx, overview.Eligibility),
		TotalPlayers:   overview.TotalPlayers,
		FilterOptions:  filterOptionsToDTO(ctx, overview.FilterOptions),
		FailedOrgs:     overview.FailedOrgs,
		Warnings:       overview.Warnings,
	}
}
