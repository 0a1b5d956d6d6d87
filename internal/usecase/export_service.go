package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/prospectlab/rule5-board/internal/domain/board"
	"github.com/prospectlab/rule5-board/internal/domain/prospect"
	"github.com/prospectlab/rule5-board/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
)

// ExportTable identifies one downloadable board table.
type ExportTable string

const (
	ExportTableEligibility    ExportTable = "eligibility"
	ExportTableTopProspects   ExportTable = "top-prospects"
	ExportTableHitters        ExportTable = "hitters"
	ExportTablePitchers       ExportTable = "pitchers"
	ExportTableSeasonBatting  ExportTable = "season-batting"
	ExportTableSeasonPitching ExportTable = "season-pitching"
)

// exportFileBase maps each table to the stem of its dated download name.
var exportFileBase = map[ExportTable]string{
	ExportTableEligibility:    "eligible_players",
	ExportTableTopProspects:   "top_prospects",
	ExportTableHitters:        "aaa_hitters",
	ExportTablePitchers:       "aaa_pitchers",
	ExportTableSeasonBatting:  "batting_stats",
	ExportTableSeasonPitching: "pitching_stats",
}

func ParseExportTable(raw string) (ExportTable, error) {
	table := ExportTable(raw)
	if _, ok := exportFileBase[table]; !ok {
		return "", fmt.Errorf("%w: unknown export table %q", ErrInvalidInput, raw)
	}
	return table, nil
}

// ExportFile is a rendered CSV ready to be written to a response or disk.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ExportService struct {
	boards *BoardService
	logger *logging.Logger
}

func NewExportService(boards *BoardService, logger *logging.Logger) *ExportService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ExportService{
		boards: boards,
		logger: logger,
	}
}

// Export renders one table as headered CSV. The filter only narrows the
// eligibility table; every other table exports its full display rows.
func (s *ExportService) Export(ctx context.Context, table ExportTable, filter board.Filter) (ExportFile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExportService.Export")
	defer span.End()

	var (
		header []string
		rows   [][]string
	)
	switch table {
	case ExportTableEligibility:
		view, err := s.boards.Eligibility(ctx, filter)
		if err != nil {
			return ExportFile{}, err
		}
		header, rows = eligibilityCSV(view.Entries)
	case ExportTableTopProspects:
		list, err := s.boards.TopProspects(ctx)
		if err != nil {
			return ExportFile{}, err
		}
		header, rows = eligibilityCSV(list.Entries)
	case ExportTableHitters:
		tables, err := s.boards.AdvancedTables(ctx)
		if err != nil {
			return ExportFile{}, err
		}
		header, rows = advancedHitterCSV(tables.Hitters)
	case ExportTablePitchers:
		tables, err := s.boards.AdvancedTables(ctx)
		if err != nil {
			return ExportFile{}, err
		}
		header, rows = advancedPitcherCSV(tables.Pitchers)
	case ExportTableSeasonBatting:
		tables, err := s.boards.SeasonTables(ctx)
		if err != nil {
			return ExportFile{}, err
		}
		header, rows = seasonBattingCSV(tables.Batting)
	case ExportTableSeasonPitching:
		tables, err := s.boards.SeasonTables(ctx)
		if err != nil {
			return ExportFile{}, err
		}
		header, rows = seasonPitchingCSV(tables.Pitching)
	default:
		return ExportFile{}, fmt.Errorf("%w: unknown export table %q", ErrInvalidInput, table)
	}

	data, err := writeCSV(header, rows)
	if err != nil {
		return ExportFile{}, err
	}

	s.logger.InfoContext(ctx, "board table exported", "table", string(table), "rows", len(rows), "bytes", len(data))

	return ExportFile{
		Filename:    exportFilename(table, time.Now()),
		ContentType: "text/csv",
		Data:        data,
	}, nil
}

func exportFilename(table ExportTable, at time.Time) string {
	return fmt.Sprintf("rule5_%s_%s.csv", exportFileBase[table], at.Format("20060102"))
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	w := csv.NewWriter(buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	data := make([]byte, buf.Len())
	copy(data, buf.Bytes())
	return data, nil
}

func eligibilityCSV(entries []prospect.RosterEntry) ([]string, [][]string) {
	header := []string{"Player", "Position", "Age", "Level", "Current Org", "Org Rank", "Overall Rank"}
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.Name,
			entry.Position,
			floatCell(entry.Age),
			entry.Level,
			entry.Org,
			intCell(entry.OrgRank),
			intCell(entry.OverallRank),
		})
	}
	return header, rows
}

func advancedHitterCSV(rows []board.AdvancedRow) ([]string, [][]string) {
	header := []string{
		"Player", "Position", "Age", "Current Org", "Org Rank", "Prospect Score",
		"PA", "xBA", "xwOBA", "xSLG", "Barrel%", "Chase%", "K%", "BB%", "EV", "Sprint Speed",
	}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			row.Entry.Name,
			row.Entry.Position,
			floatCell(row.Entry.Age),
			row.Entry.Org,
			intCell(row.Entry.OrgRank),
			floatCell(row.Metrics.ProspectScore),
			floatCell(row.Metrics.PA),
			floatCell(row.Metrics.XBA),
			floatCell(row.Metrics.XWOBA),
			floatCell(row.Metrics.XSLG),
			floatCell(row.Metrics.BarrelPct),
			floatCell(row.Metrics.ChasePct),
			floatCell(row.Metrics.KPct),
			floatCell(row.Metrics.BBPct),
			floatCell(row.Metrics.EV),
			floatCell(row.Metrics.SprintSpeed),
		})
	}
	return header, out
}

func advancedPitcherCSV(rows []board.AdvancedRow) ([]string, [][]string) {
	header := []string{
		"Player", "Position", "Age", "Current Org", "Org Rank", "Prospect Score",
		"IP", "Max Velo", "xBA", "xwOBA", "xSLG", "K%", "BB%", "Chase%", "Whiff%",
	}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			row.Entry.Name,
			row.Entry.Position,
			floatCell(row.Entry.Age),
			row.Entry.Org,
			intCell(row.Entry.OrgRank),
			floatCell(row.Metrics.ProspectScore),
			floatCell(row.Metrics.IP),
			floatCell(row.Metrics.MaxVelo),
			floatCell(row.Metrics.XBA),
			floatCell(row.Metrics.XWOBA),
			floatCell(row.Metrics.XSLG),
			floatCell(row.Metrics.KPct),
			floatCell(row.Metrics.BBPct),
			floatCell(row.Metrics.ChasePct),
			floatCell(row.Metrics.WhiffPct),
		})
	}
	return header, out
}

func seasonBattingCSV(rows []board.SeasonBattingRow) ([]string, [][]string) {
	header := []string{
		"Player", "Age", "Level", "Current Org", "Org Rank",
		"G", "PA", "AVG", "OBP", "SLG", "OPS", "HR", "SB", "BB%", "K%", "wRC+",
	}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			row.Entry.Name,
			floatCell(row.Entry.Age),
			row.Stats.Level,
			row.Entry.Org,
			intCell(row.Entry.OrgRank),
			floatCell(row.Stats.G),
			floatCell(row.Stats.PA),
			floatCell(row.Stats.AVG),
			floatCell(row.Stats.OBP),
			floatCell(row.Stats.SLG),
			floatCell(row.Stats.OPS),
			floatCell(row.Stats.HR),
			floatCell(row.Stats.SB),
			floatCell(board.Percent1(row.Stats.BBPct)),
			floatCell(board.Percent1(row.Stats.KPct)),
			floatCell(board.Round0(row.Stats.WRCPlus)),
		})
	}
	return header, out
}

func seasonPitchingCSV(rows []board.SeasonPitchingRow) ([]string, [][]string) {
	header := []string{
		"Player", "Age", "Level", "Current Org", "Org Rank",
		"G", "GS", "IP", "W", "L", "SV", "Hld", "ERA", "WHIP", "FIP", "xFIP",
		"K/9", "BB/9", "HR/9", "K-BB%", "K%", "BB%", "GB%", "HR/FB", "LOB%",
	}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			row.Entry.Name,
			floatCell(row.Entry.Age),
			row.Stats.Level,
			row.Entry.Org,
			intCell(row.Entry.OrgRank),
			floatCell(row.Stats.G),
			floatCell(row.Stats.GS),
			floatCell(row.Stats.IP),
			floatCell(row.Stats.W),
			floatCell(row.Stats.L),
			floatCell(row.Stats.SV),
			floatCell(row.Stats.HLD),
			floatCell(row.Stats.ERA),
			floatCell(row.Stats.WHIP),
			floatCell(row.Stats.FIP),
			floatCell(row.Stats.XFIP),
			floatCell(row.Stats.KPer9),
			floatCell(row.Stats.BBPer9),
			floatCell(row.Stats.HRPer9),
			floatCell(board.Percent1(row.Stats.KMinusBBPct)),
			floatCell(board.Percent1(row.Stats.KPct)),
			floatCell(board.Percent1(row.Stats.BBPct)),
			floatCell(board.Percent1(row.Stats.GBPct)),
			floatCell(board.Percent1(row.Stats.HRPerFB)),
			floatCell(board.Percent1(row.Stats.LOBPct)),
		})
	}
	return header, out
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
