package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/prospectlab/rule5-board/internal/domain/board"
	"github.com/prospectlab/rule5-board/internal/domain/prospect"
)

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse exported csv: %v", err)
	}
	return records
}

func TestExportServiceExport_EligibilityTable(t *testing.T) {
	t.Parallel()

	roster := &stubRosterProvider{entriesByOrg: map[string][]prospect.RosterEntry{
		"HOU": {{Name: "Jon Singleton", Position: "1B", Age: prospect.Float(27), Level: prospect.LevelAAA, Org: "HOU", OrgRank: prospect.Int(5)}},
	}}
	boards := NewBoardService(roster, &stubSeasonStatsProvider{}, &stubAdvancedMetricsProvider{}, nil, nil, testBoardConfig())
	svc := NewExportService(boards, nil)

	file, err := svc.Export(context.Background(), ExportTableEligibility, board.Filter{})
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}

	if !strings.HasPrefix(file.Filename, "rule5_eligible_players_") || !strings.HasSuffix(file.Filename, ".csv") {
		t.Fatalf("unexpected filename: %q", file.Filename)
	}
	if file.ContentType != "text/csv" {
		t.Fatalf("unexpected content type: %q", file.ContentType)
	}

	records := readCSV(t, file.Data)
	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got=%d", len(records))
	}
	wantHeader := []string{"Player", "Position", "Age", "Level", "Current Org", "Org Rank", "Overall Rank"}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Fatalf("header column %d: got=%q want=%q", i, records[0][i], col)
		}
	}
	row := records[1]
	if row[0] != "Jon Singleton" || row[2] != "27" || row[5] != "5" {
		t.Fatalf("unexpected data row: %v", row)
	}
	if row[6] != "" {
		t.Fatalf("missing overall rank should export empty, got=%q", row[6])
	}
}

func TestExportServiceExport_SeasonBattingScalesPercents(t *testing.T) {
	t.Parallel()

	roster := &stubRosterProvider{entriesByOrg: map[string][]prospect.RosterEntry{
		"HOU": {{Name: "Jon Singleton", Position: "1B", Age: prospect.Float(27), Level: prospect.LevelAAA, Org: "HOU", OrgRank: prospect.Int(5)}},
	}}
	stats := &stubSeasonStatsProvider{
		batting: []prospect.SeasonBattingRecord{
			{
				Name:    "Jon Singleton",
				Level:   "AA,AAA",
				Age:     prospect.Float(27),
				PA:      prospect.Float(410),
				AVG:     prospect.Float(0.254),
				BBPct:   prospect.Float(0.141),
				KPct:    prospect.Float(0.28),
				WRCPlus: prospect.Float(118.6),
			},
		},
	}
	boards := NewBoardService(roster, stats, &stubAdvancedMetricsProvider{}, nil, nil, testBoardConfig())
	svc := NewExportService(boards, nil)

	file, err := svc.Export(context.Background(), ExportTableSeasonBatting, board.Filter{})
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}

	records := readCSV(t, file.Data)
	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got=%d", len(records))
	}
	header, row := records[0], records[1]

	byName := make(map[string]string, len(header))
	for i, col := range header {
		byName[col] = row[i]
	}
	if byName["Level"] != "AAA" {
		t.Fatalf("expected reduced level AAA, got=%q", byName["Level"])
	}
	if byName["BB%"] != "14.1" || byName["K%"] != "28" {
		t.Fatalf("expected percent columns scaled once, got bb=%q k=%q", byName["BB%"], byName["K%"])
	}
	if byName["wRC+"] != "119" {
		t.Fatalf("expected wRC+ rounded to integer, got=%q", byName["wRC+"])
	}
	if byName["AVG"] != "0.254" {
		t.Fatalf("expected ratio columns untouched, got=%q", byName["AVG"])
	}
}

func TestExportServiceExport_AdvancedHittersKeepRawValues(t *testing.T) {
	t.Parallel()

	roster := &stubRosterProvider{entriesByOrg: map[string][]prospect.RosterEntry{
		"HOU": {{Name: "Jon Singleton", Position: "1B", Age: prospect.Float(27), Level: prospect.LevelAAA, Org: "HOU", OrgRank: prospect.Int(5)}},
	}}
	advanced := &stubAdvancedMetricsProvider{
		hitters: []prospect.AdvancedMetricRecord{
			{
				Name:          "Jon Singleton",
				PlayerType:    prospect.PlayerTypeHitter,
				ProspectScore: prospect.Float(82),
				PA:            prospect.Float(410),
				XBA:           prospect.Float(0.261),
				ChasePct:      prospect.Float(31.2),
				KPct:          prospect.Float(24.5),
			},
		},
	}
	boards := NewBoardService(roster, &stubSeasonStatsProvider{}, advanced, nil, nil, testBoardConfig())
	svc := NewExportService(boards, nil)

	file, err := svc.Export(context.Background(), ExportTableHitters, board.Filter{})
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	if !strings.HasPrefix(file.Filename, "rule5_aaa_hitters_") {
		t.Fatalf("unexpected filename: %q", file.Filename)
	}

	records := readCSV(t, file.Data)
	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got=%d", len(records))
	}
	header, row := records[0], records[1]
	if len(header) != 16 {
		t.Fatalf("expected 16 columns, got=%d", len(header))
	}

	byName := make(map[string]string, len(header))
	for i, col := range header {
		byName[col] = row[i]
	}
	// Advanced metrics already arrive in display units; export must not
	// rescale them.
	if byName["Chase%"] != "31.2" || byName["K%"] != "24.5" {
		t.Fatalf("expected percent columns exported as-is, got chase=%q k=%q", byName["Chase%"], byName["K%"])
	}
	if byName["Prospect Score"] != "82" || byName["xBA"] != "0.261" {
		t.Fatalf("unexpected metric cells: score=%q xba=%q", byName["Prospect Score"], byName["xBA"])
	}
}

func TestExportServiceExport_TopProspectsUsesCutoff(t *testing.T) {
	t.Parallel()

	roster := &stubRosterProvider{entriesByOrg: map[string][]prospect.RosterEntry{
		"HOU": {{Name: "Jon Singleton", Position: "1B", Level: prospect.LevelAAA, Org: "HOU", OrgRank: prospect.Int(5)}},
		"SF":  {{Name: "Luis Matos", Position: "OF", Level: prospect.LevelAA, Org: "SF", OrgRank: prospect.Int(30)}},
	}}
	boards := NewBoardService(roster, &stubSeasonStatsProvider{}, &stubAdvancedMetricsProvider{}, nil, nil, testBoardConfig())
	svc := NewExportService(boards, nil)

	file, err := svc.Export(context.Background(), ExportTableTopProspects, board.Filter{})
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	if !strings.HasPrefix(file.Filename, "rule5_top_prospects_") {
		t.Fatalf("unexpected filename: %q", file.Filename)
	}

	records := readCSV(t, file.Data)
	if len(records) != 2 {
		t.Fatalf("expected only the rank-5 player, got=%d records", len(records))
	}
	if records[1][0] != "Jon Singleton" {
		t.Fatalf("unexpected row: %v", records[1])
	}
}

func TestExportServiceExport_UnknownTable(t *testing.T) {
	t.Parallel()

	boards := NewBoardService(&stubRosterProvider{}, &stubSeasonStatsProvider{}, &stubAdvancedMetricsProvider{}, nil, nil, testBoardConfig())
	svc := NewExportService(boards, nil)

	_, err := svc.Export(context.Background(), ExportTable("standings"), board.Filter{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
}

func TestParseExportTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    ExportTable
		wantErr bool
	}{
		{raw: "eligibility", want: ExportTableEligibility},
		{raw: "top-prospects", want: ExportTableTopProspects},
		{raw: "season-pitching", want: ExportTableSeasonPitching},
		{raw: "rosters", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			got, err := ParseExportTable(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got=%v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseExportTable error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("unexpected table: got=%q want=%q", got, tt.want)
			}
		})
	}
}
