package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/prospectlab/rule5-board/internal/app"
	"github.com/prospectlab/rule5-board/internal/config"
	"github.com/prospectlab/rule5-board/internal/domain/board"
	"github.com/prospectlab/rule5-board/internal/platform/logging"
	"github.com/prospectlab/rule5-board/internal/usecase"
)

func main() {
	outDir := flag.String("out", ".", "directory CSV files are written into")
	tablesFlag := flag.String("tables", "all", `comma separated tables to export, or "all"`)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	tables, err := parseTables(*tablesFlag)
	if err != nil {
		log.Fatal(err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	boards, exports := app.BuildBoardServices(cfg, logger)

	if _, err := boards.Refresh(ctx, func(completed, total int) {
		fmt.Printf("\rfetching rosters %d/%d", completed, total)
	}); err != nil {
		fmt.Println()
		log.Fatalf("build board snapshot: %v", err)
	}
	fmt.Println()

	for _, table := range tables {
		file, err := exports.Export(ctx, table, board.Filter{})
		if err != nil {
			log.Fatalf("export %s: %v", table, err)
		}

		path := filepath.Join(*outDir, file.Filename)
		if err := os.WriteFile(path, file.Data, 0o644); err != nil {
			log.Fatalf("write %s: %v", path, err)
		}
		fmt.Printf("wrote %s (%d bytes)\n", path, len(file.Data))
	}
}

func parseTables(raw string) ([]usecase.ExportTable, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" || value == "all" {
		return []usecase.ExportTable{
			usecase.ExportTableEligibility,
			usecase.ExportTableTopProspects,
			usecase.ExportTableHitters,
			usecase.ExportTablePitchers,
			usecase.ExportTableSeasonBatting,
			usecase.ExportTableSeasonPitching,
		}, nil
	}

	parts := strings.Split(value, ",")
	tables := make([]usecase.ExportTable, 0, len(parts))
	for _, part := range parts {
		table, err := usecase.ParseExportTable(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}

	return tables, nil
}
