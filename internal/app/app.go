package app

import (
	"fmt"
	"net/http"

	"github.com/prospectlab/rule5-board/external/fangraphs"
	"github.com/prospectlab/rule5-board/external/prospectsavant"
	"github.com/prospectlab/rule5-board/internal/config"
	"github.com/prospectlab/rule5-board/internal/interfaces/httpapi"
	"github.com/prospectlab/rule5-board/internal/platform/cache"
	"github.com/prospectlab/rule5-board/internal/platform/logging"
	"github.com/prospectlab/rule5-board/internal/platform/resilience"
	"github.com/prospectlab/rule5-board/internal/usecase"
)

// BuildBoardServices wires the upstream clients and board services shared by
// the API server and the export tool.
func BuildBoardServices(cfg config.Config, logger *logging.Logger) (*usecase.BoardService, *usecase.ExportService) {
	if logger == nil {
		logger = logging.Default()
	}

	fanGraphs := fangraphs.NewClient(fangraphs.ClientConfig{
		BaseURL:    cfg.FanGraphsBaseURL,
		Timeout:    cfg.FetchTimeout,
		MaxRetries: cfg.FetchMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FanGraphsCircuitEnabled,
			FailureThreshold: cfg.FanGraphsCircuitFailureCount,
			OpenTimeout:      cfg.FanGraphsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FanGraphsCircuitHalfOpenMaxReq,
		},
	})

	savant := prospectsavant.NewClient(prospectsavant.ClientConfig{
		BaseURL:    cfg.SavantBaseURL,
		Timeout:    cfg.FetchTimeout,
		MaxRetries: cfg.FetchMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SavantCircuitEnabled,
			FailureThreshold: cfg.SavantCircuitFailureCount,
			OpenTimeout:      cfg.SavantCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SavantCircuitHalfOpenMaxReq,
		},
	})

	boards := usecase.NewBoardService(
		fanGraphs,
		fanGraphs,
		savant,
		cache.NewStore(cfg.CacheTTL),
		logger,
		usecase.BoardConfig{
			Season:                cfg.Season,
			FetchWorkers:          cfg.FetchWorkers,
			CacheEnabled:          cfg.CacheEnabled,
			StrictJoinKey:         cfg.MergeStrictKey,
			MinPAThreshold:        cfg.MinPAThreshold,
			MinIPThreshold:        cfg.MinIPThreshold,
			TopProspectMaxOrgRank: cfg.TopProspectMaxOrgRank,
		},
	)

	return boards, usecase.NewExportService(boards, logger)
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	boards, exports := BuildBoardServices(cfg, logger)
	handler := httpapi.NewHandler(boards, exports, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
