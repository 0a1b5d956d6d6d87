package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerBoardRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/board", handler.GetBoard)
	mux.HandleFunc("GET /v1/eligibility", handler.ListEligibility)
	mux.HandleFunc("POST /v1/eligibility/search", handler.SearchEligibility)
	mux.HandleFunc("GET /v1/prospects/top", handler.ListTopProspects)
	mux.HandleFunc("GET /v1/summary", handler.GetSummary)
	mux.HandleFunc("GET /v1/tables/advanced", handler.GetAdvancedTables)
	mux.HandleFunc("GET /v1/tables/season", handler.GetSeasonTables)
	mux.HandleFunc("GET /v1/styling/gradients", handler.GetGradients)
	mux.HandleFunc("GET /v1/export/{table}", handler.ExportTable)
	mux.HandleFunc("POST /v1/board/refresh", handler.RefreshBoard)
	mux.HandleFunc("POST /v1/cache/invalidate", handler.InvalidateCache)
}
