package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prospectlab/rule5-board/internal/usecase"
)

// ExportTable streams a CSV download instead of the JSON envelope, so
// browsers save the file directly.
func (h *Handler) ExportTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportTable")
	defer span.End()

	table, err := usecase.ParseExportTable(r.PathValue("table"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	filter, err := filterFromQuery(ctx, r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	file, err := h.exportService.Export(ctx, table, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "export table failed", "table", string(table), "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		h.logger.WarnContext(ctx, "write export body failed", "table", string(table), "error", err)
	}
}

// RefreshBoard rebuilds the snapshot from the upstream sources, bypassing
// whatever the cache holds.
func (h *Handler) RefreshBoard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshBoard")
	defer span.End()

	snap, err := h.boardService.Refresh(ctx, func(completed, total int) {
		h.logger.DebugContext(ctx, "roster fetch progress", "completed", completed, "total", total)
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "refresh board failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, refreshResultDTO{
		Season:     snap.Season,
		FetchedAt:  snap.FetchedAt.UTC().Format(time.RFC3339),
		Players:    len(snap.Eligibility),
		FailedOrgs: snap.FailedOrgs,
		Warnings:   snap.Warnings,
	})
}

func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.InvalidateCache")
	defer span.End()

	h.boardService.Invalidate(ctx)
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "invalidated"})
}

type refreshResultDTO struct {
	Season     int      `json:"season"`
	FetchedAt  string   `json:"fetchedAt"`
	Players    int      `json:"players"`
	FailedOrgs []string `json:"failedOrgs,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}
