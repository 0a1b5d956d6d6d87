package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/prospectlab/rule5-board/internal/domain/board"
	"github.com/prospectlab/rule5-board/internal/platform/logging"
	"github.com/prospectlab/rule5-board/internal/usecase"
)

type Handler struct {
	boardService  *usecase.BoardService
	exportService *usecase.ExportService
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(
	boardService *usecase.BoardService,
	exportService *usecase.ExportService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		boardService:  boardService,
		exportService: exportService,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func filterFromQuery(ctx context.Context, query url.Values) (board.Filter, error) {
	ctx, span := startSpan(ctx, "httpapi.filterFromQuery")
	defer span.End()

	filter := board.Filter{
		Search:    strings.TrimSpace(query.Get("search")),
		Orgs:      multiValueParam(ctx, query, "org"),
		Positions: multiValueParam(ctx, query, "position"),
		Levels:    multiValueParam(ctx, query, "level"),
	}

	ageMin, err := floatParam(ctx, query, "age_min")
	if err != nil {
		return board.Filter{}, err
	}
	ageMax, err := floatParam(ctx, query, "age_max")
	if err != nil {
		return board.Filter{}, err
	}
	filter.AgeMin = ageMin
	filter.AgeMax = ageMax

	return filter, nil
}

// multiValueParam accepts both repeated params and comma-joined lists.
func multiValueParam(ctx context.Context, query url.Values, name string) []string {
	ctx, span := startSpan(ctx, "httpapi.multiValueParam")
	defer span.End()

	var values []string
	for _, raw := range query[name] {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				values = append(values, trimmed)
			}
		}
	}
	return values
}

func floatParam(ctx context.Context, query url.Values, name string) (*float64, error) {
	ctx, span := startSpan(ctx, "httpapi.floatParam")
	defer span.End()

	raw := strings.TrimSpace(query.Get(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be numeric", usecase.ErrInvalidInput, name)
	}
	return &value, nil
}
