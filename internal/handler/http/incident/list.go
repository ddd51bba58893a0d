package incident

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"lima-segura/internal/common/pagination"
	"lima-segura/internal/domain/entity"
	"lima-segura/internal/handler/http/respond"
	"lima-segura/internal/observability/logging"
	incUC "lima-segura/internal/usecase/incident"
)

// ListHandler serves GET /incidents.
type ListHandler struct {
	Svc           *incUC.Service
	PaginationCfg pagination.Config
}

// ServeHTTP lists incidents newest first.
//
// Query parameters: district (name or alias), category, source, page, limit.
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()
	logger := logging.FromContext(ctx)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		logger.Warn("invalid pagination parameters", slog.Any("error", err))
		pagination.RecordError(pagination.ErrorValidation)
		pagination.RecordRequest(http.StatusBadRequest, params.Page)
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	q := r.URL.Query()
	filter := incUC.Filter{
		District: q.Get("district"),
		Category: q.Get("category"),
		Source:   q.Get("source"),
	}

	result, err := h.Svc.List(ctx, filter, params)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, entity.ErrValidationFailed) {
			code = http.StatusBadRequest
		} else {
			logger.Error("failed to list incidents",
				slog.Any("error", err),
				slog.Int("page", params.Page),
				slog.Int("limit", params.Limit))
		}
		pagination.RecordRequest(code, params.Page)
		respond.SafeError(w, code, err)
		return
	}

	response := pagination.Response[DTO]{
		Data:       toDTOs(result.Data),
		Pagination: result.Pagination,
	}

	duration := time.Since(startTime)
	pagination.RecordRequest(http.StatusOK, params.Page)
	pagination.RecordDuration("handler", duration)

	logger.Debug("incident list served",
		slog.Int("page", params.Page),
		slog.Int("returned_count", len(response.Data)),
		slog.Int64("total", result.Pagination.Total),
		slog.Int64("duration_ms", duration.Milliseconds()))

	respond.JSON(w, http.StatusOK, response)
}
