package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	apperrors "shop-dashboard/internal/errors"
	"shop-dashboard/internal/models"
	"shop-dashboard/internal/observability"
	"shop-dashboard/internal/services"
)

const version = "1.0.0"

// Reporter builds a metrics report for a from/to pair of YYYY-MM-DD dates.
// Empty bounds fall back to today.
type Reporter interface {
	Metrics(ctx context.Context, from, to string) (*models.Metrics, error)
	Stats() map[string]any
}

type APIHandlers struct {
	reports Reporter
	logger  *slog.Logger
	timeout time.Duration
}

func NewAPIHandlers(reports Reporter, logger *slog.Logger, timeout time.Duration) *APIHandlers {
	return &APIHandlers{
		reports: reports,
		logger:  logger,
		timeout: timeout,
	}
}

func (h *APIHandlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q := r.URL.Query()
	metrics, err := h.reports.Metrics(ctx, q.Get("from"), q.Get("to"))
	if err != nil {
		apperrors.WriteError(w, h.logger, reportError(err), observability.GetRequestID(r.Context()))
		return
	}

	apperrors.WriteSuccessWithHeaders(w, metrics, map[string]string{
		"Cache-Control": "no-store",
	})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteSuccess(w, h.reports.Stats())
}

// reportError maps a report failure onto the API error taxonomy. Only bad
// dates are the caller's fault; anything else comes from the order source.
func reportError(err error) *apperrors.AppError {
	var dateErr *services.InvalidDateError
	if errors.As(err, &dateErr) {
		return apperrors.ValidationWrap(err, "invalid date range")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.ServiceUnavailable("order data took too long to load")
	}
	return apperrors.UpstreamWrap(err, "order data unavailable")
}
