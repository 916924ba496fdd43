package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"shop-dashboard/internal/observability"
	"shop-dashboard/internal/ui/templates"
)

type DashboardHandler struct {
	reports Reporter
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

func NewDashboardHandler(reports Reporter, logger *slog.Logger, timeout time.Duration) *DashboardHandler {
	return &DashboardHandler{
		reports: reports,
		logger:  logger,
		timeout: timeout,
		now:     time.Now,
	}
}

// ServeHTTP renders the dashboard for ?from=&to=. Errors are shown on the
// page rather than as an error document; an empty range renders empty charts.
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q := r.URL.Query()
	view := templates.DashboardView{
		From:  q.Get("from"),
		To:    q.Get("to"),
		Today: h.now().Format(time.DateOnly),
	}

	status := http.StatusOK
	metrics, err := h.reports.Metrics(ctx, view.From, view.To)
	if err != nil {
		appErr := reportError(err)
		status = appErr.StatusCode
		view.Error = appErr.Message
		if appErr.Details != "" {
			view.Error += ": " + appErr.Details
		}
		h.logger.Warn("dashboard report failed",
			"error", err,
			"request_id", observability.GetRequestID(r.Context()),
		)
	}
	view.Metrics = metrics

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := templates.Dashboard(view).Render(ctx, w); err != nil {
		h.logger.Error("render dashboard", "error", err)
	}
}
