package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"shop-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	reports Reporter
	logger  *slog.Logger
	timeout time.Duration
}

func NewSSEHandlers(reports Reporter, logger *slog.Logger, timeout time.Duration) *SSEHandlers {
	return &SSEHandlers{
		reports: reports,
		logger:  logger,
		timeout: timeout,
	}
}

// HandleMetrics rebuilds the report and patches the page in place: the
// summary block, then the charts block, then a redraw of the charts.
func (h *SSEHandlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q := r.URL.Query()
	metrics, err := h.reports.Metrics(ctx, q.Get("from"), q.Get("to"))

	sse := datastar.NewSSE(w, r)
	if err != nil {
		appErr := reportError(err)
		h.logger.Warn("sse report failed", "error", err, "code", appErr.Code)
		msg := appErr.Message
		if appErr.Details != "" {
			msg += ": " + appErr.Details
		}
		sse.PatchElements(`<div id="summary" class="alert">` + templ.EscapeString(msg) + `</div>`)
		return
	}

	for _, c := range []templ.Component{templates.Summary(metrics), templates.Charts(metrics)} {
		html, err := renderString(ctx, c)
		if err != nil {
			h.logger.Error("render sse fragment", "error", err)
			return
		}
		if err := sse.PatchElements(html); err != nil {
			h.logger.Debug("sse client gone", "error", err)
			return
		}
	}
	sse.ExecuteScript(templates.DrawCharts)
}

func renderString(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
