package server

import (
	"log/slog"
	"net/http"
	"time"

	"shop-dashboard/internal/handlers"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
	dashboard   *handlers.DashboardHandler
}

// NewServer wires the routes. reportTimeout bounds each report build,
// including the order fetch.
func NewServer(reports handlers.Reporter, logger *slog.Logger, reportTimeout time.Duration) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(reports, logger, reportTimeout),
		sseHandlers: handlers.NewSSEHandlers(reports, logger, reportTimeout),
		dashboard:   handlers.NewDashboardHandler(reports, logger, reportTimeout),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.Handle("GET /{$}", s.dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	s.mux.HandleFunc("GET /api/metrics", s.apiHandlers.HandleMetrics)

	s.mux.HandleFunc("GET /sse/metrics", s.sseHandlers.HandleMetrics)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
