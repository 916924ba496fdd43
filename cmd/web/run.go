package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"shop-dashboard/internal/config"
	"shop-dashboard/internal/middleware"
	"shop-dashboard/internal/observability"
	"shop-dashboard/internal/server"
	"shop-dashboard/internal/services"
	"shop-dashboard/internal/shopify"
)

func setup() (*config.Config, *slog.Logger, *services.Reports, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	client := shopify.NewClient(cfg.Shop, logger)
	return cfg, logger, services.NewReports(client, logger), nil
}

// newHandler builds the routed server wrapped in the middleware chain.
func newHandler(cfg *config.Config, logger *slog.Logger, reports *services.Reports) http.Handler {
	srv := server.NewServer(reports, logger, cfg.Server.ReportTimeout)
	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	chain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)
	return chain(srv)
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, logger, reports, err := setup()
	if err != nil {
		return err
	}

	logger.Info("starting application", "version", version, "config", cfg)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, logger, reports),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server.ShutdownTimeout)
	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("report stats at shutdown", "stats", reports.Stats())
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		return err
	}

	logger.Info("application stopped gracefully")
	return nil
}

func report(cmd *cobra.Command, args []string) error {
	cfg, _, reports, err := setup()
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, cfg.Server.ReportTimeout)
	defer cancel()

	metrics, err := reports.Metrics(ctx, reportFrom, reportTo)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(metrics)
}
