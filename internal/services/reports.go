package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"shop-dashboard/internal/models"
	"shop-dashboard/internal/observability"
)

// OrderSource returns the orders created between start and end, both days
// inclusive.
type OrderSource interface {
	Orders(ctx context.Context, start, end time.Time) ([]models.Order, error)
}

// Reports builds a fresh Metrics bundle per request. Nothing is cached.
type Reports struct {
	source     OrderSource
	aggregator *Aggregator
	logger     *slog.Logger
	now        func() time.Time

	reportsServed   atomic.Int64
	ordersProcessed atomic.Int64
	lastReport      atomic.Int64
}

func NewReports(source OrderSource, logger *slog.Logger) *Reports {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reports{
		source:     source,
		aggregator: NewAggregator(logger),
		logger:     logger,
		now:        time.Now,
	}
}

// ResolveRange fills in missing bounds: the end defaults to today and the
// start to the end.
func (r *Reports) ResolveRange(from, to string) (DateRange, error) {
	today := r.now().Format(time.DateOnly)
	if to == "" {
		to = today
	}
	if from == "" {
		from = to
	}
	return ParseDateRange(from, to)
}

func (r *Reports) Metrics(ctx context.Context, from, to string) (*models.Metrics, error) {
	rng, err := r.ResolveRange(from, to)
	if err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, "reports.metrics")
	defer span.Finish()
	span.SetTag("range.start", rng.Start.Format(time.DateOnly))
	span.SetTag("range.end", rng.End.Format(time.DateOnly))

	start := time.Now()
	orders, err := r.source.Orders(ctx, rng.Start, rng.End)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("fetch orders: %w", err)
	}

	metrics, err := r.aggregator.Aggregate(orders, rng.Start, rng.End)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	r.reportsServed.Add(1)
	r.ordersProcessed.Add(int64(len(orders)))
	r.lastReport.Store(r.now().UnixNano())

	r.logger.Info("report built",
		"start", metrics.StartDate,
		"end", metrics.EndDate,
		"orders", len(orders),
		"duration", time.Since(start),
		"request_id", observability.GetRequestID(ctx),
	)
	return metrics, nil
}

func (r *Reports) Stats() map[string]any {
	stats := map[string]any{
		"reports_served":   r.reportsServed.Load(),
		"orders_processed": r.ordersProcessed.Load(),
	}
	if last := r.lastReport.Load(); last != 0 {
		stats["last_report"] = time.Unix(0, last).UTC()
	}
	return stats
}
