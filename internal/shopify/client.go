package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"shop-dashboard/internal/models"
	"shop-dashboard/internal/observability"
)

// orderFields are the only order attributes the dashboard reads.
const orderFields = "id,total_price,created_at,billing_address,currency,line_items,customer,referring_site"

const maxErrorBody = 4 << 10

var nextLinkRe = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

type Config struct {
	APIKey            string        `mapstructure:"api_key"`
	Password          string        `mapstructure:"password"`
	ShopName          string        `mapstructure:"name"`
	APIVersion        string        `mapstructure:"api_version"`
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	PageSize          int           `mapstructure:"page_size"`
	WindowDays        int           `mapstructure:"window_days"`
	MaxWorkers        int           `mapstructure:"max_workers"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

func (c Config) endpoint() string {
	base := c.BaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.myshopify.com", c.ShopName)
	}
	return fmt.Sprintf("%s/admin/api/%s/orders.json", strings.TrimRight(base, "/"), c.APIVersion)
}

type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client reads orders from the Shopify Admin REST API.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 250
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:  logger,
	}
}

// Orders fetches every order created from the start of start to the end of
// end. Long ranges are split into windows fetched concurrently; the result
// keeps window order.
func (c *Client) Orders(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	ctx, span := observability.StartSpan(ctx, "shopify.orders")
	defer span.Finish()

	windows := splitWindows(start, end, c.cfg.WindowDays)
	span.SetTag("windows", strconv.Itoa(len(windows)))

	results := make([][]models.Order, len(windows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.MaxWorkers)
	for i, w := range windows {
		g.Go(func() error {
			orders, err := c.fetchWindow(gctx, w)
			if err != nil {
				return fmt.Errorf("window %s..%s: %w", w.from.Format(time.DateOnly), w.to.Format(time.DateOnly), err)
			}
			results[i] = orders
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.SetError(err)
		return nil, err
	}

	var all []models.Order
	for _, orders := range results {
		all = append(all, orders...)
	}
	c.logger.Debug("orders fetched", "count", len(all), "windows", len(windows))
	return all, nil
}

type window struct {
	from, to time.Time
}

// splitWindows cuts [start, end] into consecutive day ranges of at most size
// days. A non-positive size yields a single window.
func splitWindows(start, end time.Time, size int) []window {
	if size <= 0 {
		return []window{{from: start, to: end}}
	}
	var out []window
	for from := start; !from.After(end); from = from.AddDate(0, 0, size) {
		to := from.AddDate(0, 0, size-1)
		if to.After(end) {
			to = end
		}
		out = append(out, window{from: from, to: to})
	}
	return out
}

func (c *Client) fetchWindow(ctx context.Context, w window) ([]models.Order, error) {
	q := url.Values{}
	q.Set("status", "any")
	q.Set("limit", strconv.Itoa(c.cfg.PageSize))
	q.Set("fields", orderFields)
	q.Set("created_at_min", w.from.Format(time.DateOnly)+"T00:00:00")
	q.Set("created_at_max", w.to.Format(time.DateOnly)+"T23:59:59")
	next := c.cfg.endpoint() + "?" + q.Encode()

	var orders []models.Order
	for next != "" {
		page, link, err := c.fetchPage(ctx, next)
		if err != nil {
			return nil, err
		}
		orders = append(orders, page...)
		next = link
	}
	return orders, nil
}

func (c *Client) fetchPage(ctx context.Context, pageURL string) ([]models.Order, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.cfg.APIKey, c.cfg.Password)
	req.Header.Set("Accept", "application/json")
	if id := observability.GetRequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("get orders: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, "", &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var page models.OrdersPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, "", fmt.Errorf("decode orders: %w", err)
	}
	return page.Orders, nextLink(resp.Header.Get("Link")), nil
}

func nextLink(header string) string {
	if m := nextLinkRe.FindStringSubmatch(header); m != nil {
		return m[1]
	}
	return ""
}
