package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-dashboard/internal/config"
	"shop-dashboard/internal/observability"
	"shop-dashboard/internal/services"
	"shop-dashboard/internal/shopify"
)

const ordersJSON = `{"orders":[
{"id":1,"total_price":"10.00","currency":"USD","created_at":"2024-01-01T10:00:00Z",
 "billing_address":{"country":"Canada"},"customer":{"id":7},
 "referring_site":"https://www.google.com/search?q=mugs",
 "line_items":[{"title":"Widget","price":"4.00"},{"title":"Gadget","price":"6.00"}]},
{"id":2,"total_price":"5.50","currency":"USD","created_at":"2024-01-02T09:30:00Z",
 "line_items":[{"title":"Widget","price":"4.00"}]}
]}`

func fakeShop(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := r.BasicAuth(); !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, ordersJSON)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:          "localhost",
			Port:          8084,
			ReportTimeout: 5 * time.Second,
		},
		Shop: shopify.Config{
			APIKey:            "key",
			Password:          "pwd",
			ShopName:          "acme",
			APIVersion:        "2024-01",
			BaseURL:           baseURL,
			Timeout:           5 * time.Second,
			PageSize:          250,
			WindowDays:        31,
			MaxWorkers:        2,
			RequestsPerSecond: 100,
			Burst:             10,
		},
		Logger: observability.LoggerConfig{Level: "error", Format: "text"},
		Security: config.SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8084"},
		},
	}
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	cfg := testConfig(fakeShop(t).URL)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reports := services.NewReports(shopify.NewClient(cfg.Shop, logger), logger)
	return newHandler(cfg, logger, reports)
}

func TestServer_Routes(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		path           string
		expectedStatus int
		contentType    string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/?from=2024-01-01&to=2024-01-02", http.StatusOK, "text/html"},
		{"/api/metrics?from=2024-01-01&to=2024-01-02", http.StatusOK, "application/json"},
		{"/api/metrics?from=2024-13-01", http.StatusBadRequest, "application/json"},
		{"/sse/metrics?from=2024-01-01&to=2024-01-02", http.StatusOK, "text/event-stream"},
		{"/health", http.StatusOK, "application/json"},
		{"/admin/stats", http.StatusOK, "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)

			h.ServeHTTP(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), tt.contentType)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestServer_UnknownRoute(t *testing.T) {
	h := newTestHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_MetricsEndToEnd(t *testing.T) {
	h := newTestHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/metrics?from=2024-01-01&to=2024-01-02", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			OrderCount   int             `json:"order_count"`
			TotalRevenue string          `json:"total_revenue"`
			Currencies   [][]any         `json:"currencies"`
			DailyRevenue [][]any         `json:"daily_revenue"`
			Sites        [][]any         `json:"referring_sites"`
			Countries    json.RawMessage `json:"revenue_per_country"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Data.OrderCount)
	assert.Equal(t, "15.5", resp.Data.TotalRevenue)
	assert.Equal(t, [][]any{{"USD", float64(2)}}, resp.Data.Currencies)
	assert.Equal(t, [][]any{{"2024-01-01", float64(10)}, {"2024-01-02", 5.5}}, resp.Data.DailyRevenue)
	assert.Equal(t, [][]any{{"www.google.com", float64(1)}}, resp.Data.Sites)
	assert.JSONEq(t, `[{"name":"Widget","data":[["Canada",4]]},{"name":"Gadget","data":[["Canada",6]]}]`, string(resp.Data.Countries))
}

func TestServer_StatsTrackReports(t *testing.T) {
	h := newTestHandler(t)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/metrics?from=2024-01-01&to=2024-01-02", nil))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))

	var resp struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, float64(1), resp.Data["reports_served"])
	assert.Equal(t, float64(2), resp.Data["orders_processed"])
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, version, strings.TrimSpace(buf.String()))
}

func TestReportCommand(t *testing.T) {
	shop := fakeShop(t)
	t.Setenv("SHP_KEY", "key")
	t.Setenv("SHP_PWD", "pwd")
	t.Setenv("SHP_NAME", "acme")
	t.Setenv("SHOP_BASE_URL", shop.URL)
	t.Setenv("LOG_LEVEL", "error")

	cfgFile, reportFrom, reportTo = "", "2024-01-01", "2024-01-02"
	t.Cleanup(func() { reportFrom, reportTo = "", "" })

	var buf bytes.Buffer
	reportCmd.SetOut(&buf)
	require.NoError(t, report(reportCmd, nil))

	var metrics map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &metrics))
	assert.Equal(t, "2024-01-01", metrics["start_date"])
	assert.Equal(t, "2024-01-02", metrics["end_date"])
	assert.Equal(t, float64(2), metrics["order_count"])
}
