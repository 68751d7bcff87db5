package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guregu/null/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dashboardhandler "stock_explorer/internal/feature/dashboard/transport/handler"
	"stock_explorer/internal/feature/prices/domain/entity"
	priceshandler "stock_explorer/internal/feature/prices/transport/handler"
	pricesusecase "stock_explorer/internal/feature/prices/usecase"
	symbolentity "stock_explorer/internal/feature/symbollist/domain/entity"
	symbollisthandler "stock_explorer/internal/feature/symbollist/transport/handler"
	platformhandler "stock_explorer/internal/platform/http/handler"
	"stock_explorer/internal/platform/metrics"
	"stock_explorer/internal/platform/middleware"
)

type fakeMarket struct{}

func (fakeMarket) GetDailyHistory(ctx context.Context, symbol string, start, end time.Time) (entity.RawTable, error) {
	if symbol == "NOPE" {
		return entity.RawTable{}, errors.New("symbol may be delisted")
	}
	return entity.RawTable{
		Dates: []time.Time{
			time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 1, 4, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		Columns: map[string][]null.Float{
			entity.ColumnClose: {null.FloatFrom(150), null.Float{}, null.FloatFrom(152.5)},
		},
	}, nil
}

type fakeSymbols struct{}

func (fakeSymbols) ListActiveSymbols(ctx context.Context) ([]symbolentity.Symbol, error) {
	return []symbolentity.Symbol{{Code: "AAPL", Name: "Apple Inc."}}, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg, reg, "test", "prices")
	var svc pricesusecase.PriceSeriesGetter = pricesusecase.NewPricesUsecase(fakeMarket{}, "")
	svc = pricesusecase.NewInstrumentingMiddleware(m.RequestCount, m.RequestDuration, m.DroppedRows, svc)

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	dashboard := dashboardhandler.NewDashboardHandler(fakeSymbols{}, dashboardhandler.Options{DefaultSymbol: "AAPL", DefaultStart: start})
	prices := priceshandler.NewPricesHandler(svc, nil, start)
	symbols := symbollisthandler.NewSymbolHandler(fakeSymbols{})
	ready := platformhandler.Ready(time.Second, map[string]platformhandler.PingFunc{
		"db": func(ctx context.Context) error { return nil },
	})

	return NewRouter(dashboard, prices, symbols, ready, m.Handler())
}

func TestNewRouter(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name           string
		method         string
		url            string
		expectedStatus int
		contains       string
	}{
		{"success: liveness", http.MethodGet, "/healthz", http.StatusOK, `"status":"ok"`},
		{"success: liveness head", http.MethodHead, "/healthz", http.StatusOK, ""},
		{"success: liveness options", http.MethodOptions, "/healthz", http.StatusNoContent, ""},
		{"success: readiness", http.MethodGet, "/readyz", http.StatusOK, `"db":"ok"`},
		{"success: dashboard", http.MethodGet, "/", http.StatusOK, "Stock Data for AAPL"},
		{"success: chart", http.MethodGet, "/chart/AAPL?start=2023-01-01&end=2023-02-01", http.StatusOK, "AAPL Closing Prices"},
		{"success: prices api", http.MethodGet, "/api/prices/aapl?start=2023-01-01&end=2023-02-01", http.StatusOK, `"dropped":1`},
		{"success: symbols api", http.MethodGet, "/api/symbols", http.StatusOK, `"code":"AAPL"`},
		{"failure: upstream error is no data", http.MethodGet, "/api/prices/NOPE?start=2023-01-01&end=2023-02-01", http.StatusNotFound, `"error"`},
		{"failure: png disabled", http.MethodGet, "/chart/AAPL/png", http.StatusNotFound, "disabled"},
		{"error: unknown route", http.MethodGet, "/candles/AAPL", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(tt.method, tt.url, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
			if tt.contains != "" {
				assert.Contains(t, w.Body.String(), tt.contains)
			}
		})
	}
}

func TestNewRouter_Metrics(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/prices/AAPL?start=2023-01-01&end=2023-02-01", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_prices_request_count")
	assert.Contains(t, w.Body.String(), "test_prices_dropped_rows_total")
}
