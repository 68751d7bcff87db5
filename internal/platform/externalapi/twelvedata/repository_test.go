package twelvedata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stock_explorer/internal/feature/prices/domain/entity"
	"stock_explorer/internal/feature/prices/usecase"
)

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewTwelveDataMarket(t *testing.T) {
	t.Parallel()

	cfg := Config{
		TwelveDataAPIKey: "test-key",
		BaseURL:          "https://api.test.com",
		Timeout:          10 * time.Second,
	}
	client := &http.Client{}

	market := NewTwelveDataMarket(cfg, client)

	if market == nil {
		t.Fatal("expected non-nil market")
	}
	if market.cfg.TwelveDataAPIKey != cfg.TwelveDataAPIKey {
		t.Errorf("expected API key %q, got %q", cfg.TwelveDataAPIKey, market.cfg.TwelveDataAPIKey)
	}
}

func TestTwelveDataMarket_GetDailyHistory_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		want := map[string]string{
			"symbol":     "AAPL",
			"interval":   "1day",
			"start_date": "2023-01-01",
			"end_date":   "2023-01-03",
			"order":      "ASC",
			"apikey":     "test-key",
		}
		for k, v := range want {
			if got := q.Get(k); got != v {
				t.Errorf("expected %s=%s, got %s", k, v, got)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"meta": {"symbol": "AAPL", "interval": "1day", "exchange_timezone": "America/New_York"},
			"values": [
				{"datetime": "2023-01-01", "open": "149.00", "high": "151.00", "low": "148.00", "close": "150.00", "volume": "1000000"},
				{"datetime": "2023-01-02", "open": "150.00", "high": "152.00", "low": "149.00", "close": "", "volume": ""},
				{"datetime": "2023-01-03 00:00:00", "open": "151.00", "high": "153.00", "low": "150.50", "close": "152.50", "volume": "900000"}
			]
		}`))
	}))
	defer server.Close()

	cfg := Config{
		TwelveDataAPIKey: "test-key",
		BaseURL:          server.URL,
	}
	market := NewTwelveDataMarket(cfg, server.Client())

	table, err := market.GetDailyHistory(context.Background(), "AAPL", day(2023, 1, 1), day(2023, 1, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if table.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", table.Len())
	}
	if table.Symbol != "AAPL" {
		t.Errorf("expected symbol AAPL, got %s", table.Symbol)
	}
	if table.Dates[0].Location().String() != "America/New_York" {
		t.Errorf("expected exchange location, got %s", table.Dates[0].Location())
	}

	closes := table.Columns[entity.ColumnClose]
	if !closes[0].Valid || closes[0].Float64 != 150.00 {
		t.Errorf("expected close 150.00, got %+v", closes[0])
	}
	if closes[1].Valid {
		t.Errorf("expected missing close on row 1, got %+v", closes[1])
	}
	if closes[2].Float64 != 152.50 {
		t.Errorf("expected close 152.50, got %+v", closes[2])
	}
	if table.Columns[entity.ColumnVolume][1].Valid {
		t.Error("expected missing volume on row 1")
	}
}

func TestTwelveDataMarket_GetDailyHistory_HTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
	}{
		{"bad request", http.StatusBadRequest},
		{"unauthorized", http.StatusUnauthorized},
		{"not found", http.StatusNotFound},
		{"internal server error", http.StatusInternalServerError},
		{"service unavailable", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := newServer(t, tt.statusCode, "")
			market := NewTwelveDataMarket(Config{TwelveDataAPIKey: "test-key", BaseURL: server.URL}, server.Client())

			_, err := market.GetDailyHistory(context.Background(), "AAPL", day(2023, 1, 1), day(2023, 2, 1))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), "twelvedata http") {
				t.Errorf("expected HTTP error message, got %v", err)
			}
		})
	}
}

func TestTwelveDataMarket_GetDailyHistory_APIError(t *testing.T) {
	t.Parallel()

	server := newServer(t, http.StatusOK, `{"status": "error", "code": 400, "message": "**symbol** not found: ZZZZ"}`)
	market := NewTwelveDataMarket(Config{TwelveDataAPIKey: "test-key", BaseURL: server.URL}, server.Client())

	_, err := market.GetDailyHistory(context.Background(), "ZZZZ", day(2023, 1, 1), day(2023, 2, 1))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "not found: ZZZZ") {
		t.Errorf("expected API error message, got %v", err)
	}
}

func TestTwelveDataMarket_GetDailyHistory_InvalidJSON(t *testing.T) {
	t.Parallel()

	server := newServer(t, http.StatusOK, `{invalid json`)
	market := NewTwelveDataMarket(Config{TwelveDataAPIKey: "test-key", BaseURL: server.URL}, server.Client())

	_, err := market.GetDailyHistory(context.Background(), "AAPL", day(2023, 1, 1), day(2023, 2, 1))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestTwelveDataMarket_GetDailyHistory_MalformedCells(t *testing.T) {
	t.Parallel()

	body := `{"status": "ok", "values": [
		{"datetime": "2023-01-03", "open": "130", "high": "131", "low": "129", "close": "130.5", "volume": "100"},
		{"datetime": "2023-01-04", "open": "abc", "high": "132", "low": "130", "close": "131.0", "volume": "N/A"},
		{"datetime": "2023-01-05", "open": "131", "high": "133", "low": "130", "close": "x", "volume": "300"},
		{"datetime": "not-a-date", "open": "131", "high": "133", "low": "130", "close": "132.0", "volume": "400"}
	]}`
	server := newServer(t, http.StatusOK, body)
	market := NewTwelveDataMarket(Config{TwelveDataAPIKey: "test-key", BaseURL: server.URL}, server.Client())

	table, err := market.GetDailyHistory(context.Background(), "AAPL", day(2023, 1, 1), day(2023, 2, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Len() != 4 {
		t.Fatalf("expected 4 rows, got %d", table.Len())
	}

	closes := table.Columns[entity.ColumnClose]
	volumes := table.Columns[entity.ColumnVolume]
	opens := table.Columns[entity.ColumnOpen]

	// malformed volume and open keep the row's close
	if !closes[1].Valid || closes[1].Float64 != 131.0 {
		t.Errorf("expected row 1 close 131.0, got %+v", closes[1])
	}
	if volumes[1].Valid {
		t.Errorf("expected row 1 volume missing, got %v", volumes[1].Float64)
	}
	if opens[1].Valid {
		t.Errorf("expected row 1 open missing, got %v", opens[1].Float64)
	}

	// malformed close is missing, the rest of the row is kept
	if closes[2].Valid {
		t.Errorf("expected row 2 close missing, got %v", closes[2].Float64)
	}
	if !volumes[2].Valid || volumes[2].Float64 != 300 {
		t.Errorf("expected row 2 volume 300, got %+v", volumes[2])
	}

	// malformed datetime leaves the row undated
	if !table.Dates[3].IsZero() {
		t.Errorf("expected row 3 date zero, got %v", table.Dates[3])
	}
}

func TestTwelveDataMarket_GetDailyHistory_MalformedCellsNormalize(t *testing.T) {
	t.Parallel()

	body := `{"status": "ok", "values": [
		{"datetime": "2023-01-03", "open": "1", "high": "1", "low": "1", "close": "130.5", "volume": "100"},
		{"datetime": "2023-01-04", "open": "1", "high": "1", "low": "1", "close": "131.0", "volume": "N/A"},
		{"datetime": "2023-01-05", "open": "1", "high": "1", "low": "1", "close": "n/a", "volume": "300"}
	]}`
	server := newServer(t, http.StatusOK, body)
	market := NewTwelveDataMarket(Config{TwelveDataAPIKey: "test-key", BaseURL: server.URL}, server.Client())

	table, err := market.GetDailyHistory(context.Background(), "AAPL", day(2023, 1, 1), day(2023, 2, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := usecase.Normalize(table, entity.ColumnClose)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Series.Points) != 2 {
		t.Errorf("expected 2 points, got %d", len(out.Series.Points))
	}
	if out.Dropped != 1 {
		t.Errorf("expected 1 dropped row, got %d", out.Dropped)
	}
}

func TestTwelveDataMarket_GetDailyHistory_EmptyValues(t *testing.T) {
	t.Parallel()

	server := newServer(t, http.StatusOK, `{"status": "ok", "values": []}`)
	market := NewTwelveDataMarket(Config{TwelveDataAPIKey: "test-key", BaseURL: server.URL}, server.Client())

	table, err := market.GetDailyHistory(context.Background(), "AAPL", day(2023, 1, 1), day(2023, 2, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Len() != 0 {
		t.Errorf("expected 0 rows, got %d", table.Len())
	}
}

func TestTwelveDataMarket_GetDailyHistory_ContextCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	market := NewTwelveDataMarket(Config{TwelveDataAPIKey: "test-key", BaseURL: server.URL}, server.Client())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := market.GetDailyHistory(ctx, "AAPL", day(2023, 1, 1), day(2023, 2, 1))
	if err == nil {
		t.Fatal("expected error due to context cancellation, got nil")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("TWELVE_DATA_API_KEY", "secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TwelveDataAPIKey != "secret" {
		t.Errorf("expected API key from env, got %q", cfg.TwelveDataAPIKey)
	}
	if cfg.BaseURL != "https://api.twelvedata.com" {
		t.Errorf("expected default base URL, got %q", cfg.BaseURL)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Timeout)
	}
}
