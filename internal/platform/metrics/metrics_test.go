package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := New("stock_explorer", "prices")
	m.RequestCount.With("method", "GetPriceSeries", "outcome", "ok").Add(1)
	m.RequestDuration.With("method", "GetPriceSeries", "outcome", "ok").Observe(0.25)
	m.DroppedRows.With("outcome", "no_data").Add(3)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	res, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	out := string(body)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, out, `stock_explorer_prices_request_count{method="GetPriceSeries",outcome="ok"} 1`)
	assert.Contains(t, out, `stock_explorer_prices_request_duration_seconds_count{method="GetPriceSeries",outcome="ok"} 1`)
	assert.Contains(t, out, `stock_explorer_prices_dropped_rows_total{outcome="no_data"} 3`)
	assert.Contains(t, out, "go_goroutines")
}

func TestNew_IndependentRegistries(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		New("a", "b")
		New("a", "b")
	})
}
