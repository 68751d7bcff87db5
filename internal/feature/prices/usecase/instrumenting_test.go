package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/stretchr/testify/assert"

	"stock_explorer/internal/feature/prices/domain"
	"stock_explorer/internal/feature/prices/domain/entity"
	"stock_explorer/internal/feature/prices/usecase"
)

// recorder is a metrics.Counter and metrics.Histogram that remembers label values per call.
type recorder struct {
	mu     sync.Mutex
	labels []string
	total  float64
	calls  int
}

func (r *recorder) With(labelValues ...string) metrics.Counter {
	r.mu.Lock()
	r.labels = append([]string(nil), labelValues...)
	r.mu.Unlock()
	return r
}

func (r *recorder) Add(delta float64) {
	r.mu.Lock()
	r.total += delta
	r.calls++
	r.mu.Unlock()
}

// histogram adapts recorder to metrics.Histogram.
type histogram struct{ *recorder }

func (h histogram) With(labelValues ...string) metrics.Histogram {
	h.recorder.With(labelValues...)
	return h
}

func (h histogram) Observe(value float64) {
	h.recorder.Add(value)
}

// stubGetter returns a fixed result.
type stubGetter struct {
	out entity.NormalizedSeries
	err error
}

func (s stubGetter) GetPriceSeries(ctx context.Context, req entity.PriceRequest) (entity.NormalizedSeries, error) {
	return s.out, s.err
}

func TestInstrumentingMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		next        stubGetter
		wantOutcome string
		wantDropped float64
	}{
		{
			name:        "ok with dropped rows",
			next:        stubGetter{out: entity.NormalizedSeries{Dropped: 3}},
			wantOutcome: "ok",
			wantDropped: 3,
		},
		{
			name:        "no data carries dropped rows",
			next:        stubGetter{err: domain.NoData("AAPL", 2)},
			wantOutcome: "no_data",
			wantDropped: 2,
		},
		{
			name:        "other error",
			next:        stubGetter{err: context.DeadlineExceeded},
			wantOutcome: "error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			count, dropped := &recorder{}, &recorder{}
			duration := histogram{&recorder{}}
			mw := usecase.NewInstrumentingMiddleware(count, duration, dropped, tt.next)

			_, err := mw.GetPriceSeries(context.Background(), entity.NewPriceRequest("AAPL", time.Time{}, time.Now()))
			assert.Equal(t, tt.next.err, err, "middleware must pass errors through")

			assert.Equal(t, []string{"method", "GetPriceSeries", "outcome", tt.wantOutcome}, count.labels)
			assert.Equal(t, 1.0, count.total)
			assert.Equal(t, 1, duration.calls)
			assert.Equal(t, tt.wantDropped, dropped.total)
		})
	}
}
