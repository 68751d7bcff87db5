package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/go-kit/kit/metrics"

	"stock_explorer/internal/feature/prices/domain"
	"stock_explorer/internal/feature/prices/domain/entity"
)

// PriceSeriesGetter is the behavior shared by PricesUsecase and its middlewares.
type PriceSeriesGetter interface {
	GetPriceSeries(ctx context.Context, req entity.PriceRequest) (entity.NormalizedSeries, error)
}

// instrumentingMiddleware wraps a PriceSeriesGetter and records request metrics.
type instrumentingMiddleware struct {
	reqCount    metrics.Counter
	reqDuration metrics.Histogram
	dropped     metrics.Counter
	next        PriceSeriesGetter
}

// NewInstrumentingMiddleware records a request count and duration labelled by outcome
// ("ok", "no_data", "error"), plus the number of rows dropped for missing values.
func NewInstrumentingMiddleware(reqCount metrics.Counter, reqDuration metrics.Histogram, dropped metrics.Counter, next PriceSeriesGetter) PriceSeriesGetter {
	return &instrumentingMiddleware{
		reqCount:    reqCount,
		reqDuration: reqDuration,
		dropped:     dropped,
		next:        next,
	}
}

func (m *instrumentingMiddleware) GetPriceSeries(ctx context.Context, req entity.PriceRequest) (out entity.NormalizedSeries, err error) {
	defer func(begin time.Time) {
		labels := []string{"method", "GetPriceSeries", "outcome", outcome(err)}
		m.reqCount.With(labels...).Add(1)
		m.reqDuration.With(labels...).Observe(time.Since(begin).Seconds())

		n := out.Dropped
		if err != nil {
			n = domain.DroppedRows(err)
		}
		if n > 0 {
			m.dropped.With("outcome", outcome(err)).Add(float64(n))
		}
	}(time.Now())
	return m.next.GetPriceSeries(ctx, req)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNoDataAvailable):
		return "no_data"
	default:
		return "error"
	}
}
