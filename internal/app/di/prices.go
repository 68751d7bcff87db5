package di

import (
	pricesusecase "stock_explorer/internal/feature/prices/usecase"
	"stock_explorer/internal/platform/metrics"
)

// NewPricesService wires the prices usecase behind the instrumenting middleware.
// m may be nil, in which case the usecase is returned bare.
func NewPricesService(market pricesusecase.MarketRepository, closeField string, m *metrics.Metrics) pricesusecase.PriceSeriesGetter {
	var svc pricesusecase.PriceSeriesGetter = pricesusecase.NewPricesUsecase(market, closeField)
	if m == nil {
		return svc
	}
	return pricesusecase.NewInstrumentingMiddleware(m.RequestCount, m.RequestDuration, m.DroppedRows, svc)
}
