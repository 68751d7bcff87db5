// Package usecase implements the fetch-and-normalize flow for historical closing prices.
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"stock_explorer/internal/feature/prices/domain"
	"stock_explorer/internal/feature/prices/domain/entity"
)

// DefaultCloseField is the column plotted when none is configured.
const DefaultCloseField = entity.ColumnClose

// MarketRepository fetches daily history for a symbol over [start, end).
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	GetDailyHistory(ctx context.Context, symbol string, start, end time.Time) (entity.RawTable, error)
}

// PricesUsecase runs one fetch-normalize cycle per request. It holds no mutable state.
type PricesUsecase struct {
	market     MarketRepository
	closeField string
}

// NewPricesUsecase creates a PricesUsecase. An empty closeField falls back to DefaultCloseField.
func NewPricesUsecase(market MarketRepository, closeField string) *PricesUsecase {
	if closeField == "" {
		closeField = DefaultCloseField
	}
	return &PricesUsecase{market: market, closeField: closeField}
}

// GetPriceSeries fetches and cleans the closing prices for req.
//
// Upstream failures are logged and treated as an empty table, so every failure a user can cause
// (bad symbol, empty range, outage) ends in ErrNoDataAvailable. Only context cancellation is
// returned as a different error.
func (u *PricesUsecase) GetPriceSeries(ctx context.Context, req entity.PriceRequest) (entity.NormalizedSeries, error) {
	if req.Symbol == "" || !req.End.After(req.Start) {
		return entity.NormalizedSeries{}, domain.NoData(req.Symbol, 0)
	}

	table, err := u.market.GetDailyHistory(ctx, req.Symbol, req.Start, req.End)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return entity.NormalizedSeries{}, ctxErr
		}
		if errors.Is(err, context.Canceled) {
			return entity.NormalizedSeries{}, err
		}
		slog.Warn("upstream fetch failed, treating as empty", "symbol", req.Symbol, "error", err)
		table = entity.RawTable{}
	}
	table.Symbol = req.Symbol

	out, err := Normalize(table, u.closeField)
	dropped := out.Dropped
	if err != nil {
		dropped = domain.DroppedRows(err)
	}
	if dropped > 0 {
		slog.Warn("dropped rows with missing closing price", "symbol", req.Symbol, "dropped", dropped)
	}
	if err != nil {
		return entity.NormalizedSeries{}, err
	}

	out.Series.Start = req.Start
	out.Series.End = req.End
	return out, nil
}
