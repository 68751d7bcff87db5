package usecase

import (
	"math"
	"time"

	"github.com/guregu/null/v5"

	"stock_explorer/internal/feature/prices/domain"
	"stock_explorer/internal/feature/prices/domain/entity"
)

// Normalize turns a raw upstream table into a plottable series.
//
// Rows whose closeField value is missing or not finite (NaN, ±Inf), and rows without a date, are discarded and
// counted. A table with no rows, or with nothing left after cleaning, yields ErrNoDataAvailable.
// Row order is preserved. An absent closeField column counts every row as missing.
func Normalize(table entity.RawTable, closeField string) (entity.NormalizedSeries, error) {
	if table.Len() == 0 {
		return entity.NormalizedSeries{}, domain.NoData(table.Symbol, 0)
	}

	closes := table.Columns[closeField]
	points := make([]entity.PricePoint, 0, table.Len())
	dropped := 0
	for i, d := range table.Dates {
		var v null.Float
		if i < len(closes) {
			v = closes[i]
		}
		if d.IsZero() || !v.Valid || math.IsNaN(v.Float64) || math.IsInf(v.Float64, 0) {
			dropped++
			continue
		}
		points = append(points, entity.PricePoint{Date: calendarDate(d), Close: v.Float64})
	}

	if len(points) == 0 {
		return entity.NormalizedSeries{}, domain.NoData(table.Symbol, dropped)
	}

	series := entity.PriceSeries{Symbol: table.Symbol, Points: points}
	return entity.NormalizedSeries{Series: series, Dropped: dropped}, nil
}

// calendarDate keeps the year, month and day of t in its own location.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
