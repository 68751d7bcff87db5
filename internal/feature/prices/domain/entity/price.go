// Package entity defines the domain models for the prices feature.
package entity

import (
	"strings"
	"time"

	"github.com/guregu/null/v5"
)

// DateLayout is the calendar-date format used on the wire and in query strings.
const DateLayout = "2006-01-02"

// Column names shared by the upstream adapters.
const (
	ColumnOpen     = "open"
	ColumnHigh     = "high"
	ColumnLow      = "low"
	ColumnClose    = "close"
	ColumnAdjClose = "adj_close"
	ColumnVolume   = "volume"
)

// Today returns the UTC calendar date of now at midnight. It is the default end of a range.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PriceRequest is what the presentation layer asks for: one symbol over [Start, End).
type PriceRequest struct {
	Symbol string
	Start  time.Time
	End    time.Time // exclusive
}

// NewPriceRequest builds a request with the symbol trimmed and upper-cased.
func NewPriceRequest(symbol string, start, end time.Time) PriceRequest {
	return PriceRequest{
		Symbol: strings.ToUpper(strings.TrimSpace(symbol)),
		Start:  start,
		End:    end,
	}
}

// RawTable is an upstream daily-history response before cleaning.
// Dates is the date field; Columns holds the price columns keyed by name.
// A cell that is not Valid (or is NaN) is a missing value.
type RawTable struct {
	Symbol  string
	Dates   []time.Time
	Columns map[string][]null.Float
}

// Len returns the number of rows in the table.
func (t RawTable) Len() int {
	return len(t.Dates)
}

// PricePoint is one (date, closing price) record.
type PricePoint struct {
	Date  time.Time // calendar date at midnight UTC
	Close float64
}

// PriceSeries is an ordered sequence of closing prices for one symbol and date range.
// Start and End echo the requested range; the normalizer leaves them zero.
type PriceSeries struct {
	Symbol string
	Start  time.Time
	End    time.Time
	Points []PricePoint
}

// Closes returns the closing prices in series order.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Close
	}
	return out
}

// RawTable converts the series back into a raw table with a single close column.
func (s PriceSeries) RawTable() RawTable {
	dates := make([]time.Time, len(s.Points))
	closes := make([]null.Float, len(s.Points))
	for i, p := range s.Points {
		dates[i] = p.Date
		closes[i] = null.FloatFrom(p.Close)
	}
	return RawTable{
		Symbol:  s.Symbol,
		Dates:   dates,
		Columns: map[string][]null.Float{ColumnClose: closes},
	}
}

// NormalizedSeries is a cleaned series plus the number of raw rows that were discarded.
type NormalizedSeries struct {
	Series  PriceSeries
	Dropped int
}
