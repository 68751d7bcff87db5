// Package domain defines domain-level errors for the prices feature.
package domain

import (
	"errors"
	"fmt"
)

// ErrNoDataAvailable indicates that no usable rows remain after fetching and cleaning.
// It is always recoverable: the presentation layer shows a message and does not retry.
var ErrNoDataAvailable = errors.New("no historical data found for the given symbol and date range")

// NoDataAvailableError carries the context of an ErrNoDataAvailable outcome.
// Dropped is the number of rows discarded for missing values before the series came out empty.
type NoDataAvailableError struct {
	Symbol  string
	Dropped int
}

func (e *NoDataAvailableError) Error() string {
	if e.Dropped > 0 {
		return fmt.Sprintf("%s: %s (%d rows dropped)", e.Symbol, ErrNoDataAvailable.Error(), e.Dropped)
	}
	return fmt.Sprintf("%s: %s", e.Symbol, ErrNoDataAvailable.Error())
}

// Unwrap lets errors.Is match ErrNoDataAvailable.
func (e *NoDataAvailableError) Unwrap() error {
	return ErrNoDataAvailable
}

// NoData returns a NoDataAvailableError for the symbol.
func NoData(symbol string, dropped int) error {
	return &NoDataAvailableError{Symbol: symbol, Dropped: dropped}
}

// DroppedRows reports the drop count carried by err, or 0.
func DroppedRows(err error) int {
	var nd *NoDataAvailableError
	if errors.As(err, &nd) {
		return nd.Dropped
	}
	return 0
}
