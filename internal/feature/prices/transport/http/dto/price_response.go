// Package dto defines the JSON bodies served by the prices endpoints.
package dto

// PricePointResponse is one (date, close) pair.
type PricePointResponse struct {
	Date  string  `json:"date"`  // YYYY-MM-DD
	Close float64 `json:"close"` // closing price
}

// PriceSeriesResponse is the body of GET /api/prices/:symbol.
type PriceSeriesResponse struct {
	Symbol  string               `json:"symbol"`
	Start   string               `json:"start"`
	End     string               `json:"end"` // exclusive
	Dropped int                  `json:"dropped"`
	Points  []PricePointResponse `json:"points"`
}

// NoDataResponse is returned with 404 when nothing is left to plot.
type NoDataResponse struct {
	Error   string `json:"error"`
	Dropped int    `json:"dropped"`
}

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
