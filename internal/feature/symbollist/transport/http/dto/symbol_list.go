// Package dto defines the JSON shapes of the symbollist HTTP API.
package dto

// SymbolItem is one entry of GET /api/symbols.
type SymbolItem struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Market string `json:"market,omitempty"`
}
