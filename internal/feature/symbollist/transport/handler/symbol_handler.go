// Package handler provides the HTTP handlers of the symbollist feature.
package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stock_explorer/internal/feature/symbollist/domain/entity"
	"stock_explorer/internal/feature/symbollist/transport/http/dto"
)

// SymbolUsecase lists the symbols offered as suggestions.
type SymbolUsecase interface {
	ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error)
}

// SymbolHandler serves the known-symbol list.
type SymbolHandler struct {
	uc SymbolUsecase
}

func NewSymbolHandler(uc SymbolUsecase) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// List returns the active symbols in sort order, optionally narrowed by ?market=
// (case-insensitive).
//
// Example:
// GET /api/symbols?market=nasdaq
func (h *SymbolHandler) List(c *gin.Context) {
	symbols, err := h.uc.ListActiveSymbols(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	market := strings.TrimSpace(c.Query("market"))
	items := make([]dto.SymbolItem, 0, len(symbols))
	for _, s := range symbols {
		if market != "" && !strings.EqualFold(s.Market, market) {
			continue
		}
		items = append(items, dto.SymbolItem{Code: s.Code, Name: s.Name, Market: s.Market})
	}
	c.JSON(http.StatusOK, items)
}
