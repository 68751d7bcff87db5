// Package usecase implements the business logic for symbol-related operations.
package usecase

import (
	"context"
	"fmt"
	"strings"

	"stock_explorer/internal/feature/symbollist/domain"
	"stock_explorer/internal/feature/symbollist/domain/entity"
)

// SymbolRepository abstracts the persistence layer for symbol (stock ticker) data.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
}

// SymbolSeeder writes reference symbols.
type SymbolSeeder interface {
	Upsert(ctx context.Context, symbols []entity.Symbol) error
}

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListActiveSymbols returns all active symbols from the repository.
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	return u.repo.ListActive(ctx)
}

// SeedSymbols normalizes seed entries and upserts them. Codes are trimmed and upper-cased;
// a later entry with the same code replaces an earlier one. It returns the number written.
func SeedSymbols(ctx context.Context, seeder SymbolSeeder, symbols []entity.Symbol) (int, error) {
	index := make(map[string]int, len(symbols))
	out := make([]entity.Symbol, 0, len(symbols))
	for i, s := range symbols {
		s.Code = strings.ToUpper(strings.TrimSpace(s.Code))
		s.Name = strings.TrimSpace(s.Name)
		if s.Code == "" || s.Name == "" {
			return 0, fmt.Errorf("seed entry %d: %w", i, domain.ErrInvalidSymbol)
		}
		if j, ok := index[s.Code]; ok {
			out[j] = s
			continue
		}
		index[s.Code] = len(out)
		out = append(out, s)
	}

	if err := seeder.Upsert(ctx, out); err != nil {
		return 0, fmt.Errorf("upsert symbols: %w", err)
	}
	return len(out), nil
}
