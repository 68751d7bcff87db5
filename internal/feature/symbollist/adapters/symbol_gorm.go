// Package adapters provides the repository implementations of the symbollist feature.
package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_explorer/internal/feature/symbollist/domain/entity"
	"stock_explorer/internal/feature/symbollist/usecase"
)

// symbolRepository is the gorm implementation of SymbolRepository and SymbolSeeder.
// It works with any gorm dialect (sqlite, postgres).
type symbolRepository struct {
	db *gorm.DB
}

var (
	_ usecase.SymbolRepository = (*symbolRepository)(nil)
	_ usecase.SymbolSeeder     = (*symbolRepository)(nil)
)

// NewSymbolRepository creates a symbolRepository on the given connection.
func NewSymbolRepository(db *gorm.DB) *symbolRepository {
	return &symbolRepository{db: db}
}

// ListActive returns all active symbols ordered by sort_key.
func (r *symbolRepository) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	var symbols []entity.Symbol
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Order("code ASC").
		Find(&symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

// Upsert inserts symbols or updates the existing rows with the same code.
func (r *symbolRepository) Upsert(ctx context.Context, symbols []entity.Symbol) error {
	if len(symbols) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "market", "is_active", "sort_key", "updated_at"}),
		}).
		Create(&symbols).Error
}
