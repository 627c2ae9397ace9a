package repository

import "github.com/aurasoft-io/aura-pos/internal/domain/entity"

// StockMovementRepository puerto del historial de movimientos de stock.
// Los movimientos son append-only: no hay update ni delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByProduct(productID string, limit int) ([]*entity.StockMovement, error)
}
