package repository

import "github.com/aurasoft-io/aura-pos/internal/domain/entity"

// ProductRepository puerto de persistencia de productos del tenant activo.
// El stock se muta únicamente a través del ledger de inventario, que usa
// GetStockForUpdate + UpdateStock dentro de una transacción.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	List() ([]*entity.Product, error)
	// GetStockForUpdate lee el stock autoritativo bloqueando la fila
	// (SELECT FOR UPDATE). Debe llamarse dentro de una transacción abierta.
	GetStockForUpdate(id string) (int, error)
	UpdateStock(id string, stock int) error
	// LowStock devuelve productos activos con stock <= stock mínimo.
	LowStock() ([]*entity.Product, error)
}
