package repository

import (
	"time"

	"github.com/aurasoft-io/aura-pos/internal/domain/entity"
)

// SaleFilter filtros opcionales para el listado de ventas.
type SaleFilter struct {
	From   *time.Time
	To     *time.Time
	State  string
	UserID string
}

// SaleRepository puerto de persistencia de ventas, items y pagos.
type SaleRepository interface {
	// NextFolio calcula el siguiente folio del día (SALE-YYYYMMDD-NNNN).
	// Debe llamarse dentro de la misma transacción que inserta la venta;
	// la implementación serializa el cálculo por tenant y día.
	NextFolio(date time.Time) (string, error)
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	CreatePayment(payment *entity.Payment) error
	GetByID(id string) (*entity.Sale, error)
	GetItems(saleID string) ([]*entity.SaleItem, error)
	GetPayments(saleID string) ([]*entity.Payment, error)
	// List devuelve la página solicitada y el total de registros que
	// cumplen el filtro.
	List(filter SaleFilter, page, pageSize int) ([]*entity.Sale, int, error)
}
