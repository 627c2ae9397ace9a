package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product es un producto del catálogo del tenant. El stock se muta
// únicamente a través del ledger de inventario.
type Product struct {
	ID          string
	Code        string // código/SKU único dentro del tenant
	Name        string
	Description string
	Price       decimal.Decimal
	Cost        decimal.Decimal
	Stock       int // unidades enteras, nunca negativo
	MinStock    int // umbral de stock bajo
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
