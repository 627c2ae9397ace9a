package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados persistidos de una venta. En memoria la venta pasa por
// borrador → validación, pero solo COMPLETED (o nada, por rollback total)
// es observable tras ProcessSale.
const (
	SaleStateCompleted = "completed"
	SaleStateCancelled = "cancelled"
	SaleStatePending   = "pending"
)

// Métodos de pago admitidos (conjunto cerrado).
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
	PaymentMethodCheck    = "check"
)

// ValidPaymentMethod indica si el método pertenece al conjunto cerrado.
func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodCheck:
		return true
	}
	return false
}

// Sale es la cabecera de una venta. El folio es único por tenant y ordenable
// cronológicamente (SALE-YYYYMMDD-NNNN). Inmutable una vez completada, salvo
// cancelación explícita.
type Sale struct {
	ID        string
	Folio     string
	UserID    string // vendedor que registró la venta
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal // subtotal + tax - discount
	State     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaleItem es una línea de venta: producto, cantidad positiva, precio
// unitario no negativo y subtotal calculado.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// Payment es un pago aplicado a una venta. La suma de pagos debe igualar el
// total de la venta dentro de la tolerancia de redondeo antes del commit.
type Payment struct {
	ID        string
	SaleID    string
	Method    string // cash, card, transfer, check
	Amount    decimal.Decimal
	Reference string
	CreatedAt time.Time
}
