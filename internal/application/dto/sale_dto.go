package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemInput línea de venta en la petición.
type SaleItemInput struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PaymentInput pago aplicado a la venta.
type PaymentInput struct {
	Method    string          `json:"method" validate:"required,oneof=cash card transfer check"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference"`
}

// ProcessSaleRequest entrada para procesar una venta completa.
type ProcessSaleRequest struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
	Notes    string          `json:"notes"`
	Items    []SaleItemInput `json:"items" validate:"required,min=1"`
	Payments []PaymentInput  `json:"payments" validate:"required,min=1"`
}

// ProcessSaleResponse confirmación de venta procesada.
type ProcessSaleResponse struct {
	SaleID string          `json:"sale_id"`
	Folio  string          `json:"folio"`
	Total  decimal.Decimal `json:"total"`
}

// SaleItemResponse línea de venta en respuestas.
type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PaymentResponse pago en respuestas.
type PaymentResponse struct {
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty"`
}

// SaleResponse cabecera de venta.
type SaleResponse struct {
	ID        string          `json:"id"`
	Folio     string          `json:"folio"`
	UserID    string          `json:"user_id"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
	State     string          `json:"state"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// SaleDetailResponse venta con líneas y pagos.
type SaleDetailResponse struct {
	SaleResponse
	Items    []SaleItemResponse `json:"items"`
	Payments []PaymentResponse  `json:"payments"`
}

// ListSalesRequest filtros de listado de ventas.
type ListSalesRequest struct {
	PageRequest
	From   string `query:"from"`    // YYYY-MM-DD
	To     string `query:"to"`      // YYYY-MM-DD
	State  string `query:"state"`   // completed | cancelled | pending
	UserID string `query:"user_id"` // vendedor
}

// ListSalesResponse página de ventas.
type ListSalesResponse struct {
	Sales []SaleResponse `json:"sales"`
	Meta  PageResponse   `json:"meta"`
}
