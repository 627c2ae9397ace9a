package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIn     = "in"     // entrada (reposición)
	MovementTypeOut    = "out"    // salida (venta)
	MovementTypeAdjust = "adjust" // ajuste manual
)

// StockMovement es un registro de auditoría append-only de un cambio de
// stock: nunca se modifica ni se borra. Invariante: StockAfter ==
// StockBefore + delta con signo según el tipo.
type StockMovement struct {
	ID          string
	ProductID   string
	Type        string // in, out, adjust
	Quantity    int    // magnitud del movimiento, siempre positiva
	StockBefore int
	StockAfter  int
	Reference   string // folio de venta, orden de compra, nota de ajuste
	UserID      string // usuario que ejecutó la operación
	CreatedAt   time.Time
}
