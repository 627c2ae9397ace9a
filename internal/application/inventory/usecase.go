package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aurasoft-io/aura-pos/internal/domain"
	"github.com/aurasoft-io/aura-pos/internal/domain/entity"
	"github.com/aurasoft-io/aura-pos/internal/domain/repository"
	"github.com/aurasoft-io/aura-pos/pkg/logger"
)

// Ledger es la única vía de mutación de stock. Cada cambio bloquea la fila
// del producto, valida contra el stock autoritativo y deja un movimiento
// con el antes y el después.
type Ledger struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	tx        TxRunner
	log       *logger.Logger
}

// NewLedger construye el ledger sobre los repositorios del tenant activo.
func NewLedger(products repository.ProductRepository, movements repository.StockMovementRepository, tx TxRunner, log *logger.Logger) *Ledger {
	return &Ledger{products: products, movements: movements, tx: tx, log: log}
}

// HasAvailable consulta sin bloquear si hay stock suficiente. Es solo una
// pre-verificación; la verdad se decide bajo lock dentro de la transacción.
func (l *Ledger) HasAvailable(productID string, quantity int) (bool, error) {
	p, err := l.products.GetByID(productID)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	if !p.Active {
		return false, nil
	}
	return p.Stock >= quantity, nil
}

// DecrementInTx descuenta stock dentro de una transacción ya abierta: relee
// el stock con la fila bloqueada, valida y escribe el nuevo valor junto con
// el movimiento de salida.
func DecrementInTx(products repository.ProductRepository, movements repository.StockMovementRepository, productID string, quantity int, reference, userID string) error {
	if quantity <= 0 {
		return domain.ErrValidation
	}
	stock, err := products.GetStockForUpdate(productID)
	if err != nil {
		return err
	}
	if stock < quantity {
		return &domain.InsufficientStockError{ProductID: productID, Available: stock, Requested: quantity}
	}
	after := stock - quantity
	if err := products.UpdateStock(productID, after); err != nil {
		return err
	}
	return movements.Create(&entity.StockMovement{
		ID:          uuid.NewString(),
		ProductID:   productID,
		Type:        entity.MovementTypeOut,
		Quantity:    quantity,
		StockBefore: stock,
		StockAfter:  after,
		Reference:   reference,
		UserID:      userID,
		CreatedAt:   time.Now(),
	})
}

// IncrementInTx suma stock dentro de una transacción ya abierta y registra
// el movimiento de entrada.
func IncrementInTx(products repository.ProductRepository, movements repository.StockMovementRepository, productID string, quantity int, reference, userID string) error {
	if quantity <= 0 {
		return domain.ErrValidation
	}
	stock, err := products.GetStockForUpdate(productID)
	if err != nil {
		return err
	}
	after := stock + quantity
	if err := products.UpdateStock(productID, after); err != nil {
		return err
	}
	return movements.Create(&entity.StockMovement{
		ID:          uuid.NewString(),
		ProductID:   productID,
		Type:        entity.MovementTypeIn,
		Quantity:    quantity,
		StockBefore: stock,
		StockAfter:  after,
		Reference:   reference,
		UserID:      userID,
		CreatedAt:   time.Now(),
	})
}

// Increment repone stock de un producto en su propia transacción.
func (l *Ledger) Increment(ctx context.Context, productID string, quantity int, reference, userID string) error {
	err := l.tx.Run(ctx, func(products repository.ProductRepository, movements repository.StockMovementRepository) error {
		return IncrementInTx(products, movements, productID, quantity, reference, userID)
	})
	if err != nil {
		return err
	}
	l.log.Info().Str("product_id", productID).Int("quantity", quantity).Str("user_id", userID).Msg("reposición de stock")
	return nil
}

// MovementsFor devuelve los últimos movimientos de un producto.
func (l *Ledger) MovementsFor(productID string, limit int) ([]*entity.StockMovement, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return l.movements.ListByProduct(productID, limit)
}

// LowStock devuelve los productos activos en o bajo su stock mínimo.
func (l *Ledger) LowStock() ([]*entity.Product, error) {
	return l.products.LowStock()
}
