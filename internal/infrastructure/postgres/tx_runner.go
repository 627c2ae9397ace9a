package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aurasoft-io/aura-pos/internal/domain/repository"
)

// TxRunner ejecuta callbacks dentro de una transacción sobre la conexión
// ligada al tenant del request. El nivel de aislamiento es REPEATABLE READ:
// el proceso de venta es multi-paso y no tolera lecturas no repetibles.
type TxRunner struct {
	tc *TenantConn
}

// NewTxRunner construye el runner sobre la conexión de tenant del request.
func NewTxRunner(tc *TenantConn) *TxRunner {
	return &TxRunner{tc: tc}
}

func (r *TxRunner) begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.tc.conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return tx, nil
}

// RunSale inicia la transacción de venta, ejecuta fn con repos atados a la
// tx y hace Commit o Rollback. Cualquier error de fn revierte todo lo
// escrito: nunca queda una venta parcial visible.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	auditRepo repository.AuditRepository,
) error) error {
	tx, err := r.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewSaleRepository(tx),
		NewProductRepository(tx),
		NewStockMovementRepository(tx),
		NewAuditRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run inicia una transacción con los repos de inventario (reposición y
// ajustes de stock fuera de una venta).
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewProductRepository(tx), NewStockMovementRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
