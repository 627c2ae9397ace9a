package sales

import (
	"context"

	"github.com/aurasoft-io/aura-pos/internal/application/auth"
	"github.com/aurasoft-io/aura-pos/internal/domain/repository"
)

// TxRunner abre la transacción de venta (REPEATABLE READ) sobre la conexión
// del tenant y entrega los repositorios atados a ella. El commit solo ocurre
// si fn devuelve nil; cualquier error deshace todo.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		sales repository.SaleRepository,
		products repository.ProductRepository,
		movements repository.StockMovementRepository,
		audit repository.AuditRepository,
	) error) error
}

// Authorizer decide si una sesión tiene un permiso. Lo implementa el
// PermissionResolver de auth.
type Authorizer interface {
	Require(sess auth.Session, slug string) error
}

// StockChecker responde, sin bloquear filas, si un producto puede cubrir una
// cantidad. Lo implementa el Ledger de inventario.
type StockChecker interface {
	HasAvailable(productID string, quantity int) (bool, error)
}
