package inventory

import (
	"context"

	"github.com/aurasoft-io/aura-pos/internal/domain/repository"
)

// TxRunner abre una transacción sobre la conexión del tenant y entrega
// repositorios atados a ella. Si fn devuelve error se hace rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(products repository.ProductRepository, movements repository.StockMovementRepository) error) error
}
