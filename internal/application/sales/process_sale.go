package sales

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aurasoft-io/aura-pos/internal/application/auth"
	"github.com/aurasoft-io/aura-pos/internal/application/dto"
	"github.com/aurasoft-io/aura-pos/internal/application/inventory"
	"github.com/aurasoft-io/aura-pos/internal/domain"
	"github.com/aurasoft-io/aura-pos/internal/domain/entity"
	"github.com/aurasoft-io/aura-pos/internal/domain/repository"
	"github.com/aurasoft-io/aura-pos/pkg/logger"
)

// reconcileTolerance absorbe redondeos de centavo entre la suma de pagos y
// el total de la venta.
var reconcileTolerance = decimal.NewFromFloat(0.01)

// Engine procesa ventas de forma atómica: folio, cabecera, líneas,
// descuento de stock, pagos, conciliación y auditoría ocurren en una sola
// transacción. Si cualquier paso falla no queda ningún efecto observable.
type Engine struct {
	tx       TxRunner
	authz    Authorizer
	products repository.ProductRepository
	stock    StockChecker
	log      *logger.Logger
}

// NewEngine construye el motor de ventas sobre el tenant activo.
func NewEngine(tx TxRunner, authz Authorizer, products repository.ProductRepository, stock StockChecker, log *logger.Logger) *Engine {
	return &Engine{tx: tx, authz: authz, products: products, stock: stock, log: log}
}

// ProcessSale valida, autoriza y ejecuta la venta completa.
func (e *Engine) ProcessSale(ctx context.Context, sess auth.Session, in dto.ProcessSaleRequest, meta dto.RequestMeta) (*dto.ProcessSaleResponse, error) {
	if err := e.authz.Require(sess, "sales.create"); err != nil {
		return nil, err
	}
	if err := validateSale(in); err != nil {
		return nil, err
	}

	// Fail-fast sin abrir la transacción: producto existe, está activo y el
	// stock visible alcanza. Es una lectura sin lock; la decisión
	// autoritativa sobre el stock vuelve a tomarse con la fila bloqueada
	// dentro de la transacción.
	for _, it := range in.Items {
		p, err := e.products.GetByID(it.ProductID)
		if err != nil {
			return nil, e.classify(err, sess)
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
		}
		if !p.Active {
			return nil, fmt.Errorf("producto %s inactivo: %w", p.ID, domain.ErrValidation)
		}
		ok, err := e.stock.HasAvailable(it.ProductID, it.Quantity)
		if err != nil {
			return nil, e.classify(err, sess)
		}
		if !ok {
			return nil, &domain.InsufficientStockError{ProductID: p.ID, Available: p.Stock, Requested: it.Quantity}
		}
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:        uuid.NewString(),
		UserID:    sess.UserID,
		Subtotal:  in.Subtotal,
		Tax:       in.Tax,
		Discount:  in.Discount,
		Total:     in.Total,
		State:     entity.SaleStateCompleted,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := e.tx.RunSale(ctx, func(
		salesRepo repository.SaleRepository,
		products repository.ProductRepository,
		movements repository.StockMovementRepository,
		audit repository.AuditRepository,
	) error {
		folio, err := salesRepo.NextFolio(now)
		if err != nil {
			return err
		}
		sale.Folio = folio

		if err := salesRepo.Create(sale); err != nil {
			return err
		}

		items := make([]*entity.SaleItem, 0, len(in.Items))
		for _, it := range in.Items {
			item := &entity.SaleItem{
				ID:        uuid.NewString(),
				SaleID:    sale.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				Subtotal:  it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))),
			}
			if err := salesRepo.CreateItem(item); err != nil {
				return err
			}
			if err := inventory.DecrementInTx(products, movements, it.ProductID, it.Quantity, folio, sess.UserID); err != nil {
				return err
			}
			items = append(items, item)
		}

		payments := make([]*entity.Payment, 0, len(in.Payments))
		paid := decimal.Zero
		for _, p := range in.Payments {
			payment := &entity.Payment{
				ID:        uuid.NewString(),
				SaleID:    sale.ID,
				Method:    p.Method,
				Amount:    p.Amount,
				Reference: p.Reference,
				CreatedAt: now,
			}
			if err := salesRepo.CreatePayment(payment); err != nil {
				return err
			}
			paid = paid.Add(p.Amount)
			payments = append(payments, payment)
		}

		// Conciliación: la suma de pagos debe igualar el total dentro de
		// la tolerancia. Se verifica al final para que el rollback cubra
		// todo lo insertado.
		if paid.Sub(sale.Total).Abs().GreaterThan(reconcileTolerance) {
			return &domain.PaymentMismatchError{Expected: sale.Total, Paid: paid}
		}

		snapshot, err := json.Marshal(struct {
			Sale     *entity.Sale       `json:"sale"`
			Items    []*entity.SaleItem `json:"items"`
			Payments []*entity.Payment  `json:"payments"`
		}{sale, items, payments})
		if err != nil {
			return err
		}
		return audit.Create(&entity.AuditEntry{
			SaleID:    sale.ID,
			UserID:    sess.UserID,
			Action:    entity.AuditActionCreated,
			Snapshot:  snapshot,
			IP:        meta.IP,
			UserAgent: meta.UserAgent,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, e.classify(err, sess)
	}

	e.log.Info().
		Str("sale_id", sale.ID).
		Str("folio", sale.Folio).
		Str("user_id", sess.UserID).
		Str("total", sale.Total.StringFixed(2)).
		Msg("venta procesada")
	return &dto.ProcessSaleResponse{SaleID: sale.ID, Folio: sale.Folio, Total: sale.Total}, nil
}

// classify deja pasar los errores de negocio tal cual y envuelve el resto
// (fallas de infraestructura) en un error genérico, registrando la causa
// real solo en el log del servidor.
func (e *Engine) classify(err error, sess auth.Session) error {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrPaymentMismatch),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUnauthorized):
		return err
	}
	e.log.Error().Err(err).Str("user_id", sess.UserID).Msg("fallo de infraestructura procesando venta")
	return &domain.SaleProcessingError{Cause: err}
}

// validateSale aplica las reglas estructurales previas a la transacción.
func validateSale(in dto.ProcessSaleRequest) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("la venta requiere al menos un item: %w", domain.ErrValidation)
	}
	if len(in.Payments) == 0 {
		return fmt.Errorf("la venta requiere al menos un pago: %w", domain.ErrValidation)
	}
	if !in.Total.IsPositive() {
		return fmt.Errorf("el total debe ser mayor que cero: %w", domain.ErrValidation)
	}
	expected := in.Subtotal.Add(in.Tax).Sub(in.Discount)
	if expected.Sub(in.Total).Abs().GreaterThan(reconcileTolerance) {
		return fmt.Errorf("total inconsistente con subtotal+impuesto-descuento: %w", domain.ErrValidation)
	}
	for _, it := range in.Items {
		if it.ProductID == "" {
			return fmt.Errorf("item sin producto: %w", domain.ErrValidation)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("cantidad inválida para producto %s: %w", it.ProductID, domain.ErrValidation)
		}
		if it.UnitPrice.IsNegative() {
			return fmt.Errorf("precio unitario negativo para producto %s: %w", it.ProductID, domain.ErrValidation)
		}
	}
	for _, p := range in.Payments {
		if !entity.ValidPaymentMethod(p.Method) {
			return fmt.Errorf("método de pago desconocido %q: %w", p.Method, domain.ErrValidation)
		}
		if !p.Amount.IsPositive() {
			return fmt.Errorf("monto de pago inválido: %w", domain.ErrValidation)
		}
	}
	return nil
}
