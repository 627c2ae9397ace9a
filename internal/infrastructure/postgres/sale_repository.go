package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aurasoft-io/aura-pos/internal/domain/entity"
	"github.com/aurasoft-io/aura-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre el esquema del tenant
// activo (usable con conexión ligada o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar conexión ligada o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// NextFolio calcula el siguiente folio del día dentro de la transacción
// actual. REPEATABLE READ no serializa dos transacciones que leen el mismo
// "máximo de hoy", así que primero se toma un advisory lock transaccional
// por esquema y día: el segundo vendedor concurrente espera a que el primero
// haga commit y ve su folio.
func (r *SaleRepo) NextFolio(date time.Time) (string, error) {
	ctx := context.Background()
	day := date.Format("20060102")
	_, err := r.q.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext('sale_folio:' || current_schema() || ':' || $1))`, day)
	if err != nil {
		return "", fmt.Errorf("lock de folio: %w", err)
	}

	// El máximo se toma sobre el sufijo numérico; el orden lexicográfico
	// dejaría de servir cuando el sufijo pasa de 4 dígitos.
	prefix := folioPrefix(date)
	var last int
	err = r.q.QueryRow(ctx, `
		SELECT COALESCE(MAX(substring(folio FROM $2::int)::int), 0)
		FROM sales
		WHERE folio LIKE $1 || '%'`, prefix, len(prefix)+1).Scan(&last)
	if err != nil {
		return "", fmt.Errorf("último folio del día: %w", err)
	}
	return formatFolio(date, last+1), nil
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, folio, user_id, subtotal, tax, discount, total, state, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.Folio, sale.UserID, sale.Subtotal, sale.Tax, sale.Discount,
		sale.Total, sale.State, sale.Notes, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de venta.
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// CreatePayment persiste un pago de la venta.
func (r *SaleRepo) CreatePayment(payment *entity.Payment) error {
	query := `
		INSERT INTO sale_payments (id, sale_id, method, amount, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.SaleID, payment.Method, payment.Amount, payment.Reference, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

const saleColumns = `id, folio, user_id, subtotal, tax, discount, total, state, notes, created_at, updated_at`

// GetByID obtiene la cabecera de una venta. Devuelve nil si no existe.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(context.Background(),
		`SELECT `+saleColumns+` FROM sales WHERE id = $1`, id).Scan(
		&s.ID, &s.Folio, &s.UserID, &s.Subtotal, &s.Tax, &s.Discount,
		&s.Total, &s.State, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// GetItems devuelve las líneas de una venta en orden de inserción.
func (r *SaleRepo) GetItems(saleID string) ([]*entity.SaleItem, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, sale_id, product_id, quantity, unit_price, subtotal
		FROM sale_items WHERE sale_id = $1 ORDER BY id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()
	var items []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// GetPayments devuelve los pagos de una venta en orden cronológico.
func (r *SaleRepo) GetPayments(saleID string) ([]*entity.Payment, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, sale_id, method, amount, reference, created_at
		FROM sale_payments WHERE sale_id = $1 ORDER BY created_at ASC`, saleID)
	if err != nil {
		return nil, fmt.Errorf("get payments: %w", err)
	}
	defer rows.Close()
	var payments []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Method, &p.Amount, &p.Reference, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

// List devuelve una página de ventas según los filtros y el total de
// registros que cumplen el filtro.
func (r *SaleRepo) List(filter repository.SaleFilter, page, pageSize int) ([]*entity.Sale, int, error) {
	where := ""
	args := []any{}
	pos := 1
	appendCond := func(cond string, value any) {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(cond, pos)
		args = append(args, value)
		pos++
	}
	if filter.From != nil {
		appendCond("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		appendCond("created_at <= $%d", *filter.To)
	}
	if filter.State != "" {
		appendCond("state = $%d", filter.State)
	}
	if filter.UserID != "" {
		appendCond("user_id = $%d", filter.UserID)
	}

	ctx := context.Background()
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	query := `SELECT ` + saleColumns + ` FROM sales` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var sales []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.Folio, &s.UserID, &s.Subtotal, &s.Tax, &s.Discount,
			&s.Total, &s.State, &s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, &s)
	}
	return sales, total, rows.Err()
}
