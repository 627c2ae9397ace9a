package sales

import (
	"errors"
	"fmt"
	"time"

	"github.com/aurasoft-io/aura-pos/internal/application/auth"
	"github.com/aurasoft-io/aura-pos/internal/application/dto"
	"github.com/aurasoft-io/aura-pos/internal/domain"
	"github.com/aurasoft-io/aura-pos/internal/domain/entity"
	"github.com/aurasoft-io/aura-pos/internal/domain/repository"
)

// Queries consultas de lectura sobre ventas; requieren el permiso "sales.list".
type Queries struct {
	sales repository.SaleRepository
	authz Authorizer
}

// NewQueries construye las consultas sobre el tenant activo.
func NewQueries(sales repository.SaleRepository, authz Authorizer) *Queries {
	return &Queries{sales: sales, authz: authz}
}

// GetSale devuelve la venta con sus líneas y pagos.
func (q *Queries) GetSale(sess auth.Session, saleID string) (*dto.SaleDetailResponse, error) {
	if err := q.authz.Require(sess, "sales.list"); err != nil {
		return nil, err
	}
	sale, err := q.sales.GetByID(saleID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if sale == nil || err != nil {
		return nil, domain.ErrSaleNotFound
	}
	items, err := q.sales.GetItems(saleID)
	if err != nil {
		return nil, err
	}
	payments, err := q.sales.GetPayments(saleID)
	if err != nil {
		return nil, err
	}

	out := &dto.SaleDetailResponse{SaleResponse: toSaleResponse(sale)}
	for _, it := range items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	for _, p := range payments {
		out.Payments = append(out.Payments, dto.PaymentResponse{
			Method:    p.Method,
			Amount:    p.Amount,
			Reference: p.Reference,
		})
	}
	return out, nil
}

// ListSales devuelve una página de ventas según los filtros.
func (q *Queries) ListSales(sess auth.Session, in dto.ListSalesRequest) (*dto.ListSalesResponse, error) {
	if err := q.authz.Require(sess, "sales.list"); err != nil {
		return nil, err
	}
	in.DefaultPage()

	filter, err := buildFilter(in)
	if err != nil {
		return nil, err
	}
	sales, total, err := q.sales.List(filter, in.Page, in.PageSize)
	if err != nil {
		return nil, err
	}

	out := &dto.ListSalesResponse{
		Sales: make([]dto.SaleResponse, 0, len(sales)),
		Meta: dto.PageResponse{
			Page:       in.Page,
			PageSize:   in.PageSize,
			Total:      total,
			TotalPages: (total + in.PageSize - 1) / in.PageSize,
		},
	}
	for _, s := range sales {
		out.Sales = append(out.Sales, toSaleResponse(s))
	}
	return out, nil
}

func buildFilter(in dto.ListSalesRequest) (repository.SaleFilter, error) {
	var f repository.SaleFilter
	if in.From != "" {
		t, err := time.Parse("2006-01-02", in.From)
		if err != nil {
			return f, fmt.Errorf("fecha 'from' inválida: %w", domain.ErrValidation)
		}
		f.From = &t
	}
	if in.To != "" {
		t, err := time.Parse("2006-01-02", in.To)
		if err != nil {
			return f, fmt.Errorf("fecha 'to' inválida: %w", domain.ErrValidation)
		}
		// El filtro es inclusivo hasta el final del día.
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.To = &end
	}
	if in.State != "" {
		switch in.State {
		case entity.SaleStateCompleted, entity.SaleStateCancelled, entity.SaleStatePending:
			f.State = in.State
		default:
			return f, fmt.Errorf("estado de venta desconocido %q: %w", in.State, domain.ErrValidation)
		}
	}
	f.UserID = in.UserID
	return f, nil
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	return dto.SaleResponse{
		ID:        s.ID,
		Folio:     s.Folio,
		UserID:    s.UserID,
		Subtotal:  s.Subtotal,
		Tax:       s.Tax,
		Discount:  s.Discount,
		Total:     s.Total,
		State:     s.State,
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt,
	}
}
