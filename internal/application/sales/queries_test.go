package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurasoft-io/aura-pos/internal/application/dto"
	"github.com/aurasoft-io/aura-pos/internal/application/sales"
	"github.com/aurasoft-io/aura-pos/internal/domain"
	"github.com/aurasoft-io/aura-pos/internal/domain/entity"
)

// seedSales procesa tres ventas válidas con el motor real para que el store
// quede en un estado consistente.
func seedSales(t *testing.T) (*store, *sales.Queries) {
	t.Helper()
	s := newStore()
	engine, _ := newEngine(s, allowAll{})
	sess := sellerSession()

	small := dto.ProcessSaleRequest{
		Subtotal: money("25.00"), Total: money("25.00"),
		Items:    []dto.SaleItemInput{{ProductID: "p1", Quantity: 1, UnitPrice: money("25.00")}},
		Payments: []dto.PaymentInput{{Method: entity.PaymentMethodCash, Amount: money("25.00")}},
	}
	for i := 0; i < 3; i++ {
		_, err := engine.ProcessSale(context.Background(), sess, small, testMeta())
		require.NoError(t, err)
	}
	return s, sales.NewQueries(&storeSaleRepo{s}, allowAll{})
}

func TestGetSale_DetalleCompleto(t *testing.T) {
	s, queries := seedSales(t)

	out, err := queries.GetSale(sellerSession(), s.sales[0].ID)
	require.NoError(t, err)
	assert.Equal(t, s.sales[0].Folio, out.Folio)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "p1", out.Items[0].ProductID)
	require.Len(t, out.Payments, 1)
	assert.True(t, out.Payments[0].Amount.Equal(money("25.00")))
}

func TestGetSale_NoExiste(t *testing.T) {
	_, queries := seedSales(t)

	_, err := queries.GetSale(sellerSession(), "ghost")
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
}

func TestGetSale_SinPermiso(t *testing.T) {
	s, _ := seedSales(t)
	queries := sales.NewQueries(&storeSaleRepo{s}, denyAll{})

	_, err := queries.GetSale(sellerSession(), s.sales[0].ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestListSales_PaginaYTotal(t *testing.T) {
	_, queries := seedSales(t)

	out, err := queries.ListSales(sellerSession(), dto.ListSalesRequest{
		PageRequest: dto.PageRequest{Page: 1, PageSize: 2},
	})
	require.NoError(t, err)
	assert.Len(t, out.Sales, 2)
	assert.Equal(t, 3, out.Meta.Total)
	assert.Equal(t, 2, out.Meta.PageSize)
	assert.Equal(t, 2, out.Meta.TotalPages)
}

func TestListSales_FiltraPorEstadoYVendedor(t *testing.T) {
	_, queries := seedSales(t)

	out, err := queries.ListSales(sellerSession(), dto.ListSalesRequest{
		State:  entity.SaleStateCompleted,
		UserID: "seller-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Meta.Total)

	out, err = queries.ListSales(sellerSession(), dto.ListSalesRequest{UserID: "otro"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Meta.Total)
}

func TestListSales_FiltraPorFechas(t *testing.T) {
	_, queries := seedSales(t)

	today := time.Now().Format("2006-01-02")
	out, err := queries.ListSales(sellerSession(), dto.ListSalesRequest{From: today, To: today})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Meta.Total, "el filtro de fechas es inclusivo en ambos extremos")

	out, err = queries.ListSales(sellerSession(), dto.ListSalesRequest{From: "2000-01-01", To: "2000-01-02"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Meta.Total)
}

func TestListSales_FiltrosInvalidos(t *testing.T) {
	_, queries := seedSales(t)

	_, err := queries.ListSales(sellerSession(), dto.ListSalesRequest{From: "15/03/2026"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = queries.ListSales(sellerSession(), dto.ListSalesRequest{State: "archived"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
