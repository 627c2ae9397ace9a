package sales_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurasoft-io/aura-pos/internal/application/auth"
	"github.com/aurasoft-io/aura-pos/internal/application/dto"
	"github.com/aurasoft-io/aura-pos/internal/application/inventory"
	"github.com/aurasoft-io/aura-pos/internal/application/sales"
	"github.com/aurasoft-io/aura-pos/internal/domain"
	"github.com/aurasoft-io/aura-pos/internal/domain/entity"
	"github.com/aurasoft-io/aura-pos/internal/domain/repository"
	"github.com/aurasoft-io/aura-pos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Store en memoria con semántica de transacción: el runner toma un snapshot
// antes de fn y lo restaura si fn falla, igual que un rollback real.
// ──────────────────────────────────────────────────────────────────────────────

type store struct {
	products  map[string]*entity.Product
	sales     []*entity.Sale
	items     []*entity.SaleItem
	payments  []*entity.Payment
	movements []*entity.StockMovement
	audits    []*entity.AuditEntry
}

func (s *store) clone() *store {
	c := &store{products: make(map[string]*entity.Product, len(s.products))}
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	c.sales = append([]*entity.Sale(nil), s.sales...)
	c.items = append([]*entity.SaleItem(nil), s.items...)
	c.payments = append([]*entity.Payment(nil), s.payments...)
	c.movements = append([]*entity.StockMovement(nil), s.movements...)
	c.audits = append([]*entity.AuditEntry(nil), s.audits...)
	return c
}

func (s *store) restore(snap *store) {
	s.products = snap.products
	s.sales = snap.sales
	s.items = snap.items
	s.payments = snap.payments
	s.movements = snap.movements
	s.audits = snap.audits
}

// ── Repositorios sobre el store ──────────────────────────────────────────────

type storeSaleRepo struct{ s *store }

func (r *storeSaleRepo) NextFolio(date time.Time) (string, error) {
	prefix := "SALE-" + date.Format("20060102") + "-"
	n := 0
	for _, sale := range r.s.sales {
		if strings.HasPrefix(sale.Folio, prefix) {
			n++
		}
	}
	return prefix + padSeq(n+1), nil
}

func padSeq(n int) string {
	out := ""
	for d := 1000; d >= 1; d /= 10 {
		out += string(rune('0' + (n/d)%10))
	}
	return out
}

func (r *storeSaleRepo) Create(sale *entity.Sale) error {
	r.s.sales = append(r.s.sales, sale)
	return nil
}

func (r *storeSaleRepo) CreateItem(item *entity.SaleItem) error {
	r.s.items = append(r.s.items, item)
	return nil
}

func (r *storeSaleRepo) CreatePayment(p *entity.Payment) error {
	r.s.payments = append(r.s.payments, p)
	return nil
}

func (r *storeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	for _, s := range r.s.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *storeSaleRepo) GetItems(saleID string) ([]*entity.SaleItem, error) {
	var out []*entity.SaleItem
	for _, it := range r.s.items {
		if it.SaleID == saleID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *storeSaleRepo) GetPayments(saleID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range r.s.payments {
		if p.SaleID == saleID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *storeSaleRepo) List(filter repository.SaleFilter, page, pageSize int) ([]*entity.Sale, int, error) {
	var matched []*entity.Sale
	for _, s := range r.s.sales {
		if filter.State != "" && s.State != filter.State {
			continue
		}
		if filter.UserID != "" && s.UserID != filter.UserID {
			continue
		}
		if filter.From != nil && s.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && s.CreatedAt.After(*filter.To) {
			continue
		}
		matched = append(matched, s)
	}
	total := len(matched)
	start := (page - 1) * pageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

type storeProductRepo struct{ s *store }

func (r *storeProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = p; return nil }

func (r *storeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *storeProductRepo) List() ([]*entity.Product, error) { return nil, nil }

func (r *storeProductRepo) GetStockForUpdate(id string) (int, error) {
	p, ok := r.s.products[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return p.Stock, nil
}

func (r *storeProductRepo) UpdateStock(id string, stock int) error {
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	return nil
}

func (r *storeProductRepo) LowStock() ([]*entity.Product, error) { return nil, nil }

// staleProductRepo simula una venta concurrente: la lectura sin lock ve un
// stock ya desactualizado, mientras que la lectura bajo lock dentro de la
// transacción ve el stock real del store.
type staleProductRepo struct {
	storeProductRepo
	seen map[string]int // stock que reporta GetByID por producto
}

func (r *staleProductRepo) GetByID(id string) (*entity.Product, error) {
	p, err := r.storeProductRepo.GetByID(id)
	if err != nil || p == nil {
		return p, err
	}
	if stock, ok := r.seen[id]; ok {
		cp := *p
		cp.Stock = stock
		return &cp, nil
	}
	return p, nil
}

type storeMovementRepo struct{ s *store }

func (r *storeMovementRepo) Create(m *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}

func (r *storeMovementRepo) ListByProduct(string, int) ([]*entity.StockMovement, error) {
	return nil, nil
}

type storeAuditRepo struct {
	s   *store
	err error // fuerza fallos de infraestructura en los tests
}

func (r *storeAuditRepo) Create(e *entity.AuditEntry) error {
	if r.err != nil {
		return r.err
	}
	r.s.audits = append(r.s.audits, e)
	return nil
}

func (r *storeAuditRepo) ListBySale(string) ([]*entity.AuditEntry, error) { return nil, nil }

// ── Runner transaccional y autorizador ───────────────────────────────────────

type storeTxRunner struct {
	s        *store
	auditErr error
	runs     int // transacciones de venta abiertas
}

func (r *storeTxRunner) RunSale(_ context.Context, fn func(
	repository.SaleRepository,
	repository.ProductRepository,
	repository.StockMovementRepository,
	repository.AuditRepository,
) error) error {
	r.runs++
	snap := r.s.clone()
	err := fn(&storeSaleRepo{r.s}, &storeProductRepo{r.s}, &storeMovementRepo{r.s}, &storeAuditRepo{s: r.s, err: r.auditErr})
	if err != nil {
		r.s.restore(snap)
	}
	return err
}

func (r *storeTxRunner) Run(_ context.Context, fn func(
	repository.ProductRepository,
	repository.StockMovementRepository,
) error) error {
	snap := r.s.clone()
	err := fn(&storeProductRepo{r.s}, &storeMovementRepo{r.s})
	if err != nil {
		r.s.restore(snap)
	}
	return err
}

type allowAll struct{}

func (allowAll) Require(auth.Session, string) error { return nil }

type denyAll struct{}

func (denyAll) Require(sess auth.Session, slug string) error {
	return &domain.UnauthorizedError{Slug: slug, Role: string(sess.Role), UserID: sess.UserID}
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newStore() *store {
	return &store{products: map[string]*entity.Product{
		"p1": {ID: "p1", Name: "Café molido", Price: money("25.00"), Stock: 10, Active: true},
		"p2": {ID: "p2", Name: "Azúcar", Price: money("10.00"), Stock: 3, Active: true},
		"p3": {ID: "p3", Name: "Descontinuado", Price: money("5.00"), Stock: 50, Active: false},
	}}
}

func newEngine(s *store, authz sales.Authorizer) (*sales.Engine, *storeTxRunner) {
	runner := &storeTxRunner{s: s}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	ledger := inventory.NewLedger(&storeProductRepo{s}, &storeMovementRepo{s}, runner, log)
	return sales.NewEngine(runner, authz, &storeProductRepo{s}, ledger, log), runner
}

func sellerSession() auth.Session {
	return auth.Session{ID: "sess-1", UserID: "seller-1", Role: entity.RoleSeller}
}

// Venta válida: 2x café (50.00) + 1x azúcar (10.00) = 60.00, pagada exacta.
func validRequest() dto.ProcessSaleRequest {
	return dto.ProcessSaleRequest{
		Subtotal: money("60.00"),
		Tax:      money("0.00"),
		Discount: money("0.00"),
		Total:    money("60.00"),
		Items: []dto.SaleItemInput{
			{ProductID: "p1", Quantity: 2, UnitPrice: money("25.00")},
			{ProductID: "p2", Quantity: 1, UnitPrice: money("10.00")},
		},
		Payments: []dto.PaymentInput{
			{Method: entity.PaymentMethodCash, Amount: money("60.00")},
		},
	}
}

func testMeta() dto.RequestMeta {
	return dto.RequestMeta{IP: "10.0.0.5", UserAgent: "pos-terminal/1.0"}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessSale_Completa(t *testing.T) {
	s := newStore()
	engine, _ := newEngine(s, allowAll{})

	out, err := engine.ProcessSale(context.Background(), sellerSession(), validRequest(), testMeta())
	require.NoError(t, err)

	today := time.Now().Format("20060102")
	assert.Equal(t, "SALE-"+today+"-0001", out.Folio, "la primera venta del día lleva secuencia 0001")
	assert.True(t, out.Total.Equal(money("60.00")))

	// Cabecera
	require.Len(t, s.sales, 1)
	sale := s.sales[0]
	assert.Equal(t, entity.SaleStateCompleted, sale.State)
	assert.Equal(t, "seller-1", sale.UserID)

	// Líneas y stock
	require.Len(t, s.items, 2)
	assert.Equal(t, 8, s.products["p1"].Stock, "2 cafés vendidos")
	assert.Equal(t, 2, s.products["p2"].Stock, "1 azúcar vendida")

	// Movimientos de salida referenciando el folio
	require.Len(t, s.movements, 2)
	for _, m := range s.movements {
		assert.Equal(t, entity.MovementTypeOut, m.Type)
		assert.Equal(t, out.Folio, m.Reference)
	}

	// Pago
	require.Len(t, s.payments, 1)
	assert.True(t, s.payments[0].Amount.Equal(money("60.00")))

	// Auditoría con snapshot completo y metadatos del request
	require.Len(t, s.audits, 1)
	audit := s.audits[0]
	assert.Equal(t, entity.AuditActionCreated, audit.Action)
	assert.Equal(t, "10.0.0.5", audit.IP)
	assert.Equal(t, "pos-terminal/1.0", audit.UserAgent)

	var snapshot struct {
		Sale     *entity.Sale       `json:"sale"`
		Items    []*entity.SaleItem `json:"items"`
		Payments []*entity.Payment  `json:"payments"`
	}
	require.NoError(t, json.Unmarshal(audit.Snapshot, &snapshot))
	assert.Equal(t, sale.ID, snapshot.Sale.ID)
	assert.Len(t, snapshot.Items, 2)
	assert.Len(t, snapshot.Payments, 1)
}

func TestProcessSale_FoliosSecuenciales(t *testing.T) {
	s := newStore()
	engine, _ := newEngine(s, allowAll{})
	sess := sellerSession()

	small := dto.ProcessSaleRequest{
		Subtotal: money("25.00"), Total: money("25.00"),
		Items:    []dto.SaleItemInput{{ProductID: "p1", Quantity: 1, UnitPrice: money("25.00")}},
		Payments: []dto.PaymentInput{{Method: entity.PaymentMethodCash, Amount: money("25.00")}},
	}

	first, err := engine.ProcessSale(context.Background(), sess, small, testMeta())
	require.NoError(t, err)
	second, err := engine.ProcessSale(context.Background(), sess, small, testMeta())
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(first.Folio, "-0001"))
	assert.True(t, strings.HasSuffix(second.Folio, "-0002"), "los folios deben ser consecutivos sin huecos")
}

func TestProcessSale_StockInsuficiente_FallaAntesDeEscribir(t *testing.T) {
	s := newStore()
	engine, runner := newEngine(s, allowAll{})

	in := validRequest()
	// p2 solo tiene 3 unidades
	in.Items[1].Quantity = 5
	in.Subtotal = money("100.00")
	in.Total = money("100.00")
	in.Payments[0].Amount = money("100.00")

	_, err := engine.ProcessSale(context.Background(), sellerSession(), in, testMeta())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var serr *domain.InsufficientStockError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "p2", serr.ProductID)
	assert.Equal(t, 3, serr.Available)
	assert.Equal(t, 5, serr.Requested)

	// El faltante era visible sin bloquear: no debe abrirse transacción ni
	// insertarse la cabecera.
	assert.Equal(t, 0, runner.runs, "el faltante evidente debe cortar antes de abrir la transacción")
	assert.Empty(t, s.sales)
	assert.Empty(t, s.items)
	assert.Empty(t, s.movements)
}

func TestProcessSale_StockInsuficienteBajoLock_RollbackTotal(t *testing.T) {
	s := newStore()
	runner := &storeTxRunner{s: s}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	// La lectura sin lock todavía ve 5 unidades de p2; otra venta ya dejó 3.
	stale := &staleProductRepo{storeProductRepo: storeProductRepo{s}, seen: map[string]int{"p2": 5}}
	ledger := inventory.NewLedger(stale, &storeMovementRepo{s}, runner, log)
	engine := sales.NewEngine(runner, allowAll{}, stale, ledger, log)

	in := validRequest()
	in.Items[1].Quantity = 5
	in.Subtotal = money("100.00")
	in.Total = money("100.00")
	in.Payments[0].Amount = money("100.00")

	_, err := engine.ProcessSale(context.Background(), sellerSession(), in, testMeta())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var serr *domain.InsufficientStockError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "p2", serr.ProductID)
	assert.Equal(t, 3, serr.Available, "bajo lock manda el stock real, no el leído sin bloquear")

	// La transacción sí se abrió y debe deshacerse entera: ni venta, ni
	// items, ni pagos, ni movimientos, y el stock de p1 (que se descontó
	// antes del fallo) debe volver a 10.
	assert.Equal(t, 1, runner.runs)
	assert.Empty(t, s.sales)
	assert.Empty(t, s.items)
	assert.Empty(t, s.payments)
	assert.Empty(t, s.movements)
	assert.Empty(t, s.audits)
	assert.Equal(t, 10, s.products["p1"].Stock, "el rollback debe restaurar el stock ya descontado")
}

func TestProcessSale_PagosNoCuadran_RollbackTotal(t *testing.T) {
	s := newStore()
	engine, _ := newEngine(s, allowAll{})

	in := validRequest()
	in.Payments[0].Amount = money("59.90") // 0.10 de diferencia, fuera de tolerancia

	_, err := engine.ProcessSale(context.Background(), sellerSession(), in, testMeta())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPaymentMismatch)

	var perr *domain.PaymentMismatchError
	require.True(t, errors.As(err, &perr))
	assert.True(t, perr.Expected.Equal(money("60.00")))
	assert.True(t, perr.Paid.Equal(money("59.90")))

	assert.Empty(t, s.sales)
	assert.Equal(t, 10, s.products["p1"].Stock)
}

func TestProcessSale_ToleranciaDeCentavo(t *testing.T) {
	s := newStore()
	engine, _ := newEngine(s, allowAll{})

	in := validRequest()
	in.Payments[0].Amount = money("60.01") // dentro de la tolerancia 0.01

	_, err := engine.ProcessSale(context.Background(), sellerSession(), in, testMeta())
	assert.NoError(t, err, "una diferencia de exactamente 0.01 debe aceptarse")
}

func TestProcessSale_PagosMixtos(t *testing.T) {
	s := newStore()
	engine, _ := newEngine(s, allowAll{})

	in := validRequest()
	in.Payments = []dto.PaymentInput{
		{Method: entity.PaymentMethodCash, Amount: money("20.00")},
		{Method: entity.PaymentMethodCard, Amount: money("40.00"), Reference: "AUTH-9921"},
	}

	_, err := engine.ProcessSale(context.Background(), sellerSession(), in, testMeta())
	require.NoError(t, err)
	assert.Len(t, s.payments, 2, "una venta admite varios pagos que suman el total")
}

func TestProcessSale_SinPermiso(t *testing.T) {
	s := newStore()
	engine, _ := newEngine(s, denyAll{})

	_, err := engine.ProcessSale(context.Background(), sellerSession(), validRequest(), testMeta())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, s.sales, "sin permiso no debe tocarse la base")
}

func TestProcessSale_Validaciones(t *testing.T) {
	engine, _ := newEngine(newStore(), allowAll{})
	sess := sellerSession()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*dto.ProcessSaleRequest)
	}{
		{"sin items", func(in *dto.ProcessSaleRequest) { in.Items = nil }},
		{"sin pagos", func(in *dto.ProcessSaleRequest) { in.Payments = nil }},
		{"total cero", func(in *dto.ProcessSaleRequest) {
			in.Total = money("0")
			in.Subtotal = money("0")
			in.Payments[0].Amount = money("0.001")
		}},
		{"cantidad cero", func(in *dto.ProcessSaleRequest) { in.Items[0].Quantity = 0 }},
		{"precio negativo", func(in *dto.ProcessSaleRequest) { in.Items[0].UnitPrice = money("-1") }},
		{"método desconocido", func(in *dto.ProcessSaleRequest) { in.Payments[0].Method = "crypto" }},
		{"monto de pago cero", func(in *dto.ProcessSaleRequest) { in.Payments[0].Amount = money("0") }},
		{"total inconsistente", func(in *dto.ProcessSaleRequest) { in.Total = money("75.00") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validRequest()
			tc.mutate(&in)
			_, err := engine.ProcessSale(ctx, sess, in, testMeta())
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestProcessSale_ProductoInactivo(t *testing.T) {
	s := newStore()
	engine, _ := newEngine(s, allowAll{})

	in := dto.ProcessSaleRequest{
		Subtotal: money("5.00"), Total: money("5.00"),
		Items:    []dto.SaleItemInput{{ProductID: "p3", Quantity: 1, UnitPrice: money("5.00")}},
		Payments: []dto.PaymentInput{{Method: entity.PaymentMethodCash, Amount: money("5.00")}},
	}

	_, err := engine.ProcessSale(context.Background(), sellerSession(), in, testMeta())
	assert.ErrorIs(t, err, domain.ErrValidation, "un producto inactivo no es vendible")
	assert.Empty(t, s.sales)
}

func TestProcessSale_FalloDeInfraestructura_SeEnmascara(t *testing.T) {
	s := newStore()
	runner := &storeTxRunner{s: s, auditErr: errors.New("disco lleno")}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	ledger := inventory.NewLedger(&storeProductRepo{s}, &storeMovementRepo{s}, runner, log)
	engine := sales.NewEngine(runner, allowAll{}, &storeProductRepo{s}, ledger, log)

	_, err := engine.ProcessSale(context.Background(), sellerSession(), validRequest(), testMeta())
	require.Error(t, err)

	var perr *domain.SaleProcessingError
	require.True(t, errors.As(err, &perr), "los fallos de infraestructura se envuelven")
	assert.Equal(t, "error al procesar la venta", err.Error(),
		"el mensaje hacia el caller debe ser genérico")
	assert.ErrorContains(t, perr.Unwrap(), "disco lleno",
		"la causa real queda disponible para los logs")

	assert.Empty(t, s.sales, "el fallo al auditar debe deshacer la venta completa")
	assert.Equal(t, 10, s.products["p1"].Stock)
}
