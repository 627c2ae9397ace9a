package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aurasoft-io/aura-pos/internal/application/auth"
	"github.com/aurasoft-io/aura-pos/internal/application/dto"
	"github.com/aurasoft-io/aura-pos/internal/application/inventory"
	"github.com/aurasoft-io/aura-pos/internal/application/sales"
	"github.com/aurasoft-io/aura-pos/internal/domain"
	"github.com/aurasoft-io/aura-pos/internal/domain/entity"
	"github.com/aurasoft-io/aura-pos/internal/infrastructure/pdf"
	"github.com/aurasoft-io/aura-pos/internal/infrastructure/postgres"
	"github.com/aurasoft-io/aura-pos/pkg/logger"
)

// SaleHandler maneja procesamiento y consulta de ventas. Los repositorios se
// construyen por petición sobre la conexión del tenant; el caché de permisos
// es compartido entre peticiones.
type SaleHandler struct {
	cache   *auth.SessionPermissionCache
	receipt *pdf.ReceiptGenerator
	log     *logger.Logger
}

// NewSaleHandler construye el handler de ventas.
func NewSaleHandler(cache *auth.SessionPermissionCache, receipt *pdf.ReceiptGenerator, log *logger.Logger) *SaleHandler {
	return &SaleHandler{cache: cache, receipt: receipt, log: log}
}

func (h *SaleHandler) resolver(tc *postgres.TenantConn) *auth.PermissionResolver {
	return auth.NewPermissionResolver(postgres.NewPermissionRepository(tc.Querier()), h.cache, h.log)
}

// ProcessSale procesa una venta completa de forma atómica.
func (h *SaleHandler) ProcessSale(c *fiber.Ctx) error {
	var in dto.ProcessSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	tc := GetTenantConn(c)
	tx := postgres.NewTxRunner(tc)
	products := postgres.NewProductRepository(tc.Querier())
	ledger := inventory.NewLedger(products, postgres.NewStockMovementRepository(tc.Querier()), tx, h.log)
	engine := sales.NewEngine(tx, h.resolver(tc), products, ledger, h.log)

	meta := dto.RequestMeta{IP: c.IP(), UserAgent: c.Get("User-Agent")}
	out, err := engine.ProcessSale(c.Context(), GetSession(c), in, meta)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetSale devuelve una venta con sus líneas y pagos.
func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	tc := GetTenantConn(c)
	queries := sales.NewQueries(postgres.NewSaleRepository(tc.Querier()), h.resolver(tc))

	out, err := queries.GetSale(GetSession(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListSales devuelve una página de ventas según filtros de query string.
func (h *SaleHandler) ListSales(c *fiber.Ctx) error {
	var in dto.ListSalesRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}

	tc := GetTenantConn(c)
	queries := sales.NewQueries(postgres.NewSaleRepository(tc.Querier()), h.resolver(tc))

	out, err := queries.ListSales(GetSession(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetReceipt genera el ticket PDF de una venta.
func (h *SaleHandler) GetReceipt(c *fiber.Ctx) error {
	tc := GetTenantConn(c)
	saleRepo := postgres.NewSaleRepository(tc.Querier())
	queries := sales.NewQueries(saleRepo, h.resolver(tc))

	detail, err := queries.GetSale(GetSession(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	sale, err := saleRepo.GetByID(detail.ID)
	if err != nil {
		return respondError(c, err)
	}
	if sale == nil {
		return respondError(c, domain.ErrSaleNotFound)
	}
	payments, err := saleRepo.GetPayments(detail.ID)
	if err != nil {
		return respondError(c, err)
	}

	products := postgres.NewProductRepository(tc.Querier())
	items := make([]pdf.ReceiptItem, 0, len(detail.Items))
	for _, it := range detail.Items {
		name := it.ProductID
		if p, err := products.GetByID(it.ProductID); err == nil && p != nil {
			name = p.Name
		}
		items = append(items, pdf.ReceiptItem{
			Name:      name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}

	sellerName := sale.UserID
	if u, err := postgres.NewUserRepository(tc.Querier()).GetByID(sale.UserID); err == nil && u != nil {
		sellerName = sellerDisplay(u)
	}

	doc, err := h.receipt.GenerateReceipt(c.Context(), pdf.ReceiptData{
		BusinessName: GetTenantID(c),
		SellerName:   sellerName,
		Sale:         sale,
		Items:        items,
		Payments:     payments,
	})
	if err != nil {
		h.log.Error().Err(err).Str("sale_id", sale.ID).Msg("fallo generando ticket")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error generando el ticket"})
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `inline; filename="ticket-`+sale.Folio+`.pdf"`)
	return c.Send(doc)
}

func sellerDisplay(u *entity.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
