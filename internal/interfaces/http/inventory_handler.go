package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aurasoft-io/aura-pos/internal/application/auth"
	"github.com/aurasoft-io/aura-pos/internal/application/dto"
	"github.com/aurasoft-io/aura-pos/internal/application/inventory"
	"github.com/aurasoft-io/aura-pos/internal/domain/entity"
	"github.com/aurasoft-io/aura-pos/internal/infrastructure/postgres"
	"github.com/aurasoft-io/aura-pos/pkg/logger"
)

// InventoryHandler maneja reposiciones y consultas de inventario.
type InventoryHandler struct {
	cache *auth.SessionPermissionCache
	log   *logger.Logger
}

// NewInventoryHandler construye el handler de inventario.
func NewInventoryHandler(cache *auth.SessionPermissionCache, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{cache: cache, log: log}
}

func (h *InventoryHandler) build(tc *postgres.TenantConn) (*inventory.Ledger, *auth.PermissionResolver) {
	ledger := inventory.NewLedger(
		postgres.NewProductRepository(tc.Querier()),
		postgres.NewStockMovementRepository(tc.Querier()),
		postgres.NewTxRunner(tc),
		h.log,
	)
	resolver := auth.NewPermissionResolver(postgres.NewPermissionRepository(tc.Querier()), h.cache, h.log)
	return ledger, resolver
}

// Restock registra una entrada de mercancía (requiere inventory.adjust).
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	var in dto.RestockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" || in.Quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y quantity positiva son requeridos"})
	}

	ledger, resolver := h.build(GetTenantConn(c))
	if err := resolver.Require(GetSession(c), "inventory.adjust"); err != nil {
		return respondError(c, err)
	}
	if err := ledger.Increment(c.Context(), in.ProductID, in.Quantity, in.Reference, GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "stock actualizado"})
}

// Movements devuelve los últimos movimientos de un producto con el nombre
// del usuario actuante (requiere products.view).
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	tc := GetTenantConn(c)
	ledger, resolver := h.build(tc)
	if err := resolver.Require(GetSession(c), "products.view"); err != nil {
		return respondError(c, err)
	}

	movements, err := ledger.MovementsFor(c.Params("id"), c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}

	users := postgres.NewUserRepository(tc.Querier())
	names := make(map[string]string)
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		r := toMovementResponse(m)
		if _, ok := names[m.UserID]; !ok {
			if u, err := users.GetByID(m.UserID); err == nil && u != nil {
				names[m.UserID] = sellerDisplay(u)
			} else {
				names[m.UserID] = ""
			}
		}
		r.UserName = names[m.UserID]
		out = append(out, r)
	}
	return c.JSON(out)
}

// LowStock devuelve los productos activos en o bajo su mínimo (requiere products.view).
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	ledger, resolver := h.build(GetTenantConn(c))
	if err := resolver.Require(GetSession(c), "products.view"); err != nil {
		return respondError(c, err)
	}

	products, err := ledger.LowStock()
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return c.JSON(out)
}

// ListProducts devuelve el catálogo del tenant (requiere products.view).
func (h *InventoryHandler) ListProducts(c *fiber.Ctx) error {
	tc := GetTenantConn(c)
	_, resolver := h.build(tc)
	if err := resolver.Require(GetSession(c), "products.view"); err != nil {
		return respondError(c, err)
	}

	products, err := postgres.NewProductRepository(tc.Querier()).List()
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return c.JSON(out)
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		Type:        m.Type,
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		Reference:   m.Reference,
		UserID:      m.UserID,
		CreatedAt:   m.CreatedAt,
	}
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:       p.ID,
		Code:     p.Code,
		Name:     p.Name,
		Price:    p.Price,
		Cost:     p.Cost,
		Stock:    p.Stock,
		MinStock: p.MinStock,
		Active:   p.Active,
	}
}
