package http

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/aurasoft-io/aura-pos/internal/application/dto"
	"github.com/aurasoft-io/aura-pos/internal/application/tenant"
)

// TenantHandler administra el ciclo de vida de tenants. Todas las rutas van
// protegidas por un token estático de operación, no por sesiones de tenant.
type TenantHandler struct {
	uc             *tenant.UseCase
	provisionToken string
}

// NewTenantHandler construye el handler de tenants.
func NewTenantHandler(uc *tenant.UseCase, provisionToken string) *TenantHandler {
	return &TenantHandler{uc: uc, provisionToken: provisionToken}
}

// AdminTokenMiddleware exige la cabecera X-Admin-Token con el token de
// operación configurado. Si no hay token configurado, las rutas quedan
// cerradas.
func (h *TenantHandler) AdminTokenMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("X-Admin-Token")
		if h.provisionToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.provisionToken)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_ADMIN_TOKEN", Message: "token de administración inválido"})
		}
		return c.Next()
	}
}

// Provision crea un tenant nuevo con su esquema y admin inicial.
func (h *TenantHandler) Provision(c *fiber.Ctx) error {
	var in dto.ProvisionTenantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Provision(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List devuelve todos los tenants del catálogo.
func (h *TenantHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetState cambia el estado del tenant (active, suspended, cancelled).
func (h *TenantHandler) SetState(c *fiber.Ctx) error {
	var in struct {
		State string `json:"state"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SetState(c.Params("id"), in.State); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "estado actualizado"})
}

// Deprovision elimina el esquema del tenant y todos sus datos.
func (h *TenantHandler) Deprovision(c *fiber.Ctx) error {
	if err := h.uc.Deprovision(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "tenant eliminado"})
}
