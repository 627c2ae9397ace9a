package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aurasoft-io/aura-pos/internal/application/auth"
	"github.com/aurasoft-io/aura-pos/internal/application/dto"
	"github.com/aurasoft-io/aura-pos/internal/infrastructure/postgres"
	"github.com/aurasoft-io/aura-pos/pkg/logger"
)

// RoleHandler administra las asignaciones rol-permiso del tenant. Solo
// usuarios con users.manage pueden modificarlas.
type RoleHandler struct {
	cache *auth.SessionPermissionCache
	log   *logger.Logger
}

// NewRoleHandler construye el handler de roles.
func NewRoleHandler(cache *auth.SessionPermissionCache, log *logger.Logger) *RoleHandler {
	return &RoleHandler{cache: cache, log: log}
}

func (h *RoleHandler) build(tc *postgres.TenantConn) (*auth.PermissionAdmin, *auth.PermissionResolver) {
	perms := postgres.NewPermissionRepository(tc.Querier())
	admin := auth.NewPermissionAdmin(perms, h.cache, h.log)
	resolver := auth.NewPermissionResolver(perms, h.cache, h.log)
	return admin, resolver
}

// AssignPermission asigna un permiso al rol de la ruta.
func (h *RoleHandler) AssignPermission(c *fiber.Ctx) error {
	var in dto.AssignPermissionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	admin, resolver := h.build(GetTenantConn(c))
	if err := resolver.Require(GetSession(c), "users.manage"); err != nil {
		return respondError(c, err)
	}
	if err := admin.Assign(c.Params("role"), in.Slug); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RevokePermission retira un permiso del rol de la ruta.
func (h *RoleHandler) RevokePermission(c *fiber.Ctx) error {
	admin, resolver := h.build(GetTenantConn(c))
	if err := resolver.Require(GetSession(c), "users.manage"); err != nil {
		return respondError(c, err)
	}
	if err := admin.Revoke(c.Params("role"), c.Params("slug")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
