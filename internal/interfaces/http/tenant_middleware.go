package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/aurasoft-io/aura-pos/internal/application/dto"
	"github.com/aurasoft-io/aura-pos/internal/domain"
	"github.com/aurasoft-io/aura-pos/internal/infrastructure/postgres"
	"github.com/aurasoft-io/aura-pos/pkg/logger"
)

// Locals keys del contexto de tenant en Fiber.
const (
	LocalTenantID   = "tenant_id"
	LocalTenantConn = "tenant_conn"
)

// TenantMiddleware resuelve el tenant de la cabecera X-Tenant-ID, ata una
// conexión con el search_path del esquema y la deja en c.Locals. La conexión
// se libera al terminar el handler.
func TenantMiddleware(registry *postgres.SchemaRegistry, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID := c.Get("X-Tenant-ID")
		if tenantID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_TENANT", Message: "cabecera X-Tenant-ID requerida"})
		}

		tlog := log.Tenant(tenantID)
		tc, err := registry.Bind(c.Context(), tenantID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidTenantID):
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_TENANT", Message: "identificador de tenant inválido"})
			case errors.Is(err, domain.ErrTenantNotFound):
				return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "TENANT_NOT_FOUND", Message: "el tenant no existe"})
			case errors.Is(err, domain.ErrTenantSuspended):
				tlog.Security().Msg("acceso a tenant suspendido")
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "TENANT_SUSPENDED", Message: "el tenant está suspendido"})
			}
			tlog.Error().Err(err).Msg("fallo atando conexión de tenant")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
		}
		tlog.Debug().Str("path", c.Path()).Msg("conexión de tenant atada")
		defer tc.Release(c.Context())

		c.Locals(LocalTenantID, tenantID)
		c.Locals(LocalTenantConn, tc)
		return c.Next()
	}
}

// GetTenantID devuelve el tenant del contexto (después del middleware).
func GetTenantID(c *fiber.Ctx) string {
	v := c.Locals(LocalTenantID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetTenantConn devuelve la conexión atada al esquema del tenant.
func GetTenantConn(c *fiber.Ctx) *postgres.TenantConn {
	v := c.Locals(LocalTenantConn)
	if v == nil {
		return nil
	}
	tc, _ := v.(*postgres.TenantConn)
	return tc
}
