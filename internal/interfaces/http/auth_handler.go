package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aurasoft-io/aura-pos/internal/application/auth"
	"github.com/aurasoft-io/aura-pos/internal/application/dto"
	"github.com/aurasoft-io/aura-pos/internal/infrastructure/postgres"
	"github.com/aurasoft-io/aura-pos/pkg/logger"
)

// AuthHandler maneja el login dentro del tenant de la petición.
type AuthHandler struct {
	jwtCfg auth.JWTConfig
	log    *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(jwtCfg auth.JWTConfig, log *logger.Logger) *AuthHandler {
	return &AuthHandler{jwtCfg: jwtCfg, log: log}
}

// Login autentica username/password contra el esquema del tenant y devuelve
// un JWT atado a él.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Username == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "username y password son requeridos"})
	}

	tc := GetTenantConn(c)
	users := postgres.NewUserRepository(tc.Querier())
	uc := auth.NewUseCase(users, h.jwtCfg, GetTenantID(c), h.log)

	out, err := uc.Login(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
