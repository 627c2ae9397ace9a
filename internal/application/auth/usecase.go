package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aurasoft-io/aura-pos/internal/application/dto"
	"github.com/aurasoft-io/aura-pos/internal/domain"
	"github.com/aurasoft-io/aura-pos/internal/domain/entity"
	"github.com/aurasoft-io/aura-pos/internal/domain/repository"
	"github.com/aurasoft-io/aura-pos/pkg/jwt"
	"github.com/aurasoft-io/aura-pos/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de autenticación dentro de un tenant.
type UseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	tenantID string
	log      *logger.Logger
}

// NewUseCase construye el caso de uso de auth sobre el tenant ya resuelto.
func NewUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, tenantID string, log *logger.Logger) *UseCase {
	return &UseCase{userRepo: userRepo, jwtCfg: jwtCfg, tenantID: tenantID, log: log}
}

// Login verifica username/password, actualiza el último acceso y emite un JWT
// atado al tenant. Usuario inexistente y password incorrecto devuelven el
// mismo error para no filtrar qué usuarios existen.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrValidation
	}

	user, err := uc.userRepo.GetByUsername(in.Username)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if user == nil {
		uc.log.Security().Str("username", in.Username).Str("tenant", uc.tenantID).Msg("login de usuario inexistente")
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.log.Security().Str("user_id", user.ID).Str("tenant", uc.tenantID).Msg("password incorrecto")
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		uc.log.Security().Str("user_id", user.ID).Str("tenant", uc.tenantID).Msg("login de cuenta desactivada")
		return nil, domain.ErrAccountDisabled
	}

	if err := uc.userRepo.TouchLastAccess(user.ID); err != nil {
		// No bloquea el login; queda en logs.
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("no se pudo actualizar last_access")
	}

	token, _, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, uc.tenantID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("user_id", user.ID).Str("tenant", uc.tenantID).Msg("login exitoso")
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
		User:      toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		Role:         string(u.Role),
		Active:       u.Active,
		LastAccessAt: u.LastAccessAt,
		CreatedAt:    u.CreatedAt,
	}
}
