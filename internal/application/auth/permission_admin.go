package auth

import (
	"fmt"

	"github.com/aurasoft-io/aura-pos/internal/domain"
	"github.com/aurasoft-io/aura-pos/internal/domain/entity"
	"github.com/aurasoft-io/aura-pos/internal/domain/repository"
	"github.com/aurasoft-io/aura-pos/pkg/logger"
)

// PermissionAdmin modifica las asignaciones rol-permiso del tenant. Cada
// cambio invalida el caché de permisos de todas las sesiones: los permisos
// efectivos se recalculan en la siguiente petición de cada una.
type PermissionAdmin struct {
	perms repository.PermissionRepository
	cache *SessionPermissionCache
	log   *logger.Logger
}

// NewPermissionAdmin construye el administrador de asignaciones.
func NewPermissionAdmin(perms repository.PermissionRepository, cache *SessionPermissionCache, log *logger.Logger) *PermissionAdmin {
	return &PermissionAdmin{perms: perms, cache: cache, log: log}
}

// Assign asigna un permiso a un rol. Es idempotente.
func (a *PermissionAdmin) Assign(roleName, slug string) error {
	role, slug, err := parseAssignment(roleName, slug)
	if err != nil {
		return err
	}
	if err := a.perms.Assign(role.ID(), slug); err != nil {
		return err
	}
	a.cache.InvalidateAll()
	a.log.Info().Str("role", string(role)).Str("permission", slug).Msg("permiso asignado")
	return nil
}

// Revoke retira un permiso de un rol.
func (a *PermissionAdmin) Revoke(roleName, slug string) error {
	role, slug, err := parseAssignment(roleName, slug)
	if err != nil {
		return err
	}
	if err := a.perms.Revoke(role.ID(), slug); err != nil {
		return err
	}
	a.cache.InvalidateAll()
	a.log.Info().Str("role", string(role)).Str("permission", slug).Msg("permiso revocado")
	return nil
}

func parseAssignment(roleName, slug string) (entity.Role, string, error) {
	role, err := entity.RoleFromName(roleName)
	if err != nil {
		return "", "", fmt.Errorf("rol %q: %w", roleName, domain.ErrValidation)
	}
	if slug == "" {
		return "", "", fmt.Errorf("slug de permiso vacío: %w", domain.ErrValidation)
	}
	return role, slug, nil
}
