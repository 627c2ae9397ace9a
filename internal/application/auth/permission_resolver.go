package auth

import (
	"github.com/aurasoft-io/aura-pos/internal/domain"
	"github.com/aurasoft-io/aura-pos/internal/domain/entity"
	"github.com/aurasoft-io/aura-pos/internal/domain/repository"
	"github.com/aurasoft-io/aura-pos/pkg/logger"
)

// Session identidad autenticada sobre la que se resuelven permisos.
type Session struct {
	ID     string // claim jti del token
	UserID string
	Role   entity.Role
}

// PermissionResolver resuelve permisos efectivos de una sesión: los del rol
// activo más los heredados del rol padre (un solo nivel). Se construye por
// petición sobre el repositorio del tenant ya resuelto; el caché es
// compartido entre peticiones y se indexa por sesión.
type PermissionResolver struct {
	permRepo repository.PermissionRepository
	cache    *SessionPermissionCache
	log      *logger.Logger
}

// NewPermissionResolver construye el resolver.
func NewPermissionResolver(permRepo repository.PermissionRepository, cache *SessionPermissionCache, log *logger.Logger) *PermissionResolver {
	return &PermissionResolver{permRepo: permRepo, cache: cache, log: log}
}

// EffectivePermissions devuelve el set de slugs de la sesión, resolviéndolo
// desde la base la primera vez y desde el caché en adelante.
func (r *PermissionResolver) EffectivePermissions(sess Session) (map[string]struct{}, error) {
	if set, ok := r.cache.Get(sess.ID); ok {
		return set, nil
	}

	slugs, err := r.resolve(sess.Role)
	if err != nil {
		return nil, err
	}
	r.cache.Put(sess.ID, slugs)
	set, _ := r.cache.Get(sess.ID)
	return set, nil
}

// resolve junta los permisos directos del rol con los del padre. La herencia
// es de un solo nivel; un rol inválido resuelve a un set vacío.
func (r *PermissionResolver) resolve(role entity.Role) ([]string, error) {
	if !role.Valid() {
		return nil, nil
	}
	slugs, err := r.permRepo.ListSlugsByRole(role.ID())
	if err != nil {
		return nil, err
	}
	if parent, ok := role.Parent(); ok {
		inherited, err := r.permRepo.ListSlugsByRole(parent.ID())
		if err != nil {
			return nil, err
		}
		slugs = append(slugs, inherited...)
	}
	return slugs, nil
}

// Check indica si la sesión tiene el permiso. Un error de resolución se
// trata como denegado.
func (r *PermissionResolver) Check(sess Session, slug string) bool {
	set, err := r.EffectivePermissions(sess)
	if err != nil {
		r.log.Error().Err(err).Str("user_id", sess.UserID).Msg("fallo resolviendo permisos")
		return false
	}
	_, ok := set[slug]
	return ok
}

// Require verifica el permiso y, si falta, registra el intento como evento
// de seguridad y devuelve un UnauthorizedError con el detalle.
func (r *PermissionResolver) Require(sess Session, slug string) error {
	if r.Check(sess, slug) {
		return nil
	}
	r.log.Security().
		Str("user_id", sess.UserID).
		Str("role", string(sess.Role)).
		Str("permission", slug).
		Msg("acceso denegado")
	return &domain.UnauthorizedError{Slug: slug, Role: string(sess.Role), UserID: sess.UserID}
}

// HasAny indica si la sesión tiene al menos uno de los permisos.
func (r *PermissionResolver) HasAny(sess Session, slugs ...string) bool {
	set, err := r.EffectivePermissions(sess)
	if err != nil {
		return false
	}
	for _, s := range slugs {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}

// HasAll indica si la sesión tiene todos los permisos.
func (r *PermissionResolver) HasAll(sess Session, slugs ...string) bool {
	set, err := r.EffectivePermissions(sess)
	if err != nil {
		return false
	}
	for _, s := range slugs {
		if _, ok := set[s]; !ok {
			return false
		}
	}
	return true
}
