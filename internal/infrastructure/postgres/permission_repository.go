package postgres

import (
	"context"
	"fmt"

	"github.com/aurasoft-io/aura-pos/internal/domain/repository"
)

var _ repository.PermissionRepository = (*PermissionRepo)(nil)

// PermissionRepo implementación de PermissionRepository sobre el esquema del
// tenant activo.
type PermissionRepo struct {
	q Querier
}

// NewPermissionRepository construye el adaptador. Pasar conexión ligada o tx (Querier).
func NewPermissionRepository(q Querier) *PermissionRepo {
	return &PermissionRepo{q: q}
}

// ListSlugsByRole devuelve los slugs asignados directamente al rol.
func (r *PermissionRepo) ListSlugsByRole(roleID int) ([]string, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT p.slug
		FROM permissions p
		INNER JOIN role_permissions rp ON p.id = rp.permission_id
		WHERE rp.role_id = $1`, roleID)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()
	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		slugs = append(slugs, slug)
	}
	return slugs, rows.Err()
}

// Assign asigna un permiso a un rol (idempotente).
func (r *PermissionRepo) Assign(roleID int, slug string) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO role_permissions (role_id, permission_id)
		SELECT $1, id FROM permissions WHERE slug = $2
		ON CONFLICT DO NOTHING`, roleID, slug)
	if err != nil {
		return fmt.Errorf("assign permission: %w", err)
	}
	return nil
}

// Revoke retira un permiso de un rol.
func (r *PermissionRepo) Revoke(roleID int, slug string) error {
	_, err := r.q.Exec(context.Background(), `
		DELETE FROM role_permissions rp
		USING permissions p
		WHERE rp.permission_id = p.id AND rp.role_id = $1 AND p.slug = $2`, roleID, slug)
	if err != nil {
		return fmt.Errorf("revoke permission: %w", err)
	}
	return nil
}
