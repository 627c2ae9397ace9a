package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aurasoft-io/aura-pos/internal/domain"
	"github.com/aurasoft-io/aura-pos/internal/domain/entity"
	"github.com/aurasoft-io/aura-pos/internal/domain/repository"
)

var _ repository.TenantRepository = (*TenantCatalogRepo)(nil)

// TenantCatalogRepo implementa el catálogo compartido de tenants sobre la
// tabla public.tenants. La tabla siempre se califica con su esquema para que
// las consultas funcionen sin importar el search_path de la conexión.
type TenantCatalogRepo struct {
	q Querier
}

// NewTenantCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTenantCatalogRepository(q Querier) *TenantCatalogRepo {
	return &TenantCatalogRepo{q: q}
}

// EnsureTenantCatalog crea la tabla de catálogo si no existe (arranque).
func EnsureTenantCatalog(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS public.tenants (
			identifier  TEXT PRIMARY KEY,
			schema_name TEXT UNIQUE NOT NULL,
			state       TEXT NOT NULL DEFAULT 'active',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("crear catálogo de tenants: %w", err)
	}
	return nil
}

// Create registra un tenant en el catálogo.
func (r *TenantCatalogRepo) Create(tenant *entity.Tenant) error {
	return createCatalogEntry(context.Background(), r.q, tenant)
}

func createCatalogEntry(ctx context.Context, q Querier, tenant *entity.Tenant) error {
	_, err := q.Exec(ctx, `
		INSERT INTO public.tenants (identifier, schema_name, state, created_at)
		VALUES ($1, $2, $3, $4)`,
		tenant.Identifier, tenant.SchemaName, tenant.State, tenant.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", domain.ErrTenantExists, tenant.Identifier)
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

func deleteCatalogEntry(ctx context.Context, q Querier, identifier string) error {
	_, err := q.Exec(ctx, `DELETE FROM public.tenants WHERE identifier = $1`, identifier)
	if err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	return nil
}

// Get obtiene un tenant por identificador. Devuelve nil si no existe.
func (r *TenantCatalogRepo) Get(identifier string) (*entity.Tenant, error) {
	var t entity.Tenant
	err := r.q.QueryRow(context.Background(), `
		SELECT identifier, schema_name, state, created_at
		FROM public.tenants WHERE identifier = $1`, identifier).Scan(
		&t.Identifier, &t.SchemaName, &t.State, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return &t, nil
}

// List devuelve todos los tenants del catálogo.
func (r *TenantCatalogRepo) List() ([]*entity.Tenant, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT identifier, schema_name, state, created_at
		FROM public.tenants ORDER BY identifier`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()
	var list []*entity.Tenant
	for rows.Next() {
		var t entity.Tenant
		if err := rows.Scan(&t.Identifier, &t.SchemaName, &t.State, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// UpdateState cambia el estado de ciclo de vida del tenant.
func (r *TenantCatalogRepo) UpdateState(identifier, state string) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE public.tenants SET state = $2 WHERE identifier = $1`, identifier, state)
	if err != nil {
		return fmt.Errorf("update tenant state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %q", domain.ErrTenantNotFound, identifier)
	}
	return nil
}

// Delete elimina la entrada de catálogo (la usa el deprovision).
func (r *TenantCatalogRepo) Delete(identifier string) error {
	return deleteCatalogEntry(context.Background(), r.q, identifier)
}
