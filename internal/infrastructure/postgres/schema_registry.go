package postgres

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurasoft-io/aura-pos/internal/domain"
	"github.com/aurasoft-io/aura-pos/internal/domain/entity"
	"github.com/aurasoft-io/aura-pos/pkg/logger"
)

// Prefijo fijo de los esquemas de tenant.
const schemaPrefix = "tenant_"

var invalidSchemaChars = regexp.MustCompile(`[^a-z0-9_]`)

// SchemaName deriva el nombre del esquema a partir del identificador de
// tenant: minúsculas, solo [a-z0-9_], prefijo fijo. Falla con
// ErrInvalidTenantID si la sanitización deja el identificador vacío.
func SchemaName(tenantID string) (string, error) {
	sanitized := invalidSchemaChars.ReplaceAllString(strings.ToLower(tenantID), "")
	if sanitized == "" {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidTenantID, tenantID)
	}
	return schemaPrefix + sanitized, nil
}

// SchemaRegistry resuelve identificadores de tenant a esquemas PostgreSQL
// aislados y administra su ciclo de vida (bind por request, provisión,
// eliminación). La existencia del tenant siempre se verifica contra el
// catálogo compartido: ningún esquema se crea implícitamente en el bind.
type SchemaRegistry struct {
	pool    *pgxpool.Pool
	catalog *TenantCatalogRepo
	log     *logger.Logger
}

// NewSchemaRegistry construye el registry sobre el pool y el catálogo.
func NewSchemaRegistry(pool *pgxpool.Pool, catalog *TenantCatalogRepo, log *logger.Logger) *SchemaRegistry {
	return &SchemaRegistry{pool: pool, catalog: catalog, log: log}
}

// TenantConn es una conexión del pool ligada al esquema de un tenant por la
// duración de un request. Nunca se comparte entre requests.
type TenantConn struct {
	conn   *pgxpool.Conn
	schema string
}

// Querier devuelve la conexión ligada para operaciones fuera de transacción.
func (tc *TenantConn) Querier() Querier { return tc.conn }

// Schema devuelve el esquema al que está ligada la conexión.
func (tc *TenantConn) Schema() string { return tc.schema }

// Release deshace el binding de esquema y devuelve la conexión al pool.
// Debe llamarse siempre al final del request.
func (tc *TenantConn) Release(ctx context.Context) {
	// Si el RESET falla la conexión se destruye al volver al pool con estado
	// sucio; no hay nada útil que hacer con el error aquí.
	_, _ = tc.conn.Exec(ctx, "RESET search_path")
	tc.conn.Release()
}

// Bind resuelve el tenant contra el catálogo y liga una conexión del pool a
// su esquema (SET search_path). Falla con ErrTenantNotFound si el tenant no
// existe y con ErrTenantSuspended si no está activo. El switch corre en cada
// request, por lo que se mantiene en una sola ida a la BD.
func (r *SchemaRegistry) Bind(ctx context.Context, tenantID string) (*TenantConn, error) {
	schema, err := SchemaName(tenantID)
	if err != nil {
		return nil, err
	}
	tenant, err := r.catalog.Get(tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrTenantNotFound, tenantID)
	}
	if tenant.State != entity.TenantStateActive {
		return nil, fmt.Errorf("%w: %q (estado %s)", domain.ErrTenantSuspended, tenantID, tenant.State)
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("adquirir conexión: %w", err)
	}
	if _, err := conn.Exec(ctx, "SET search_path TO "+pgx.Identifier{schema}.Sanitize()); err != nil {
		conn.Release()
		return nil, fmt.Errorf("fijar search_path: %w", err)
	}
	return &TenantConn{conn: conn, schema: schema}, nil
}

// AdminSeed datos del administrador inicial de un tenant nuevo. El hash de
// contraseña lo calcula el caller; este componente no elige algoritmos.
type AdminSeed struct {
	Username     string
	PasswordHash string
	Email        string
	FullName     string
}

// Provision crea el esquema del tenant, ejecuta la migración base, siembra
// roles y permisos, crea el administrador inicial y registra el tenant en el
// catálogo compartido, todo en una sola operación atómica. Ante cualquier
// fallo el esquema parcial se elimina antes de devolver el error original.
func (r *SchemaRegistry) Provision(ctx context.Context, tenantID string, admin AdminSeed) (*entity.Tenant, error) {
	schema, err := SchemaName(tenantID)
	if err != nil {
		return nil, err
	}
	existing, err := r.catalog.Get(tenantID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrTenantExists, tenantID)
	}

	tenant := &entity.Tenant{
		Identifier: tenantID,
		SchemaName: schema,
		State:      entity.TenantStateActive,
		CreatedAt:  time.Now(),
	}

	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "CREATE SCHEMA "+pgx.Identifier{schema}.Sanitize()); err != nil {
			if isDuplicateSchema(err) {
				return fmt.Errorf("%w: %q", domain.ErrTenantExists, tenantID)
			}
			return fmt.Errorf("crear esquema: %w", err)
		}
		// Las tablas del tenant se crean sin calificar bajo su esquema;
		// SET LOCAL expira con la transacción.
		if _, err := tx.Exec(ctx, "SET LOCAL search_path TO "+pgx.Identifier{schema}.Sanitize()); err != nil {
			return fmt.Errorf("fijar search_path: %w", err)
		}
		if err := runBaseMigrations(ctx, tx); err != nil {
			return err
		}
		if err := seedInitialAdmin(ctx, tx, admin); err != nil {
			return err
		}
		return createCatalogEntry(ctx, tx, tenant)
	})
	if err != nil {
		// El rollback ya deshizo el DDL; el drop es cinturón extra por si la
		// transacción alcanzó a consolidar algo. Su fallo se loggea sin
		// enmascarar el error original.
		if _, dropErr := r.pool.Exec(ctx, "DROP SCHEMA IF EXISTS "+pgx.Identifier{schema}.Sanitize()+" CASCADE"); dropErr != nil {
			r.log.Error().Err(dropErr).Str("schema", schema).Msg("limpieza de esquema fallido")
		}
		return nil, err
	}

	r.log.Info().Str("tenant", tenantID).Str("schema", schema).Msg("tenant aprovisionado")
	return tenant, nil
}

// Deprovision elimina el esquema del tenant y su entrada de catálogo.
// Irreversible; se registra con severidad alta antes de ejecutar. La
// confirmación es responsabilidad del caller.
func (r *SchemaRegistry) Deprovision(ctx context.Context, tenantID string) error {
	schema, err := SchemaName(tenantID)
	if err != nil {
		return err
	}
	tenant, err := r.catalog.Get(tenantID)
	if err != nil {
		return err
	}
	if tenant == nil {
		return fmt.Errorf("%w: %q", domain.ErrTenantNotFound, tenantID)
	}

	r.log.Warn().Str("tenant", tenantID).Str("schema", schema).
		Msg("eliminando esquema de tenant (irreversible)")

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DROP SCHEMA IF EXISTS "+pgx.Identifier{schema}.Sanitize()+" CASCADE"); err != nil {
			return fmt.Errorf("drop esquema: %w", err)
		}
		return deleteCatalogEntry(ctx, tx, tenantID)
	})
}
