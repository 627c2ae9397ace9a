package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Migración base de un esquema de tenant. Todas las tablas viven dentro del
// esquema del tenant (sin calificar: el caller fija el search_path); no hay
// foreign keys entre tenants.
var baseMigrations = []string{
	`CREATE TABLE roles (
		id             INT PRIMARY KEY,
		name           TEXT UNIQUE NOT NULL,
		description    TEXT,
		parent_role_id INT REFERENCES roles(id) ON DELETE SET NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE users (
		id             UUID PRIMARY KEY,
		username       TEXT UNIQUE NOT NULL,
		email          TEXT UNIQUE NOT NULL,
		password_hash  TEXT NOT NULL,
		full_name      TEXT,
		role_id        INT NOT NULL REFERENCES roles(id) ON DELETE RESTRICT,
		active         BOOLEAN NOT NULL DEFAULT TRUE,
		last_access_at TIMESTAMPTZ,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE permissions (
		id          SERIAL PRIMARY KEY,
		slug        TEXT UNIQUE NOT NULL,
		description TEXT,
		module      TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE role_permissions (
		role_id       INT NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
		permission_id INT NOT NULL REFERENCES permissions(id) ON DELETE CASCADE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (role_id, permission_id)
	)`,
	`CREATE TABLE products (
		id          UUID PRIMARY KEY,
		code        TEXT UNIQUE NOT NULL,
		name        TEXT NOT NULL,
		description TEXT,
		price       NUMERIC(12,2) NOT NULL,
		cost        NUMERIC(12,2) NOT NULL DEFAULT 0,
		stock       INT NOT NULL DEFAULT 0 CHECK (stock >= 0),
		min_stock   INT NOT NULL DEFAULT 0,
		active      BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE sales (
		id         UUID PRIMARY KEY,
		folio      TEXT UNIQUE NOT NULL,
		user_id    UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
		subtotal   NUMERIC(12,2) NOT NULL,
		tax        NUMERIC(12,2) NOT NULL DEFAULT 0,
		discount   NUMERIC(12,2) NOT NULL DEFAULT 0,
		total      NUMERIC(12,2) NOT NULL,
		state      TEXT NOT NULL DEFAULT 'completed',
		notes      TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX idx_sales_folio ON sales (folio)`,
	`CREATE INDEX idx_sales_created_at ON sales (created_at)`,
	`CREATE TABLE sale_items (
		id         UUID PRIMARY KEY,
		sale_id    UUID NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
		product_id UUID NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
		quantity   INT NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(12,2) NOT NULL,
		subtotal   NUMERIC(12,2) NOT NULL
	)`,
	`CREATE TABLE sale_payments (
		id         UUID PRIMARY KEY,
		sale_id    UUID NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
		method     TEXT NOT NULL CHECK (method IN ('cash','card','transfer','check')),
		amount     NUMERIC(12,2) NOT NULL CHECK (amount > 0),
		reference  TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE stock_movements (
		id           UUID PRIMARY KEY,
		product_id   UUID NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
		type         TEXT NOT NULL CHECK (type IN ('in','out','adjust')),
		quantity     INT NOT NULL,
		stock_before INT NOT NULL,
		stock_after  INT NOT NULL,
		reference    TEXT,
		user_id      UUID NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX idx_stock_movements_product ON stock_movements (product_id, created_at)`,
	`CREATE TABLE sale_audit (
		id         UUID PRIMARY KEY,
		sale_id    UUID NOT NULL,
		user_id    UUID NOT NULL,
		action     TEXT NOT NULL,
		snapshot   JSONB,
		ip         TEXT,
		user_agent TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX idx_sale_audit_sale ON sale_audit (sale_id)`,

	// Roles base. La arista de herencia (ADMIN -> SELLER) se refleja en
	// parent_role_id; la resolución la hace el PermissionResolver en código.
	`INSERT INTO roles (id, name, description, parent_role_id) VALUES
		(1, 'ADMIN',   'Administrador con control total de la instancia', 2),
		(2, 'SELLER',  'Vendedor con permisos operativos de POS', NULL),
		(3, 'SPECIAL', 'Rol personalizable por el tenant', NULL)`,

	// Permisos operativos (SELLER) y administrativos (exclusivos de ADMIN;
	// ADMIN además hereda los de SELLER vía la jerarquía).
	`INSERT INTO permissions (slug, description, module) VALUES
		('sales.create',         'Registrar nuevas ventas en el POS', 'sales'),
		('sales.list',           'Ver historial de ventas', 'sales'),
		('products.view',        'Consultar catálogo de productos', 'inventory'),
		('payments.process',     'Procesar pagos de clientes', 'finance'),
		('inventory.adjust',     'Reponer y ajustar stock', 'inventory'),
		('users.manage',         'Crear/editar/eliminar usuarios', 'system'),
		('config.edit',          'Cambiar configuración del tenant', 'system'),
		('backups.run',          'Generar respaldos de datos', 'system'),
		('reports.finance.view', 'Acceder a reportes financieros', 'reports')`,

	`INSERT INTO role_permissions (role_id, permission_id)
		SELECT 2, id FROM permissions WHERE slug IN
		('sales.create', 'sales.list', 'products.view', 'payments.process')`,

	`INSERT INTO role_permissions (role_id, permission_id)
		SELECT 1, id FROM permissions WHERE slug IN
		('inventory.adjust', 'users.manage', 'config.edit', 'backups.run', 'reports.finance.view')`,
}

// runBaseMigrations crea la estructura base de un esquema de tenant recién
// creado y siembra roles y permisos.
func runBaseMigrations(ctx context.Context, q Querier) error {
	for _, stmt := range baseMigrations {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migración base: %w", err)
		}
	}
	return nil
}

// seedInitialAdmin crea el usuario administrador inicial del tenant.
func seedInitialAdmin(ctx context.Context, q Querier, admin AdminSeed) error {
	if admin.Username == "" || admin.PasswordHash == "" || admin.Email == "" {
		return fmt.Errorf("datos de administrador inicial incompletos")
	}
	_, err := q.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, full_name, role_id, active)
		VALUES ($1, $2, $3, $4, $5, 1, TRUE)`,
		uuid.New().String(), admin.Username, admin.Email, admin.PasswordHash, admin.FullName,
	)
	if err != nil {
		return fmt.Errorf("crear administrador inicial: %w", err)
	}
	return nil
}
