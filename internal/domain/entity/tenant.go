package entity

import "time"

// Estados de ciclo de vida de un tenant en el catálogo compartido.
const (
	TenantStateActive    = "active"
	TenantStateSuspended = "suspended"
	TenantStateCancelled = "cancelled"
)

// Tenant es una entrada del catálogo compartido (fuera de todo esquema de
// tenant): identificador público → esquema físico → estado.
type Tenant struct {
	Identifier string // identificador URL-safe (subdominio)
	SchemaName string // esquema PostgreSQL derivado (tenant_<id>)
	State      string // active, suspended, cancelled
	CreatedAt  time.Time
}
