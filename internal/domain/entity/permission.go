package entity

import "time"

// Permission es un permiso granular identificado por slug (ej: sales.create),
// agrupado por módulo. Relación many-to-many con Role vía role_permissions.
type Permission struct {
	ID          int
	Slug        string
	Description string
	Module      string
	CreatedAt   time.Time
}
