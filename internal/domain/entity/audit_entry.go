package entity

import "time"

// Acciones auditables sobre una venta.
const (
	AuditActionCreated   = "CREATED"
	AuditActionCancelled = "CANCELLED"
)

// AuditEntry es un registro append-only del ciclo de vida de una venta, con
// snapshot JSON de los datos afectados y metadatos del request de origen.
type AuditEntry struct {
	ID        string
	SaleID    string
	UserID    string
	Action    string
	Snapshot  []byte // JSON de venta + items + pagos
	IP        string
	UserAgent string
	CreatedAt time.Time
}
