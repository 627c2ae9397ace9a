package repository

import "github.com/aurasoft-io/aura-pos/internal/domain/entity"

// AuditRepository puerto del log de auditoría de ventas (append-only).
type AuditRepository interface {
	Create(entry *entity.AuditEntry) error
	ListBySale(saleID string) ([]*entity.AuditEntry, error)
}
