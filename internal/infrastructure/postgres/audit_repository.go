package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aurasoft-io/aura-pos/internal/domain/entity"
	"github.com/aurasoft-io/aura-pos/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación del log de auditoría de ventas (append-only)
// sobre el esquema del tenant activo.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar conexión ligada o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create persiste una entrada de auditoría con su snapshot JSON.
func (r *AuditRepo) Create(entry *entity.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sale_audit (id, sale_id, user_id, action, snapshot, ip, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.SaleID, entry.UserID, entry.Action,
		entry.Snapshot, entry.IP, entry.UserAgent, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListBySale devuelve las entradas de auditoría de una venta en orden
// cronológico.
func (r *AuditRepo) ListBySale(saleID string) ([]*entity.AuditEntry, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, sale_id, user_id, action, snapshot, ip, user_agent, created_at
		FROM sale_audit
		WHERE sale_id = $1
		ORDER BY created_at ASC`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		if err := rows.Scan(&e.ID, &e.SaleID, &e.UserID, &e.Action,
			&e.Snapshot, &e.IP, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
