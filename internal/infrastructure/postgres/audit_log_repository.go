package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/farmacore/ledger-api/internal/domain/entity"
	"github.com/farmacore/ledger-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo implementación de AuditLogRepository sobre PostgreSQL. La
// bitácora es append-only: no hay update ni delete.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador de bitácora.
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Create persiste una entrada de bitácora.
func (r *AuditLogRepo) Create(entry *entity.AuditLogEntry) error {
	query := `
		INSERT INTO audit_log (id, product_id, quantity_delta, action, staff, expiry_used, source_uuid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ProductID, entry.QuantityDelta, entry.Action, entry.Staff,
		entry.ExpiryUsed, entry.SourceUUID, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListByProduct entradas de un producto, opcionalmente acotadas por fecha,
// las más recientes primero.
func (r *AuditLogRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.AuditLogEntry, error) {
	query := `
		SELECT id, product_id, quantity_delta, action, staff, expiry_used, source_uuid, created_at
		FROM audit_log
		WHERE product_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at < $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, productID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit by product: %w", err)
	}
	defer rows.Close()
	return scanAuditEntries(rows)
}

// ListBySource entradas ligadas a un origen (venta o lote), en orden de
// escritura.
func (r *AuditLogRepo) ListBySource(sourceUUID string) ([]*entity.AuditLogEntry, error) {
	query := `
		SELECT id, product_id, quantity_delta, action, staff, expiry_used, source_uuid, created_at
		FROM audit_log WHERE source_uuid = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, sourceUUID)
	if err != nil {
		return nil, fmt.Errorf("list audit by source: %w", err)
	}
	defer rows.Close()
	return scanAuditEntries(rows)
}

func scanAuditEntries(rows pgx.Rows) ([]*entity.AuditLogEntry, error) {
	var list []*entity.AuditLogEntry
	for rows.Next() {
		var e entity.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.QuantityDelta, &e.Action, &e.Staff, &e.ExpiryUsed, &e.SourceUUID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
