package repository

import (
	"time"

	"github.com/farmacore/ledger-api/internal/domain/entity"
)

// AuditLogRepository define el puerto de la bitácora: solo inserción y
// lectura, nunca actualización ni borrado (registro append-only).
type AuditLogRepository interface {
	Create(entry *entity.AuditLogEntry) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.AuditLogEntry, error)
	// ListBySource entradas que trazan a una misma transacción o lote.
	ListBySource(sourceUUID string) ([]*entity.AuditLogEntry, error)
}
