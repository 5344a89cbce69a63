package ledger

import (
	"context"
	"time"

	"github.com/farmacore/ledger-api/internal/domain"
	"github.com/farmacore/ledger-api/internal/domain/entity"
	"github.com/farmacore/ledger-api/internal/domain/repository"
)

// QueryUseCase lecturas del libro: transacciones, lotes y bitácora.
// Repositorios atados al pool; ninguna consulta muta datos.
type QueryUseCase struct {
	txRepo    repository.TransactionRepository
	lotRepo   repository.LotRepository
	auditRepo repository.AuditLogRepository
}

// NewQueryUseCase construye el caso de uso de lecturas.
func NewQueryUseCase(
	txRepo repository.TransactionRepository,
	lotRepo repository.LotRepository,
	auditRepo repository.AuditLogRepository,
) *QueryUseCase {
	return &QueryUseCase{txRepo: txRepo, lotRepo: lotRepo, auditRepo: auditRepo}
}

// GetTransaction carga una transacción con líneas y pagos.
func (uc *QueryUseCase) GetTransaction(_ context.Context, id string) (*entity.Transaction, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	tx, err := uc.txRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	return tx, nil
}

// ListTransactions lista transacciones recientes.
func (uc *QueryUseCase) ListTransactions(_ context.Context, limit, offset int) ([]*entity.Transaction, error) {
	return uc.txRepo.List(limit, offset)
}

// ListLots lotes de un producto en orden FIFO, agotados incluidos.
func (uc *QueryUseCase) ListLots(_ context.Context, productID string) ([]*entity.Lot, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.lotRepo.ListByProduct(productID)
}

// ListAuditByProduct bitácora de un producto en un rango de fechas.
func (uc *QueryUseCase) ListAuditByProduct(_ context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.AuditLogEntry, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.auditRepo.ListByProduct(productID, from, to, limit, offset)
}

// ListAuditBySource entradas que trazan a una transacción o lote.
func (uc *QueryUseCase) ListAuditBySource(_ context.Context, sourceUUID string) ([]*entity.AuditLogEntry, error) {
	if sourceUUID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.auditRepo.ListBySource(sourceUUID)
}
