package ledger

import (
	"context"

	"github.com/farmacore/ledger-api/internal/domain/entity"
	"github.com/farmacore/ledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Cada operación del libro (venta, reversa,
// ajuste) es una sola unidad de trabajo: o todo queda visible o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		txRepo repository.TransactionRepository,
		auditRepo repository.AuditLogRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// AuditNotifier publica al sink externo (tablero, notificaciones) las
// entradas de bitácora ya confirmadas en BD. Su falla jamás revierte la
// mutación que describe: se degrada a advertencia en la respuesta.
type AuditNotifier interface {
	Publish(ctx context.Context, entries []*entity.AuditLogEntry) error
}

// ReceiptGenerator genera el comprobante PDF de una transacción.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, tx *entity.Transaction, products map[string]*entity.Product) ([]byte, error)
}
