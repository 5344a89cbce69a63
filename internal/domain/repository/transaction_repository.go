package repository

import (
	"github.com/shopspring/decimal"

	"github.com/farmacore/ledger-api/internal/domain/entity"
)

// TransactionRepository define el puerto de persistencia para transacciones
// comerciales con sus líneas y pagos.
type TransactionRepository interface {
	Create(tx *entity.Transaction) error
	CreateItem(item *entity.TransactionItem) error
	CreatePayment(payment *entity.Payment) error
	// GetByID carga la transacción con líneas y pagos; nil si no existe.
	GetByID(id string) (*entity.Transaction, error)
	// GetByIDForUpdate además bloquea la cabecera, para que dos reversas
	// concurrentes sobre la misma venta se serialicen.
	GetByIDForUpdate(id string) (*entity.Transaction, error)
	UpdateStatusAndTotal(id, status string, total decimal.Decimal) error
	UpdateItemQuantity(itemID string, quantity int64, subtotal decimal.Decimal) error
	DeleteItem(itemID string) error
	List(limit, offset int) ([]*entity.Transaction, error)
}
