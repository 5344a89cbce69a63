package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una transacción comercial. completed es el único estado inicial;
// voided y damaged son terminales y solo se alcanzan desde completed.
const (
	TxStatusCompleted = "completed"
	TxStatusVoided    = "voided"
	TxStatusDamaged   = "damaged"
)

// Transaction representa un evento comercial (una venta de mostrador).
// Una reversa parcial no muta esta transacción en otra: crea una transacción
// hermana en completed con la porción no devuelta.
type Transaction struct {
	ID          string
	Status      string
	TotalAmount decimal.Decimal
	Staff       string // nombre visible del personal que atendió
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Items       []*TransactionItem
	Payments    []*Payment
}

// TransactionItem una línea de la transacción. Subtotal = Quantity × UnitPrice.
type TransactionItem struct {
	ID            string
	TransactionID string
	ProductID     string
	Quantity      int64
	UnitPrice     decimal.Decimal
	Subtotal      decimal.Decimal
}

// Payment un pago aplicado a la transacción. Invariante al crear la venta:
// la suma de pagos cubre el total con descuento.
type Payment struct {
	ID            string
	TransactionID string
	Method        string // efectivo, tarjeta, transferencia...
	Amount        decimal.Decimal
}

// CanReverse indica si la transacción admite anulación o devolución por daño.
func (t *Transaction) CanReverse() bool {
	return t.Status == TxStatusCompleted
}

// ItemByID busca una línea por su ID; nil si no pertenece a la transacción.
func (t *Transaction) ItemByID(id string) *TransactionItem {
	for _, it := range t.Items {
		if it.ID == id {
			return it
		}
	}
	return nil
}
