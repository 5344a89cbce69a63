package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmacore/ledger-api/internal/domain"
)

// Lot representa un lote de stock: la cantidad en existencia de un producto
// que comparte una misma fecha de vencimiento. La identidad del lote es
// (ProductID, Expiry); Expiry nil significa "sin vencimiento registrado".
// Un lote agotado (Quantity == 0) no se elimina: queda como registro histórico
// y puede volver a recibir unidades por una anulación o un reabastecimiento.
type Lot struct {
	ID        string
	ProductID string
	Expiry    *time.Time // solo fecha, medianoche UTC; nil = sin vencimiento
	Quantity  int64      // invariante: nunca negativa
	Unit      string
	Category  string
	Brand     string
	Price     decimal.Decimal // precio de venta heredado del producto
	Supplier  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LotAttributes atributos descriptivos que el lote hereda del producto
// (o de un lote hermano) al crearse.
type LotAttributes struct {
	Unit     string
	Category string
	Brand    string
	Price    decimal.Decimal
	Supplier string
}

// NewLot construye un lote nuevo validando la cantidad inicial.
func NewLot(productID string, expiry *time.Time, quantity int64, attrs LotAttributes) (*Lot, error) {
	if productID == "" || quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	return &Lot{
		ID:        uuid.New().String(),
		ProductID: productID,
		Expiry:    NormalizeExpiry(expiry),
		Quantity:  quantity,
		Unit:      attrs.Unit,
		Category:  attrs.Category,
		Brand:     attrs.Brand,
		Price:     attrs.Price,
		Supplier:  attrs.Supplier,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Add suma unidades al lote (anulación de venta o reabastecimiento).
func (l *Lot) Add(quantity int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	l.Quantity += quantity
	l.UpdatedAt = time.Now()
	return nil
}

// Deduct resta unidades del lote. Falla con ErrInsufficientStock si la
// cantidad pedida supera la existencia: un lote jamás queda en negativo.
func (l *Lot) Deduct(quantity int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if quantity > l.Quantity {
		return domain.ErrInsufficientStock
	}
	l.Quantity -= quantity
	l.UpdatedAt = time.Now()
	return nil
}

// IsExpired indica si el lote está vencido a la fecha dada.
func (l *Lot) IsExpired(at time.Time) bool {
	if l.Expiry == nil {
		return false
	}
	return l.Expiry.Before(at)
}

// NormalizeExpiry trunca la fecha a medianoche UTC para que la identidad
// (producto, vencimiento) no dependa de la hora ni de la zona horaria.
func NormalizeExpiry(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

// SameExpiry compara dos vencimientos ya normalizados; dos nil son iguales.
func SameExpiry(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// ExpiryBefore define el orden FIFO entre vencimientos: fechas ascendentes
// y los lotes sin vencimiento al final (política documentada: lo que no
// vence no apura, se consume de último).
func ExpiryBefore(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.Before(*b)
}
