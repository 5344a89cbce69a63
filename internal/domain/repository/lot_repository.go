package repository

import (
	"time"

	"github.com/farmacore/ledger-api/internal/domain/entity"
)

// LotRepository define el puerto de persistencia para lotes.
// Las variantes ForUpdate bloquean las filas (SELECT FOR UPDATE) y solo
// tienen sentido dentro de una transacción: los lotes son el único recurso
// compartido entre operaciones concurrentes del libro de inventario.
type LotRepository interface {
	Create(lot *entity.Lot) error
	// GetByKeyForUpdate busca por identidad (producto, vencimiento) y bloquea
	// la fila; nil si no existe. Todo acceso por clave ocurre dentro de una
	// mutación, por eso no hay variante sin bloqueo.
	GetByKeyForUpdate(productID string, expiry *time.Time) (*entity.Lot, error)
	// ListByProduct devuelve todos los lotes del producto, incluidos los
	// agotados, en orden FIFO (vencimiento ascendente, sin vencimiento al final).
	ListByProduct(productID string) ([]*entity.Lot, error)
	ListByProductForUpdate(productID string) ([]*entity.Lot, error)
	UpdateQuantity(lot *entity.Lot) error
}
