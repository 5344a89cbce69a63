package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de la farmacia. El catálogo es
// la fuente de los atributos descriptivos que heredan los lotes; la existencia
// se lleva por lote, no aquí.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	Unit        string // unidad de venta: caja, blíster, frasco...
	Category    string
	Brand       string
	Price       decimal.Decimal // precio de venta base
	Supplier    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Attributes devuelve los atributos descriptivos que hereda un lote nuevo.
func (p *Product) Attributes() LotAttributes {
	return LotAttributes{
		Unit:     p.Unit,
		Category: p.Category,
		Brand:    p.Brand,
		Price:    p.Price,
		Supplier: p.Supplier,
	}
}
