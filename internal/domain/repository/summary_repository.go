package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryTotalsResult totales de inventario al corte.
type InventoryTotalsResult struct {
	ProductsTracked int64
	UnitsOnHand     int64
	InventoryValue  decimal.Decimal // Σ existencia × precio de lote
}

// ProductOnHandResult existencia total de un producto sumando sus lotes.
// Lo produce la DB; el use case lo convierte en DTO.
type ProductOnHandResult struct {
	ProductID string
	SKU       string
	Name      string
	Unit      string
	OnHand    int64
	LotCount  int
}

// ExpiringLotResult un lote con existencia próximo a vencer.
type ExpiringLotResult struct {
	LotID     string
	ProductID string
	SKU       string
	Name      string
	Expiry    time.Time
	Quantity  int64
}

// SummaryRepository define las consultas de lectura para los widgets del
// tablero. Las implementaciones son read-only.
type SummaryRepository interface {
	// GetTotals totales de inventario: productos con lote, unidades y valor.
	GetTotals(ctx context.Context) (*InventoryTotalsResult, error)
	// GetOnHand existencia por producto, los de menor existencia primero.
	GetOnHand(ctx context.Context, limit, offset int) ([]ProductOnHandResult, error)
	// GetExpiringLots lotes con existencia que vencen antes del límite.
	GetExpiringLots(ctx context.Context, before time.Time, limit int) ([]ExpiringLotResult, error)
	// GetLowStock productos cuya existencia total está por debajo del umbral.
	GetLowStock(ctx context.Context, threshold int64, limit int) ([]ProductOnHandResult, error)
}
