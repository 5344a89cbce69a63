package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// KPIs de inventario calculados en SQL y cacheados en Redis.
type DashboardSummaryDTO struct {
	// Totales de inventario al corte
	ProductsTracked int64           `json:"products_tracked"` // productos con al menos un lote
	UnitsOnHand     int64           `json:"units_on_hand"`    // suma de existencias de todos los lotes
	InventoryValue  decimal.Decimal `json:"inventory_value"`  // Σ existencia × precio de lote

	// Alertas
	ExpiringSoon []ExpiringLotDTO `json:"expiring_soon"` // lotes que vencen dentro de la ventana
	LowStock     []LowStockDTO    `json:"low_stock"`     // productos bajo el umbral

	// Metadatos del corte
	DateLabel string `json:"date_label"` // fecha del corte, 2006-01-02
}

// ExpiringLotDTO un lote próximo a vencer para el widget de alertas.
type ExpiringLotDTO struct {
	LotID       string `json:"lot_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Expiry      string `json:"expiry"` // 2006-01-02
	Quantity    int64  `json:"quantity"`
}

// LowStockDTO un producto con existencia total bajo el umbral.
type LowStockDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	OnHand      int64  `json:"on_hand"`
	Threshold   int64  `json:"threshold"`
}

// ProductOnHandDTO existencia total de un producto sumando sus lotes, para
// el listado de GET /api/dashboard/onhand (menor existencia primero).
type ProductOnHandDTO struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	OnHand    int64  `json:"on_hand"`
	LotCount  int    `json:"lot_count"`
}
