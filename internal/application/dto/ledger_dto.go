package dto

import "time"

// ──────────────────────────────────────────────────────────────────────────────
// Venta
// ──────────────────────────────────────────────────────────────────────────────

// CheckoutLineRequest una línea del pedido. unit_price en cero toma el precio
// del catálogo.
type CheckoutLineRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	Quantity  int64   `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
}

// PaymentRequest un pago del pedido.
type PaymentRequest struct {
	Method string  `json:"method" validate:"required,oneof=efectivo tarjeta transferencia"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// CheckoutRequest entrada de la venta. El personal sale del token, no del
// cuerpo.
type CheckoutRequest struct {
	Discount float64               `json:"discount" validate:"gte=0,lt=1"`
	Lines    []CheckoutLineRequest `json:"lines" validate:"required,min=1,dive"`
	Payments []PaymentRequest      `json:"payments" validate:"required,min=1,dive"`
}

// CheckoutResponse salida de la venta.
type CheckoutResponse struct {
	TransactionID string   `json:"transaction_id"`
	Total         string   `json:"total"`
	Warnings      []string `json:"warnings,omitempty"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Reversa
// ──────────────────────────────────────────────────────────────────────────────

// ReversalLineRequest línea y cantidad a devolver.
type ReversalLineRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
}

// ReversalRequest entrada de la reversa. lines vacío es reversa total.
type ReversalRequest struct {
	Mode  string                `json:"mode" validate:"required,oneof=void damage"`
	Lines []ReversalLineRequest `json:"lines" validate:"omitempty,dive"`
}

// ReversalResponse salida de la reversa. remainder_transaction_id viene solo
// cuando la reversa parcial dividió la venta.
type ReversalResponse struct {
	TransactionID          string   `json:"transaction_id"`
	Status                 string   `json:"status"`
	ReturnedTotal          string   `json:"returned_total"`
	RemainderTransactionID string   `json:"remainder_transaction_id,omitempty"`
	RemainderTotal         string   `json:"remainder_total,omitempty"`
	Warnings               []string `json:"warnings,omitempty"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes de stock
// ──────────────────────────────────────────────────────────────────────────────

// RestockRequest entrada de reabastecimiento. expiry en formato 2006-01-02;
// vacío significa lote sin vencimiento.
type RestockRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Expiry    string `json:"expiry" validate:"omitempty,datetime=2006-01-02"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
	Supplier  string `json:"supplier" validate:"omitempty,max=200"`
}

// UnstockRequest entrada de retiro de stock.
type UnstockRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Expiry    string `json:"expiry" validate:"omitempty,datetime=2006-01-02"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

// AdjustResponse salida de un ajuste de stock.
type AdjustResponse struct {
	LotID    string   `json:"lot_id"`
	Quantity int64    `json:"quantity"`
	Warnings []string `json:"warnings,omitempty"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

// AvailabilityLineRequest una línea a verificar.
type AvailabilityLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

// AvailabilityRequest pedido hipotético a verificar sin mutar nada.
type AvailabilityRequest struct {
	Lines []AvailabilityLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ShortfallResponse faltante de un producto.
type ShortfallResponse struct {
	ProductID string `json:"product_id"`
	Requested int64  `json:"requested"`
	Available int64  `json:"available"`
}

// AvailabilityResponse resultado de la verificación.
type AvailabilityResponse struct {
	Available  bool                `json:"available"`
	Shortfalls []ShortfallResponse `json:"shortfalls,omitempty"`
}

// LotResponse salida de un lote.
type LotResponse struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Expiry    *string `json:"expiry"` // 2006-01-02, null si no vence
	Quantity  int64   `json:"quantity"`
	Unit      string  `json:"unit"`
	Category  string  `json:"category"`
	Brand     string  `json:"brand"`
	Price     string  `json:"price"`
	Supplier  string  `json:"supplier"`
}

// TransactionItemResponse una línea de la transacción.
type TransactionItemResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

// PaymentResponse un pago de la transacción.
type PaymentResponse struct {
	Method string `json:"method"`
	Amount string `json:"amount"`
}

// TransactionResponse salida de una transacción con líneas y pagos.
type TransactionResponse struct {
	ID          string                    `json:"id"`
	Status      string                    `json:"status"`
	TotalAmount string                    `json:"total_amount"`
	Staff       string                    `json:"staff"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
	Items       []TransactionItemResponse `json:"items"`
	Payments    []PaymentResponse         `json:"payments"`
}

// AuditEntryResponse una entrada de la bitácora.
type AuditEntryResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	QuantityDelta int64     `json:"quantity_delta"`
	Action        string    `json:"action"`
	Staff         string    `json:"staff"`
	ExpiryUsed    *string   `json:"expiry_used"` // 2006-01-02, null si el lote no vence
	SourceUUID    string    `json:"source_uuid"`
	CreatedAt     time.Time `json:"created_at"`
}
