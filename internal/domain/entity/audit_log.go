package entity

import "time"

// Acciones que afectan el stock y quedan en la bitácora.
const (
	ActionSale           = "Sale"
	ActionVoid           = "Void"
	ActionReturnAsDamage = "ReturnAsDamage"
	ActionRestock        = "Restock"
	ActionUnstock        = "Unstock"
)

// AuditLogEntry registro inmutable de una acción que afectó stock.
// QuantityDelta es con signo respecto al inventario vendible: negativo para
// Sale/Unstock, positivo para Void/Restock. ReturnAsDamage registra la
// cantidad devuelta en positivo aunque no mueve stock (la mercancía se
// considera destruida, no vuelve al inventario).
type AuditLogEntry struct {
	ID            string
	ProductID     string
	QuantityDelta int64
	Action        string
	Staff         string
	ExpiryUsed    *time.Time // vencimiento del primer lote tocado; nil si no aplica
	SourceUUID    string     // transacción o lote al que traza la acción
	CreatedAt     time.Time
}
