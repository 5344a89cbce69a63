package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/farmacore/ledger-api/internal/application/dto"
	"github.com/farmacore/ledger-api/internal/domain"
	"github.com/farmacore/ledger-api/internal/domain/entity"
)

// ledgerError mapea la taxonomía de errores del libro a HTTP. Los handlers
// de venta, reversa y ajuste comparten exactamente la misma tabla:
//
//	entrada inválida → 400, no existe → 404, stock insuficiente → 409,
//	estado terminal → 409, invariante roto → 422, resto → 500.
func ledgerError(c *fiber.Ctx, err error) error {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		shortfalls := make([]dto.ShortfallResponse, 0, len(stockErr.Shortfalls))
		for _, s := range stockErr.Shortfalls {
			shortfalls = append(shortfalls, dto.ShortfallResponse{
				ProductID: s.ProductID, Requested: s.Requested, Available: s.Available,
			})
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":       "INSUFFICIENT_STOCK",
			"message":    "stock insuficiente",
			"shortfalls": shortfalls,
		})
	}
	var consistencyErr *domain.ConsistencyError
	if errors.As(err, &consistencyErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "CONSISTENCY", Message: consistencyErr.Error(),
		})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// ── Mapeo entidad → DTO ───────────────────────────────────────────────────────

func formatExpiry(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func toLotResponse(l *entity.Lot) dto.LotResponse {
	return dto.LotResponse{
		ID:        l.ID,
		ProductID: l.ProductID,
		Expiry:    formatExpiry(l.Expiry),
		Quantity:  l.Quantity,
		Unit:      l.Unit,
		Category:  l.Category,
		Brand:     l.Brand,
		Price:     l.Price.StringFixed(2),
		Supplier:  l.Supplier,
	}
}

func toTransactionResponse(tx *entity.Transaction) dto.TransactionResponse {
	out := dto.TransactionResponse{
		ID:          tx.ID,
		Status:      tx.Status,
		TotalAmount: tx.TotalAmount.StringFixed(2),
		Staff:       tx.Staff,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
		Items:       make([]dto.TransactionItemResponse, 0, len(tx.Items)),
		Payments:    make([]dto.PaymentResponse, 0, len(tx.Payments)),
	}
	for _, it := range tx.Items {
		out.Items = append(out.Items, dto.TransactionItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Subtotal:  it.Subtotal.StringFixed(2),
		})
	}
	for _, p := range tx.Payments {
		out.Payments = append(out.Payments, dto.PaymentResponse{
			Method: p.Method,
			Amount: p.Amount.StringFixed(2),
		})
	}
	return out
}

func toAuditEntryResponse(e *entity.AuditLogEntry) dto.AuditEntryResponse {
	return dto.AuditEntryResponse{
		ID:            e.ID,
		ProductID:     e.ProductID,
		QuantityDelta: e.QuantityDelta,
		Action:        e.Action,
		Staff:         e.Staff,
		ExpiryUsed:    formatExpiry(e.ExpiryUsed),
		SourceUUID:    e.SourceUUID,
		CreatedAt:     e.CreatedAt,
	}
}
