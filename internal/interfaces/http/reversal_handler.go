package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmacore/ledger-api/internal/application/dto"
	"github.com/farmacore/ledger-api/internal/application/ledger"
)

// ReversalHandler maneja anulaciones y devoluciones por daño (protegido).
type ReversalHandler struct {
	uc *ledger.ReversalUseCase
}

// NewReversalHandler construye el handler.
func NewReversalHandler(uc *ledger.ReversalUseCase) *ReversalHandler {
	return &ReversalHandler{uc: uc}
}

// Reverse godoc
// @Summary      Anular o devolver por daño una venta
// @Description  Con lines la reversa es parcial y divide la venta en dos:
//
//	la original queda en estado terminal con la porción devuelta
//	y nace una transacción nueva con la porción retenida. En modo
//	void la mercancía vuelve al inventario; en modo damage no.
//
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la transacción"
// @Param        body  body  dto.ReversalRequest  true  "mode, lines (opcional)"
// @Success      200   {object}  dto.ReversalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/transactions/{id}/reverse [post]
func (h *ReversalHandler) Reverse(c *fiber.Ctx) error {
	staff := GetStaffName(c)
	if staff == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReversalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	input := ledger.ReversalInput{
		Staff:         staff,
		TransactionID: c.Params("id"),
		Mode:          in.Mode,
		Lines:         make([]ledger.ReversalLine, 0, len(in.Lines)),
	}
	for _, line := range in.Lines {
		input.Lines = append(input.Lines, ledger.ReversalLine{ItemID: line.ItemID, Quantity: line.Quantity})
	}

	res, err := h.uc.Reverse(c.Context(), input)
	if err != nil {
		return ledgerError(c, err)
	}
	out := dto.ReversalResponse{
		TransactionID: res.TransactionID,
		Status:        res.Status,
		ReturnedTotal: res.ReturnedTotal.StringFixed(2),
		Warnings:      res.Warnings,
	}
	if res.RemainderTransactionID != "" {
		out.RemainderTransactionID = res.RemainderTransactionID
		out.RemainderTotal = res.RemainderTotal.StringFixed(2)
	}
	return c.JSON(out)
}
