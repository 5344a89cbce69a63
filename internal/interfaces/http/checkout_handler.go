package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/farmacore/ledger-api/internal/application/dto"
	"github.com/farmacore/ledger-api/internal/application/ledger"
)

// CheckoutHandler maneja las ventas (protegido).
type CheckoutHandler struct {
	uc *ledger.CheckoutUseCase
}

// NewCheckoutHandler construye el handler.
func NewCheckoutHandler(uc *ledger.CheckoutUseCase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

// Checkout godoc
// @Summary      Cobrar una venta
// @Description  Crea la transacción con sus líneas y pagos y consume los
//
//	lotes en orden de vencimiento. Todo o nada: si una sola línea
//	no tiene stock, ninguna se cobra.
//
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "lines, payments, discount"
// @Success      201   {object}  dto.CheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/checkout [post]
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	staff := GetStaffName(c)
	if staff == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	input := ledger.CheckoutInput{
		Staff:    staff,
		Discount: decimal.NewFromFloat(in.Discount),
		Lines:    make([]ledger.CheckoutLine, 0, len(in.Lines)),
		Payments: make([]ledger.PaymentInput, 0, len(in.Payments)),
	}
	for _, line := range in.Lines {
		input.Lines = append(input.Lines, ledger.CheckoutLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: decimal.NewFromFloat(line.UnitPrice),
		})
	}
	for _, p := range in.Payments {
		input.Payments = append(input.Payments, ledger.PaymentInput{
			Method: p.Method,
			Amount: decimal.NewFromFloat(p.Amount),
		})
	}

	res, err := h.uc.Checkout(c.Context(), input)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CheckoutResponse{
		TransactionID: res.TransactionID,
		Total:         res.Total.StringFixed(2),
		Warnings:      res.Warnings,
	})
}
