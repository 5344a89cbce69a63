package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmacore/ledger-api/internal/application/dto"
	"github.com/farmacore/ledger-api/internal/application/ledger"
)

// TransactionHandler consultas de transacciones y recibos (protegido).
type TransactionHandler struct {
	query   *ledger.QueryUseCase
	receipt *ledger.ReceiptUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(query *ledger.QueryUseCase, receipt *ledger.ReceiptUseCase) *TransactionHandler {
	return &TransactionHandler{query: query, receipt: receipt}
}

// GetByID godoc
// @Summary      Consultar una transacción
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	tx, err := h.query.GetTransaction(c.Context(), c.Params("id"))
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(toTransactionResponse(tx))
}

// List godoc
// @Summary      Listar transacciones
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo por página (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	txs, err := h.query.ListTransactions(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return ledgerError(c, err)
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Recibo PDF de una transacción
// @Tags         transactions
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la transacción"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id}/receipt [get]
func (h *TransactionHandler) Receipt(c *fiber.Ctx) error {
	pdfBytes, err := h.receipt.Generate(c.Context(), c.Params("id"))
	if err != nil {
		return ledgerError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="recibo.pdf"`)
	return c.Send(pdfBytes)
}
