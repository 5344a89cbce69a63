package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/farmacore/ledger-api/internal/application/dto"
	"github.com/farmacore/ledger-api/internal/application/ledger"
)

// AuditHandler consultas de la bitácora (protegido).
type AuditHandler struct {
	query *ledger.QueryUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(query *ledger.QueryUseCase) *AuditHandler {
	return &AuditHandler{query: query}
}

// parseDate convierte "2006-01-02" a *time.Time; vacío es sin filtro.
func parseDate(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// ListByProduct godoc
// @Summary      Bitácora de un producto
// @Description  Entradas de la bitácora del producto, opcionalmente acotadas
//
//	por fecha, las más recientes primero.
//
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        from    query  string  false  "desde (AAAA-MM-DD, inclusive)"
// @Param        to      query  string  false  "hasta (AAAA-MM-DD, exclusive)"
// @Param        limit   query  int     false  "máximo por página (default 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}   dto.AuditEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/audit/products/{id} [get]
func (h *AuditHandler) ListByProduct(c *fiber.Ctx) error {
	from, ok := parseDate(c.Query("from"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser AAAA-MM-DD"})
	}
	to, ok := parseDate(c.Query("to"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser AAAA-MM-DD"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	entries, err := h.query.ListAuditByProduct(c.Context(), c.Params("id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return ledgerError(c, err)
	}
	out := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toAuditEntryResponse(e))
	}
	return c.JSON(out)
}

// ListBySource godoc
// @Summary      Bitácora de un origen
// @Description  Todas las entradas ligadas a una venta o a un lote, en orden
//
//	de escritura.
//
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        uuid  path  string  true  "UUID del origen (venta o lote)"
// @Success      200  {array}  dto.AuditEntryResponse
// @Router       /api/audit/sources/{uuid} [get]
func (h *AuditHandler) ListBySource(c *fiber.Ctx) error {
	entries, err := h.query.ListAuditBySource(c.Context(), c.Params("uuid"))
	if err != nil {
		return ledgerError(c, err)
	}
	out := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toAuditEntryResponse(e))
	}
	return c.JSON(out)
}
