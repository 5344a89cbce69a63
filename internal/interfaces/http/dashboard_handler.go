package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmacore/ledger-api/internal/application/dto"
	"github.com/farmacore/ledger-api/internal/application/reporting"
)

// DashboardHandler resumen del tablero (protegido).
type DashboardHandler struct {
	uc *reporting.SummaryUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *reporting.SummaryUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen del inventario
// @Description  Totales de inventario, lotes próximos a vencer y productos
//
//	con poca existencia. Cacheado unos minutos.
//
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(summary)
}

// OnHand godoc
// @Summary      Existencia por producto
// @Description  Existencia total de cada producto sumando sus lotes, los de
//
//	menor existencia primero. Paginado, sin cache.
//
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "tamaño de página (defecto 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}   dto.ProductOnHandDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/onhand [get]
func (h *DashboardHandler) OnHand(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: err.Error()})
	}
	rows, err := h.uc.ListOnHand(c.Context(), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(rows)
}
