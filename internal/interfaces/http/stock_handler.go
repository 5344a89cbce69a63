package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/farmacore/ledger-api/internal/application/dto"
	"github.com/farmacore/ledger-api/internal/application/ledger"
)

// StockHandler maneja ajustes de stock, lotes y disponibilidad (protegido).
type StockHandler struct {
	adjust       *ledger.AdjustUseCase
	availability *ledger.AvailabilityUseCase
	query        *ledger.QueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(adjust *ledger.AdjustUseCase, availability *ledger.AvailabilityUseCase, query *ledger.QueryUseCase) *StockHandler {
	return &StockHandler{adjust: adjust, availability: availability, query: query}
}

// parseExpiry convierte "2006-01-02" a *time.Time; vacío es lote sin
// vencimiento.
func parseExpiry(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// Restock godoc
// @Summary      Reabastecer un lote
// @Description  Suma unidades al lote (producto, vencimiento); lo crea si no
//
//	existe heredando atributos de un lote hermano o del catálogo.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RestockRequest  true  "product_id, expiry, quantity, supplier"
// @Success      200   {object}  dto.AdjustResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/restock [post]
func (h *StockHandler) Restock(c *fiber.Ctx) error {
	staff := GetStaffName(c)
	if staff == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RestockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	expiry, ok := parseExpiry(in.Expiry)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "expiry debe ser AAAA-MM-DD"})
	}
	res, err := h.adjust.Restock(c.Context(), ledger.RestockInput{
		Staff:     staff,
		ProductID: in.ProductID,
		Expiry:    expiry,
		Quantity:  in.Quantity,
		Supplier:  in.Supplier,
	})
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(dto.AdjustResponse{LotID: res.LotID, Quantity: res.Quantity, Warnings: res.Warnings})
}

// Unstock godoc
// @Summary      Retirar stock de un lote
// @Description  Resta unidades de un lote existente. Nunca crea lotes ni
//
//	deja existencias negativas.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UnstockRequest  true  "product_id, expiry, quantity"
// @Success      200   {object}  dto.AdjustResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/unstock [post]
func (h *StockHandler) Unstock(c *fiber.Ctx) error {
	staff := GetStaffName(c)
	if staff == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UnstockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	expiry, ok := parseExpiry(in.Expiry)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "expiry debe ser AAAA-MM-DD"})
	}
	res, err := h.adjust.Unstock(c.Context(), ledger.UnstockInput{
		Staff:     staff,
		ProductID: in.ProductID,
		Expiry:    expiry,
		Quantity:  in.Quantity,
	})
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(dto.AdjustResponse{LotID: res.LotID, Quantity: res.Quantity, Warnings: res.Warnings})
}

// CheckAvailability godoc
// @Summary      Verificar disponibilidad de un pedido
// @Description  Evalúa el pedido completo sin mutar nada y devuelve los
//
//	faltantes por producto.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AvailabilityRequest  true  "lines"
// @Success      200   {object}  dto.AvailabilityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/availability [post]
func (h *StockHandler) CheckAvailability(c *fiber.Ctx) error {
	var in dto.AvailabilityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines := make([]ledger.AvailabilityLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, ledger.AvailabilityLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	shortfalls, err := h.availability.Check(c.Context(), lines)
	if err != nil {
		return ledgerError(c, err)
	}
	out := dto.AvailabilityResponse{Available: len(shortfalls) == 0}
	for _, s := range shortfalls {
		out.Shortfalls = append(out.Shortfalls, dto.ShortfallResponse{
			ProductID: s.ProductID, Requested: s.Requested, Available: s.Available,
		})
	}
	return c.JSON(out)
}

// ListLots godoc
// @Summary      Lotes de un producto
// @Description  Todos los lotes del producto en orden de consumo, los
//
//	agotados incluidos.
//
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {array}   dto.LotResponse
// @Router       /api/products/{id}/lots [get]
func (h *StockHandler) ListLots(c *fiber.Ctx) error {
	lots, err := h.query.ListLots(c.Context(), c.Params("id"))
	if err != nil {
		return ledgerError(c, err)
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, toLotResponse(l))
	}
	return c.JSON(out)
}
