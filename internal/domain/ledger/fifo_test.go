package ledger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmacore/ledger-api/internal/domain"
	"github.com/farmacore/ledger-api/internal/domain/entity"
	"github.com/farmacore/ledger-api/internal/domain/ledger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func expiry(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func lot(id, productID string, exp *time.Time, qty int64) *entity.Lot {
	l, err := entity.NewLot(productID, exp, qty, entity.LotAttributes{
		Unit:  "caja",
		Price: decimal.NewFromInt(100),
	})
	if err != nil {
		panic(err)
	}
	l.ID = id
	return l
}

// ──────────────────────────────────────────────────────────────────────────────
// Consumo FIFO
// ──────────────────────────────────────────────────────────────────────────────

// TestConsume_FIFO reproduce el escenario de referencia: lotes 5, 10 y 10 con
// E1 < E2 < E3; consumir 8 deja 0, 7 y 10 y el primer lote tocado es E1.
func TestConsume_FIFO(t *testing.T) {
	e1 := expiry(2025, time.January, 1)
	e2 := expiry(2025, time.February, 1)
	e3 := expiry(2025, time.March, 1)
	lots := []*entity.Lot{
		lot("l3", "P1", e3, 10),
		lot("l1", "P1", e1, 5),
		lot("l2", "P1", e2, 10),
	}

	res, err := ledger.Consume("P1", lots, 8)
	require.NoError(t, err)

	assert.EqualValues(t, 0, lots[1].Quantity, "E1 se agota")
	assert.EqualValues(t, 7, lots[2].Quantity, "de E2 salen 3")
	assert.EqualValues(t, 10, lots[0].Quantity, "E3 queda intacto")

	require.NotNil(t, res.ExpiryFirstTouched)
	assert.True(t, res.ExpiryFirstTouched.Equal(*e1), "el primer lote tocado es el de vencimiento más próximo")
	assert.Equal(t, "l1", res.FirstTouchedLotID)
	require.Len(t, res.Takes, 2)
	assert.EqualValues(t, 5, res.Takes[0].Taken)
	assert.EqualValues(t, 3, res.Takes[1].Taken)
}

// TestConsume_SinVencimientoAlFinal valida la política documentada: los lotes
// sin vencimiento se consumen de último, después de todos los fechados.
func TestConsume_SinVencimientoAlFinal(t *testing.T) {
	lots := []*entity.Lot{
		lot("sin", "P1", nil, 10),
		lot("con", "P1", expiry(2025, time.June, 1), 4),
	}

	res, err := ledger.Consume("P1", lots, 6)
	require.NoError(t, err)

	assert.EqualValues(t, 0, lots[1].Quantity)
	assert.EqualValues(t, 8, lots[0].Quantity)
	assert.Equal(t, "con", res.FirstTouchedLotID)
	require.NotNil(t, res.ExpiryFirstTouched)
}

// TestConsume_SoloSinVencimiento si el primer lote tocado no tiene fecha,
// ExpiryFirstTouched queda nil pero el lote sí se identifica.
func TestConsume_SoloSinVencimiento(t *testing.T) {
	lots := []*entity.Lot{lot("sin", "P1", nil, 5)}

	res, err := ledger.Consume("P1", lots, 3)
	require.NoError(t, err)
	assert.Nil(t, res.ExpiryFirstTouched)
	assert.Equal(t, "sin", res.FirstTouchedLotID)
	assert.EqualValues(t, 2, lots[0].Quantity)
}

// TestConsume_StockInsuficiente el consumo revalida y falla sin mutar nada
// cuando los lotes no alcanzan.
func TestConsume_StockInsuficiente(t *testing.T) {
	lots := []*entity.Lot{
		lot("l1", "P1", expiry(2025, time.January, 1), 2),
		lot("l2", "P1", nil, 3),
	}

	_, err := ledger.Consume("P1", lots, 6)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Len(t, insufficient.Shortfalls, 1)
	assert.EqualValues(t, 6, insufficient.Shortfalls[0].Requested)
	assert.EqualValues(t, 5, insufficient.Shortfalls[0].Available)

	// Nada se consumió: la validación corre antes de tocar los lotes.
	assert.EqualValues(t, 2, lots[0].Quantity)
	assert.EqualValues(t, 3, lots[1].Quantity)
}

func TestConsume_CantidadInvalida(t *testing.T) {
	lots := []*entity.Lot{lot("l1", "P1", nil, 5)}
	_, err := ledger.Consume("P1", lots, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestConsume_SaltaLotesVacios un lote agotado no cuenta como "primer lote
// tocado": ese campo identifica de qué tanda salió mercancía de verdad.
func TestConsume_SaltaLotesVacios(t *testing.T) {
	e1 := expiry(2025, time.January, 1)
	e2 := expiry(2025, time.February, 1)
	lots := []*entity.Lot{
		lot("vacio", "P1", e1, 0),
		lot("lleno", "P1", e2, 5),
	}

	res, err := ledger.Consume("P1", lots, 2)
	require.NoError(t, err)
	assert.Equal(t, "lleno", res.FirstTouchedLotID)
	assert.True(t, res.ExpiryFirstTouched.Equal(*e2))
}

// ──────────────────────────────────────────────────────────────────────────────
// EarliestLot
// ──────────────────────────────────────────────────────────────────────────────

// TestEarliestLot_IncluyeAgotados la restauración de una anulación entra al
// lote más próximo actual aunque esté en cero.
func TestEarliestLot_IncluyeAgotados(t *testing.T) {
	e1 := expiry(2025, time.January, 1)
	e2 := expiry(2025, time.February, 1)
	lots := []*entity.Lot{
		lot("l2", "P1", e2, 7),
		lot("l1", "P1", e1, 0),
	}

	earliest := ledger.EarliestLot(lots)
	require.NotNil(t, earliest)
	assert.Equal(t, "l1", earliest.ID)
}

func TestEarliestLot_SinLotes(t *testing.T) {
	assert.Nil(t, ledger.EarliestLot(nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Verificador de disponibilidad
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckAvailability_PedidoCompleto(t *testing.T) {
	lotsByProduct := map[string][]*entity.Lot{
		"P1": {lot("a", "P1", expiry(2025, time.January, 1), 5), lot("b", "P1", nil, 10)},
		"P2": {lot("c", "P2", nil, 1)},
	}
	lines := []ledger.OrderLine{
		{ProductID: "P1", Quantity: 12},
		{ProductID: "P2", Quantity: 3},
	}

	shortfalls := ledger.CheckAvailability(lines, lotsByProduct)
	require.Len(t, shortfalls, 1, "solo P2 está corto, pero se evalúa todo el pedido")
	assert.Equal(t, "P2", shortfalls[0].ProductID)
	assert.EqualValues(t, 3, shortfalls[0].Requested)
	assert.EqualValues(t, 1, shortfalls[0].Available)
}

// TestCheckAvailability_LineasRepetidas dos líneas del mismo producto se
// acumulan antes de comparar contra la existencia.
func TestCheckAvailability_LineasRepetidas(t *testing.T) {
	lotsByProduct := map[string][]*entity.Lot{
		"P1": {lot("a", "P1", nil, 5)},
	}
	lines := []ledger.OrderLine{
		{ProductID: "P1", Quantity: 3},
		{ProductID: "P1", Quantity: 3},
	}

	shortfalls := ledger.CheckAvailability(lines, lotsByProduct)
	require.Len(t, shortfalls, 1)
	assert.EqualValues(t, 6, shortfalls[0].Requested)
}

func TestCheckAvailability_SinFaltantes(t *testing.T) {
	lotsByProduct := map[string][]*entity.Lot{
		"P1": {lot("a", "P1", nil, 5)},
	}
	shortfalls := ledger.CheckAvailability([]ledger.OrderLine{{ProductID: "P1", Quantity: 5}}, lotsByProduct)
	assert.Empty(t, shortfalls)
}

// TestCheckAvailability_ProductoSinLotes un producto desconocido para el
// almacén reporta disponible 0.
func TestCheckAvailability_ProductoSinLotes(t *testing.T) {
	shortfalls := ledger.CheckAvailability(
		[]ledger.OrderLine{{ProductID: "P9", Quantity: 1}},
		map[string][]*entity.Lot{},
	)
	require.Len(t, shortfalls, 1)
	assert.EqualValues(t, 0, shortfalls[0].Available)
}
