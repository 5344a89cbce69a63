package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmacore/ledger-api/internal/application/ledger"
	"github.com/farmacore/ledger-api/internal/domain"
	"github.com/farmacore/ledger-api/internal/domain/entity"
)

func newAdjust(s *memStore) *ledger.AdjustUseCase {
	return ledger.NewAdjustUseCase(&memTxRunner{s}, nil)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reabastecimiento
// ──────────────────────────────────────────────────────────────────────────────

// TestRestock_Acumula reabastecer 3 y luego 2 sobre la misma clave equivale a
// reabastecer 5: mismo lote, existencia acumulada.
func TestRestock_Acumula(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "P1", 100)
	uc := newAdjust(s)

	first, err := uc.Restock(context.Background(), ledger.RestockInput{
		Staff: "Ana", ProductID: "P1", Expiry: expiryAt(2025, 6, 1), Quantity: 3,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, first.Quantity)

	second, err := uc.Restock(context.Background(), ledger.RestockInput{
		Staff: "Ana", ProductID: "P1", Expiry: expiryAt(2025, 6, 1), Quantity: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, first.LotID, second.LotID, "la clave (producto, vencimiento) identifica al lote")
	assert.EqualValues(t, 5, second.Quantity)
	require.Len(t, s.lots, 1)
	assert.EqualValues(t, 5, s.lots[0].Quantity)
}

// TestRestock_VencimientosDistintos la misma fecha con hora distinta
// normaliza a la misma clave; una fecha distinta abre otro lote.
func TestRestock_VencimientosDistintos(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "P1", 100)
	uc := newAdjust(s)

	noon := expiryAt(2025, 6, 1).Add(12 * time.Hour)
	_, err := uc.Restock(context.Background(), ledger.RestockInput{
		Staff: "Ana", ProductID: "P1", Expiry: expiryAt(2025, 6, 1), Quantity: 3,
	})
	require.NoError(t, err)
	_, err = uc.Restock(context.Background(), ledger.RestockInput{
		Staff: "Ana", ProductID: "P1", Expiry: &noon, Quantity: 2,
	})
	require.NoError(t, err)
	require.Len(t, s.lots, 1, "la hora se descarta al normalizar el vencimiento")

	_, err = uc.Restock(context.Background(), ledger.RestockInput{
		Staff: "Ana", ProductID: "P1", Expiry: expiryAt(2025, 7, 1), Quantity: 4,
	})
	require.NoError(t, err)
	assert.Len(t, s.lots, 2)
}

// TestRestock_HeredaAtributos el primer lote hereda del catálogo; los
// siguientes, de un lote hermano.
func TestRestock_HeredaAtributos(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "P1", 100)
	uc := newAdjust(s)

	res, err := uc.Restock(context.Background(), ledger.RestockInput{
		Staff: "Ana", ProductID: "P1", Quantity: 10, Supplier: "Droguería Norte",
	})
	require.NoError(t, err)

	created := s.lotByID(res.LotID)
	require.NotNil(t, created)
	assert.Nil(t, created.Expiry, "sin vencimiento explícito el lote queda sin fecha")
	assert.Equal(t, "caja", created.Unit)
	assert.Equal(t, "Genfar", created.Brand)
	assert.Equal(t, "Droguería Norte", created.Supplier, "el proveedor de la entrada manda")

	// El segundo lote copia del hermano, no del catálogo.
	s.products["P1"].Unit = "frasco"
	res2, err := uc.Restock(context.Background(), ledger.RestockInput{
		Staff: "Ana", ProductID: "P1", Expiry: expiryAt(2026, 1, 1), Quantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "caja", s.lotByID(res2.LotID).Unit)
}

// TestRestock_ProductoDesconocido sin lote hermano ni producto en catálogo no
// hay de dónde heredar.
func TestRestock_ProductoDesconocido(t *testing.T) {
	s := newMemStore()
	_, err := newAdjust(s).Restock(context.Background(), ledger.RestockInput{
		Staff: "Ana", ProductID: "fantasma", Quantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestRestock_Bitacora la entrada registra delta positivo y el lote receptor
// como origen.
func TestRestock_Bitacora(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "P1", 100)

	res, err := newAdjust(s).Restock(context.Background(), ledger.RestockInput{
		Staff: "Ana", ProductID: "P1", Expiry: expiryAt(2025, 6, 1), Quantity: 7,
	})
	require.NoError(t, err)

	require.Len(t, s.audit, 1)
	entry := s.audit[0]
	assert.Equal(t, entity.ActionRestock, entry.Action)
	assert.EqualValues(t, 7, entry.QuantityDelta)
	assert.Equal(t, res.LotID, entry.SourceUUID)
	require.NotNil(t, entry.ExpiryUsed)
	assert.True(t, entry.ExpiryUsed.Equal(*expiryAt(2025, 6, 1)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Retiro
// ──────────────────────────────────────────────────────────────────────────────

func TestUnstock_Resta(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "P1", 100)
	seedLot(s, "L1", "P1", expiryAt(2025, 6, 1), 10, 100)

	res, err := newAdjust(s).Unstock(context.Background(), ledger.UnstockInput{
		Staff: "Ana", ProductID: "P1", Expiry: expiryAt(2025, 6, 1), Quantity: 4,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 6, res.Quantity)
	assert.EqualValues(t, 6, s.lotQty("L1"))

	require.Len(t, s.audit, 1)
	assert.Equal(t, entity.ActionUnstock, s.audit[0].Action)
	assert.EqualValues(t, -4, s.audit[0].QuantityDelta)
}

// TestUnstock_SinSobregiro retirar más de la existencia se rechaza y el lote
// queda intacto.
func TestUnstock_SinSobregiro(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "P1", 100)
	seedLot(s, "L1", "P1", expiryAt(2025, 6, 1), 3, 100)

	_, err := newAdjust(s).Unstock(context.Background(), ledger.UnstockInput{
		Staff: "Ana", ProductID: "P1", Expiry: expiryAt(2025, 6, 1), Quantity: 4,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.EqualValues(t, 3, s.lotQty("L1"))
	assert.Empty(t, s.audit)
}

// TestUnstock_LoteInexistente el retiro jamás crea lotes: clave desconocida
// es NotFound.
func TestUnstock_LoteInexistente(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "P1", 100)
	seedLot(s, "L1", "P1", expiryAt(2025, 6, 1), 3, 100)

	_, err := newAdjust(s).Unstock(context.Background(), ledger.UnstockInput{
		Staff: "Ana", ProductID: "P1", Expiry: expiryAt(2025, 7, 1), Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, s.lots, 1)
}

func TestAdjust_Validaciones(t *testing.T) {
	s := newMemStore()
	uc := newAdjust(s)

	_, err := uc.Restock(context.Background(), ledger.RestockInput{Staff: "Ana", ProductID: "P1", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Restock(context.Background(), ledger.RestockInput{ProductID: "P1", Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Unstock(context.Background(), ledger.UnstockInput{Staff: "Ana", ProductID: "P1", Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Unstock(context.Background(), ledger.UnstockInput{Staff: "Ana", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
