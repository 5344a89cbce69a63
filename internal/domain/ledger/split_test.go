package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmacore/ledger-api/internal/domain"
	"github.com/farmacore/ledger-api/internal/domain/entity"
	"github.com/farmacore/ledger-api/internal/domain/ledger"
)

// saleTx transacción completada de ejemplo: 8 unidades de P1 a 100 (total 800).
func saleTx() *entity.Transaction {
	return &entity.Transaction{
		ID:          "tx-1",
		Status:      entity.TxStatusCompleted,
		TotalAmount: decimal.NewFromInt(800),
		Items: []*entity.TransactionItem{
			{
				ID:            "item-1",
				TransactionID: "tx-1",
				ProductID:     "P1",
				Quantity:      8,
				UnitPrice:     decimal.NewFromInt(100),
				Subtotal:      decimal.NewFromInt(800),
			},
		},
		Payments: []*entity.Payment{
			{ID: "pay-1", TransactionID: "tx-1", Method: "efectivo", Amount: decimal.NewFromInt(800)},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// BuildSplitPlan
// ──────────────────────────────────────────────────────────────────────────────

// TestBuildSplitPlan_ReversaTotal sin líneas explícitas se devuelve todo:
// no hay porción restante ni transacción hermana.
func TestBuildSplitPlan_ReversaTotal(t *testing.T) {
	plan, err := ledger.BuildSplitPlan(saleTx(), nil)
	require.NoError(t, err)

	assert.True(t, plan.Full)
	assert.True(t, plan.ReturnedTotal.Equal(decimal.NewFromInt(800)))
	assert.True(t, plan.RemainderTotal.IsZero())
	require.Len(t, plan.Returned, 1)
	assert.EqualValues(t, 8, plan.Returned[0].Quantity)
	assert.EqualValues(t, 0, plan.Returned[0].Remaining)
}

// TestBuildSplitPlan_ReversaParcial devolver 3 de 8 divide 800 en 300 + 500
// y el invariante original == devuelto + restante se cumple.
func TestBuildSplitPlan_ReversaParcial(t *testing.T) {
	plan, err := ledger.BuildSplitPlan(saleTx(), []ledger.ReturnLine{{ItemID: "item-1", Quantity: 3}})
	require.NoError(t, err)

	assert.False(t, plan.Full)
	assert.True(t, plan.ReturnedTotal.Equal(decimal.NewFromInt(300)), "porción devuelta")
	assert.True(t, plan.RemainderTotal.Equal(decimal.NewFromInt(500)), "porción retenida")
	require.Len(t, plan.Returned, 1)
	assert.EqualValues(t, 3, plan.Returned[0].Quantity)
	assert.EqualValues(t, 5, plan.Returned[0].Remaining)
}

// TestBuildSplitPlan_CantidadCompletaPorLineas seleccionar explícitamente la
// cantidad completa equivale a una reversa total.
func TestBuildSplitPlan_CantidadCompletaPorLineas(t *testing.T) {
	plan, err := ledger.BuildSplitPlan(saleTx(), []ledger.ReturnLine{{ItemID: "item-1", Quantity: 8}})
	require.NoError(t, err)
	assert.True(t, plan.Full)
	assert.True(t, plan.RemainderTotal.IsZero())
}

func TestBuildSplitPlan_Validaciones(t *testing.T) {
	cases := []struct {
		name  string
		lines []ledger.ReturnLine
		want  error
	}{
		{"línea inexistente", []ledger.ReturnLine{{ItemID: "nope", Quantity: 1}}, domain.ErrNotFound},
		{"cantidad cero", []ledger.ReturnLine{{ItemID: "item-1", Quantity: 0}}, domain.ErrInvalidInput},
		{"cantidad mayor a la original", []ledger.ReturnLine{{ItemID: "item-1", Quantity: 9}}, domain.ErrInvalidInput},
		{"línea duplicada", []ledger.ReturnLine{{ItemID: "item-1", Quantity: 1}, {ItemID: "item-1", Quantity: 2}}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.BuildSplitPlan(saleTx(), tc.lines)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// TestBuildSplitPlan_InvarianteViolado si el total ya persistido no coincide
// con la suma de líneas, el plan falla con ConsistencyError y nada se muta.
func TestBuildSplitPlan_InvarianteViolado(t *testing.T) {
	tx := saleTx()
	tx.TotalAmount = decimal.NewFromInt(900) // cabecera corrupta

	_, err := ledger.BuildSplitPlan(tx, []ledger.ReturnLine{{ItemID: "item-1", Quantity: 3}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConsistency)

	var consistency *domain.ConsistencyError
	require.ErrorAs(t, err, &consistency)
	assert.True(t, consistency.Original.Equal(decimal.NewFromInt(900)))
}

// TestBuildSplitPlan_VariasLineas mezcla de líneas devueltas por completo,
// parcialmente y no tocadas.
func TestBuildSplitPlan_VariasLineas(t *testing.T) {
	tx := &entity.Transaction{
		ID:          "tx-2",
		Status:      entity.TxStatusCompleted,
		TotalAmount: decimal.NewFromFloat(1250.50),
		Items: []*entity.TransactionItem{
			{ID: "a", ProductID: "P1", Quantity: 2, UnitPrice: decimal.NewFromFloat(100.25), Subtotal: decimal.NewFromFloat(200.50)},
			{ID: "b", ProductID: "P2", Quantity: 5, UnitPrice: decimal.NewFromInt(150), Subtotal: decimal.NewFromInt(750)},
			{ID: "c", ProductID: "P3", Quantity: 3, UnitPrice: decimal.NewFromInt(100), Subtotal: decimal.NewFromInt(300)},
		},
	}

	plan, err := ledger.BuildSplitPlan(tx, []ledger.ReturnLine{
		{ItemID: "a", Quantity: 2}, // completa
		{ItemID: "b", Quantity: 1}, // parcial
	})
	require.NoError(t, err)

	assert.False(t, plan.Full)
	assert.True(t, plan.ReturnedTotal.Equal(decimal.NewFromFloat(350.50)))
	assert.True(t, plan.RemainderTotal.Equal(decimal.NewFromInt(900)), "4×150 de P2 + 3×100 de P3")
	require.Len(t, plan.Returned, 2)
	assert.EqualValues(t, 0, plan.Returned[0].Remaining)
	assert.EqualValues(t, 4, plan.Returned[1].Remaining)
}

// ──────────────────────────────────────────────────────────────────────────────
// ProratePayments
// ──────────────────────────────────────────────────────────────────────────────

// TestProratePayments_Escala los pagos clonados se escalan por
// restante/original y se redondean al centavo.
func TestProratePayments_Escala(t *testing.T) {
	payments := []*entity.Payment{
		{Method: "efectivo", Amount: decimal.NewFromInt(500)},
		{Method: "tarjeta", Amount: decimal.NewFromInt(300)},
	}

	cloned := ledger.ProratePayments(payments, decimal.NewFromInt(500), decimal.NewFromInt(800))
	require.Len(t, cloned, 2)
	assert.Equal(t, "efectivo", cloned[0].Method)
	assert.True(t, cloned[0].Amount.Equal(decimal.NewFromFloat(312.50)))
	assert.True(t, cloned[1].Amount.Equal(decimal.NewFromFloat(187.50)))
}

// TestProratePayments_ResiduoDeRedondeo cuando el redondeo deja la suma por
// debajo del total restante, el último pago absorbe la diferencia: la regla
// "la suma de pagos cubre el total" se preserva en la transacción hermana.
func TestProratePayments_ResiduoDeRedondeo(t *testing.T) {
	payments := []*entity.Payment{
		{Method: "efectivo", Amount: decimal.NewFromFloat(33.33)},
		{Method: "tarjeta", Amount: decimal.NewFromFloat(33.33)},
		{Method: "transferencia", Amount: decimal.NewFromFloat(33.34)},
	}
	remainder := decimal.NewFromFloat(50.00)
	original := decimal.NewFromFloat(100.00)

	cloned := ledger.ProratePayments(payments, remainder, original)
	require.Len(t, cloned, 3)

	sum := decimal.Zero
	for _, p := range cloned {
		sum = sum.Add(p.Amount)
	}
	assert.True(t, sum.GreaterThanOrEqual(remainder), "la suma cubre el total restante")
	assert.True(t, sum.Sub(remainder).LessThanOrEqual(decimal.NewFromFloat(0.01)))
}

func TestProratePayments_SinPagos(t *testing.T) {
	assert.Nil(t, ledger.ProratePayments(nil, decimal.NewFromInt(1), decimal.NewFromInt(2)))
}
