package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/farmacore/ledger-api/internal/domain"
	"github.com/farmacore/ledger-api/internal/domain/entity"
)

// consistencyTolerance tolerancia de redondeo del invariante de división:
// un centavo, la unidad monetaria mínima.
var consistencyTolerance = decimal.NewFromFloat(0.01)

// ReturnLine selección explícita a revertir: una línea de la transacción y
// la cantidad a devolver (0 < cantidad <= cantidad original de la línea).
type ReturnLine struct {
	ItemID   string
	Quantity int64
}

// ReturnedItem una línea afectada por la reversa, con la cantidad devuelta
// y la que queda en la transacción hermana (0 = la línea desaparece).
type ReturnedItem struct {
	ItemID    string
	ProductID string
	Quantity  int64 // cantidad devuelta
	Remaining int64 // cantidad que permanece vendida
	UnitPrice decimal.Decimal
}

// SplitPlan plan de una reversa: qué se devuelve, qué queda, y los totales
// de cada porción. Full indica que la reversa cubre la transacción completa
// (no se crea transacción hermana).
type SplitPlan struct {
	Returned       []ReturnedItem
	ReturnedTotal  decimal.Decimal
	RemainderTotal decimal.Decimal
	Full           bool
}

// BuildSplitPlan valida la selección y calcula la división. Sin líneas
// explícitas la reversa es total (toda línea, cantidad completa). Verifica
// el invariante original == devuelto + restante antes de cualquier mutación;
// el caso de uso lo vuelve a verificar después de persistir.
func BuildSplitPlan(tx *entity.Transaction, lines []ReturnLine) (*SplitPlan, error) {
	plan := &SplitPlan{
		ReturnedTotal:  decimal.Zero,
		RemainderTotal: decimal.Zero,
	}

	if len(lines) == 0 {
		// Reversa total: cada línea, cantidad original completa.
		for _, it := range tx.Items {
			plan.Returned = append(plan.Returned, ReturnedItem{
				ItemID:    it.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Remaining: 0,
				UnitPrice: it.UnitPrice,
			})
			plan.ReturnedTotal = plan.ReturnedTotal.Add(it.Subtotal)
		}
		plan.Full = true
		return plan, checkSplitInvariant(tx.TotalAmount, plan)
	}

	selected := make(map[string]int64, len(lines))
	for _, line := range lines {
		item := tx.ItemByID(line.ItemID)
		if item == nil {
			return nil, domain.ErrNotFound
		}
		if _, dup := selected[line.ItemID]; dup {
			return nil, domain.ErrInvalidInput
		}
		if line.Quantity <= 0 || line.Quantity > item.Quantity {
			return nil, domain.ErrInvalidInput
		}
		selected[line.ItemID] = line.Quantity
	}

	full := true
	for _, it := range tx.Items {
		returned := selected[it.ID]
		remaining := it.Quantity - returned
		if remaining > 0 {
			full = false
			plan.RemainderTotal = plan.RemainderTotal.Add(it.UnitPrice.Mul(decimal.NewFromInt(remaining)))
		}
		if returned > 0 {
			plan.Returned = append(plan.Returned, ReturnedItem{
				ItemID:    it.ID,
				ProductID: it.ProductID,
				Quantity:  returned,
				Remaining: remaining,
				UnitPrice: it.UnitPrice,
			})
			plan.ReturnedTotal = plan.ReturnedTotal.Add(it.UnitPrice.Mul(decimal.NewFromInt(returned)))
		}
	}
	plan.Full = full
	return plan, checkSplitInvariant(tx.TotalAmount, plan)
}

// checkSplitInvariant original == devuelto + restante dentro de la tolerancia.
func checkSplitInvariant(original decimal.Decimal, plan *SplitPlan) error {
	diff := original.Sub(plan.ReturnedTotal).Sub(plan.RemainderTotal).Abs()
	if diff.GreaterThan(consistencyTolerance) {
		return &domain.ConsistencyError{
			Original:  original,
			Returned:  plan.ReturnedTotal,
			Remainder: plan.RemainderTotal,
		}
	}
	return nil
}

// ProratePayments clona los pagos de la transacción original escalados por
// remainder/original y redondeados al centavo. El último pago absorbe el
// residuo de redondeo para que la suma siga cubriendo el total restante.
func ProratePayments(payments []*entity.Payment, remainderTotal, originalTotal decimal.Decimal) []*entity.Payment {
	if len(payments) == 0 || originalTotal.IsZero() {
		return nil
	}
	ratio := remainderTotal.Div(originalTotal)

	cloned := make([]*entity.Payment, 0, len(payments))
	sum := decimal.Zero
	for _, p := range payments {
		scaled := p.Amount.Mul(ratio).Round(2)
		cloned = append(cloned, &entity.Payment{
			Method: p.Method,
			Amount: scaled,
		})
		sum = sum.Add(scaled)
	}
	if sum.LessThan(remainderTotal) {
		last := cloned[len(cloned)-1]
		last.Amount = last.Amount.Add(remainderTotal.Sub(sum))
	}
	return cloned
}
