// Package ledger contiene los servicios puros del motor de inventario:
// consumo FIFO de lotes, verificación de disponibilidad y el plan de
// división de una reversa parcial. Las funciones reciben una descripción
// inmutable del pedido y entidades ya cargadas; la persistencia y la
// transacción de BD son responsabilidad de la capa de aplicación.
package ledger

import (
	"sort"
	"time"

	"github.com/farmacore/ledger-api/internal/domain"
	"github.com/farmacore/ledger-api/internal/domain/entity"
)

// OrderLine una línea de pedido vista por el verificador de disponibilidad.
type OrderLine struct {
	ProductID string
	Quantity  int64
}

// LotTake cuánto se tomó de un lote durante el consumo FIFO.
type LotTake struct {
	LotID  string
	Expiry *time.Time
	Taken  int64
}

// ConsumptionResult resultado del consumo FIFO de una línea.
// ExpiryFirstTouched es el vencimiento del primer lote del que salió una
// cantidad distinta de cero ("qué tanda salió realmente de la farmacia");
// FirstTouchedLotID lo identifica aun cuando ese lote no tenga vencimiento.
type ConsumptionResult struct {
	Takes              []LotTake
	ExpiryFirstTouched *time.Time
	FirstTouchedLotID  string
}

// SortLotsFIFO ordena los lotes para consumo: vencimiento ascendente, los
// lotes sin vencimiento al final y, a igual vencimiento, el lote más antiguo
// primero. Devuelve una copia; no muta el slice recibido.
func SortLotsFIFO(lots []*entity.Lot) []*entity.Lot {
	sorted := make([]*entity.Lot, len(lots))
	copy(sorted, lots)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !entity.SameExpiry(sorted[i].Expiry, sorted[j].Expiry) {
			return entity.ExpiryBefore(sorted[i].Expiry, sorted[j].Expiry)
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// Available suma la existencia de todos los lotes.
func Available(lots []*entity.Lot) int64 {
	var total int64
	for _, l := range lots {
		total += l.Quantity
	}
	return total
}

// EarliestLot devuelve el lote con vencimiento más próximo (incluye lotes
// agotados: la restauración de una anulación entra al lote más próximo
// actual, que puede estar en cero). nil si el producto no tiene lotes.
func EarliestLot(lots []*entity.Lot) *entity.Lot {
	if len(lots) == 0 {
		return nil
	}
	return SortLotsFIFO(lots)[0]
}

// Consume aplica el consumo FIFO: recorre los lotes ordenados por vencimiento
// y toma min(existencia, restante) de cada uno, mutando las entidades en
// memoria. El caller persiste los lotes tocados dentro de su transacción.
// Falla con InsufficientStockError si los lotes se agotan antes de cubrir
// la cantidad; el consumo revalida aunque el verificador ya haya corrido,
// porque entre chequeo y consumo puede pasar tiempo.
func Consume(productID string, lots []*entity.Lot, quantity int64) (*ConsumptionResult, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if Available(lots) < quantity {
		return nil, &domain.InsufficientStockError{Shortfalls: []domain.Shortfall{{
			ProductID: productID,
			Requested: quantity,
			Available: Available(lots),
		}}}
	}

	result := &ConsumptionResult{}
	remaining := quantity
	for _, lot := range SortLotsFIFO(lots) {
		if remaining == 0 {
			break
		}
		take := lot.Quantity
		if take > remaining {
			take = remaining
		}
		if take == 0 {
			continue
		}
		if err := lot.Deduct(take); err != nil {
			return nil, err
		}
		if result.FirstTouchedLotID == "" {
			result.FirstTouchedLotID = lot.ID
			result.ExpiryFirstTouched = lot.Expiry
		}
		result.Takes = append(result.Takes, LotTake{LotID: lot.ID, Expiry: lot.Expiry, Taken: take})
		remaining -= take
	}
	return result, nil
}

// CheckAvailability verifica que cada línea del pedido pueda satisfacerse
// sumando los lotes de su producto. Corre sobre todas las líneas antes de
// cualquier mutación: una sola línea corta aborta el pedido completo.
// Las líneas repetidas de un mismo producto se acumulan.
func CheckAvailability(lines []OrderLine, lotsByProduct map[string][]*entity.Lot) []domain.Shortfall {
	requested := make(map[string]int64)
	order := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, seen := requested[line.ProductID]; !seen {
			order = append(order, line.ProductID)
		}
		requested[line.ProductID] += line.Quantity
	}

	var shortfalls []domain.Shortfall
	for _, productID := range order {
		available := Available(lotsByProduct[productID])
		if available < requested[productID] {
			shortfalls = append(shortfalls, domain.Shortfall{
				ProductID: productID,
				Requested: requested[productID],
				Available: available,
			})
		}
	}
	return shortfalls
}
