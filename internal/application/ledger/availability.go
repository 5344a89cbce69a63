package ledger

import (
	"context"

	"github.com/farmacore/ledger-api/internal/domain"
	"github.com/farmacore/ledger-api/internal/domain/entity"
	domledger "github.com/farmacore/ledger-api/internal/domain/ledger"
	"github.com/farmacore/ledger-api/internal/domain/repository"
)

// AvailabilityUseCase verificación de solo lectura: ¿alcanza la existencia
// para un pedido? Se usa desde la caja antes de cobrar; el consumo revalida
// de todos modos dentro de su transacción, porque entre chequeo y cobro
// puede pasar tiempo.
type AvailabilityUseCase struct {
	lotRepo repository.LotRepository
}

// NewAvailabilityUseCase construye el caso de uso con un repositorio atado
// al pool (fuera de transacción, sin bloqueos).
func NewAvailabilityUseCase(lotRepo repository.LotRepository) *AvailabilityUseCase {
	return &AvailabilityUseCase{lotRepo: lotRepo}
}

// AvailabilityLine una línea del pedido a verificar.
type AvailabilityLine struct {
	ProductID string
	Quantity  int64
}

// Check devuelve el faltante por cada línea corta; lista vacía significa que
// el pedido completo puede proceder.
func (uc *AvailabilityUseCase) Check(_ context.Context, lines []AvailabilityLine) ([]domain.Shortfall, error) {
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	orderLines := make([]domledger.OrderLine, 0, len(lines))
	lotsByProduct := make(map[string][]*entity.Lot, len(lines))
	for _, line := range lines {
		if line.ProductID == "" || line.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		orderLines = append(orderLines, domledger.OrderLine{ProductID: line.ProductID, Quantity: line.Quantity})
		if _, loaded := lotsByProduct[line.ProductID]; loaded {
			continue
		}
		lots, err := uc.lotRepo.ListByProduct(line.ProductID)
		if err != nil {
			return nil, err
		}
		lotsByProduct[line.ProductID] = lots
	}

	return domledger.CheckAvailability(orderLines, lotsByProduct), nil
}
