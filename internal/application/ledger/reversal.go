package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmacore/ledger-api/internal/domain"
	"github.com/farmacore/ledger-api/internal/domain/entity"
	domledger "github.com/farmacore/ledger-api/internal/domain/ledger"
	"github.com/farmacore/ledger-api/internal/domain/repository"
)

// Modos de reversa: anulación devuelve la mercancía al inventario vendible;
// devolución por daño la da por destruida.
const (
	ReversalModeVoid   = "void"
	ReversalModeDamage = "damage"
)

// ReversalUseCase anula o registra como dañada una venta completa o parcial.
// Una reversa parcial divide la transacción: la original pasa a estado
// terminal con el total de la porción devuelta y nace una transacción
// hermana en completed con la porción retenida. Todo — restauración de
// lotes, mutación de líneas, hermana, reescritura de la original y
// bitácora — va en una sola transacción de BD.
type ReversalUseCase struct {
	txRunner TxRunner
	notifier AuditNotifier
}

// NewReversalUseCase construye el caso de uso.
func NewReversalUseCase(txRunner TxRunner, notifier AuditNotifier) *ReversalUseCase {
	return &ReversalUseCase{txRunner: txRunner, notifier: notifier}
}

// ReversalLine selección explícita: línea y cantidad a devolver.
type ReversalLine struct {
	ItemID   string
	Quantity int64
}

// ReversalInput entrada de la reversa. Lines vacío significa reversa total.
type ReversalInput struct {
	Staff         string
	TransactionID string
	Mode          string // void | damage
	Lines         []ReversalLine
}

// ReversalResult resultado de la reversa. RemainderTransactionID queda vacío
// cuando la reversa fue total y no hubo división.
type ReversalResult struct {
	TransactionID          string
	Status                 string
	ReturnedTotal          decimal.Decimal
	RemainderTransactionID string
	RemainderTotal         decimal.Decimal
	Warnings               []string
}

// Reverse ejecuta la anulación o devolución por daño.
func (uc *ReversalUseCase) Reverse(ctx context.Context, in ReversalInput) (*ReversalResult, error) {
	if in.Staff == "" || in.TransactionID == "" {
		return nil, domain.ErrInvalidInput
	}
	var terminalStatus, action string
	switch in.Mode {
	case ReversalModeVoid:
		terminalStatus, action = entity.TxStatusVoided, entity.ActionVoid
	case ReversalModeDamage:
		terminalStatus, action = entity.TxStatusDamaged, entity.ActionReturnAsDamage
	default:
		return nil, fmt.Errorf("%w: modo de reversa desconocido %q", domain.ErrInvalidInput, in.Mode)
	}

	now := time.Now()
	result := &ReversalResult{TransactionID: in.TransactionID, Status: terminalStatus}
	var entries []*entity.AuditLogEntry

	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		txRepo repository.TransactionRepository,
		auditRepo repository.AuditLogRepository,
		productRepo repository.ProductRepository,
	) error {
		original, err := txRepo.GetByIDForUpdate(in.TransactionID)
		if err != nil {
			return err
		}
		if original == nil {
			return domain.ErrNotFound
		}
		if !original.CanReverse() {
			return fmt.Errorf("%w: estado actual %s", domain.ErrInvalidState, original.Status)
		}

		lines := make([]domledger.ReturnLine, 0, len(in.Lines))
		for _, l := range in.Lines {
			lines = append(lines, domledger.ReturnLine{ItemID: l.ItemID, Quantity: l.Quantity})
		}
		plan, err := domledger.BuildSplitPlan(original, lines)
		if err != nil {
			return err
		}

		// Restaurar stock (solo anulación): cada cantidad devuelta entra al
		// lote con vencimiento más próximo ACTUAL del producto, no
		// necesariamente al lote que la venta consumió.
		for _, item := range plan.Returned {
			// Anulación: la cantidad vuelve al inventario y la bitácora
			// registra a qué vencimiento entró. Daño: sin tocar lotes.
			var expiryUsed *time.Time
			if in.Mode == ReversalModeVoid {
				expiryUsed, err = uc.restoreToEarliestLot(lotRepo, productRepo, item.ProductID, item.Quantity)
				if err != nil {
					return err
				}
			}
			entry := &entity.AuditLogEntry{
				ID:            uuid.New().String(),
				ProductID:     item.ProductID,
				QuantityDelta: item.Quantity,
				Action:        action,
				Staff:         in.Staff,
				ExpiryUsed:    expiryUsed,
				SourceUUID:    original.ID,
				CreatedAt:     now,
			}
			if err := auditRepo.Create(entry); err != nil {
				return err
			}
			entries = append(entries, entry)
		}

		// La original queda con exactamente la porción devuelta: las líneas
		// afectadas se reescriben a la cantidad devuelta y las no afectadas
		// se eliminan (viven completas en la hermana). En la reversa total
		// no hay nada que mutar: toda línea ya es su porción devuelta.
		if !plan.Full {
			returnedBy := make(map[string]domledger.ReturnedItem, len(plan.Returned))
			for _, item := range plan.Returned {
				returnedBy[item.ItemID] = item
			}
			for _, it := range original.Items {
				ret, ok := returnedBy[it.ID]
				if !ok {
					if err := txRepo.DeleteItem(it.ID); err != nil {
						return err
					}
					continue
				}
				if ret.Quantity == it.Quantity {
					continue
				}
				subtotal := ret.UnitPrice.Mul(decimal.NewFromInt(ret.Quantity))
				if err := txRepo.UpdateItemQuantity(it.ID, ret.Quantity, subtotal); err != nil {
					return err
				}
			}

			// Transacción hermana con la porción retenida y pagos clonados
			// a prorrata.
			siblingID := uuid.New().String()
			sibling := &entity.Transaction{
				ID:          siblingID,
				Status:      entity.TxStatusCompleted,
				TotalAmount: plan.RemainderTotal,
				Staff:       original.Staff,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := txRepo.Create(sibling); err != nil {
				return err
			}
			for _, it := range original.Items {
				remaining := it.Quantity
				for _, ret := range plan.Returned {
					if ret.ItemID == it.ID {
						remaining = ret.Remaining
					}
				}
				if remaining == 0 {
					continue
				}
				item := &entity.TransactionItem{
					ID:            uuid.New().String(),
					TransactionID: siblingID,
					ProductID:     it.ProductID,
					Quantity:      remaining,
					UnitPrice:     it.UnitPrice,
					Subtotal:      it.UnitPrice.Mul(decimal.NewFromInt(remaining)),
				}
				if err := txRepo.CreateItem(item); err != nil {
					return err
				}
			}
			for _, p := range domledger.ProratePayments(original.Payments, plan.RemainderTotal, original.TotalAmount) {
				p.ID = uuid.New().String()
				p.TransactionID = siblingID
				if err := txRepo.CreatePayment(p); err != nil {
					return err
				}
			}
			result.RemainderTransactionID = siblingID
			result.RemainderTotal = plan.RemainderTotal
		}

		// La original pasa a estado terminal con el total de la porción
		// devuelta (no el total completo original).
		if err := txRepo.UpdateStatusAndTotal(original.ID, terminalStatus, plan.ReturnedTotal); err != nil {
			return err
		}
		result.ReturnedTotal = plan.ReturnedTotal

		// Invariante verificado también después de mutar: lo que quedó
		// escrito debe reconciliar con el total original.
		diff := original.TotalAmount.Sub(plan.ReturnedTotal).Sub(plan.RemainderTotal).Abs()
		if diff.GreaterThan(decimal.NewFromFloat(0.01)) {
			return &domain.ConsistencyError{
				Original:  original.TotalAmount,
				Returned:  plan.ReturnedTotal,
				Remainder: plan.RemainderTotal,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Warnings = publishEntries(ctx, uc.notifier, entries)
	return result, nil
}

// restoreToEarliestLot suma la cantidad devuelta al lote con vencimiento más
// próximo actual (lotes agotados incluidos). Si el producto no tiene ningún
// lote se crea uno sin vencimiento con los atributos del catálogo. Devuelve
// el vencimiento del lote receptor para la bitácora.
func (uc *ReversalUseCase) restoreToEarliestLot(
	lotRepo repository.LotRepository,
	productRepo repository.ProductRepository,
	productID string,
	quantity int64,
) (*time.Time, error) {
	lots, err := lotRepo.ListByProductForUpdate(productID)
	if err != nil {
		return nil, err
	}
	if earliest := domledger.EarliestLot(lots); earliest != nil {
		if err := earliest.Add(quantity); err != nil {
			return nil, err
		}
		if err := lotRepo.UpdateQuantity(earliest); err != nil {
			return nil, err
		}
		return earliest.Expiry, nil
	}

	product, err := productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	lot, err := entity.NewLot(productID, nil, quantity, product.Attributes())
	if err != nil {
		return nil, err
	}
	if err := lotRepo.Create(lot); err != nil {
		return nil, err
	}
	return lot.Expiry, nil
}
