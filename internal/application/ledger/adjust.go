package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/farmacore/ledger-api/internal/domain"
	"github.com/farmacore/ledger-api/internal/domain/entity"
	"github.com/farmacore/ledger-api/internal/domain/repository"
)

// AdjustUseCase crea o muta lotes fuera de una venta: reabastecimiento
// (entrada de mercancía) y retiro (baja administrativa).
type AdjustUseCase struct {
	txRunner TxRunner
	notifier AuditNotifier
}

// NewAdjustUseCase construye el caso de uso.
func NewAdjustUseCase(txRunner TxRunner, notifier AuditNotifier) *AdjustUseCase {
	return &AdjustUseCase{txRunner: txRunner, notifier: notifier}
}

// RestockInput entrada de reabastecimiento. Supplier opcional: si viene,
// queda registrado en el lote receptor.
type RestockInput struct {
	Staff     string
	ProductID string
	Expiry    *time.Time
	Quantity  int64
	Supplier  string
}

// UnstockInput entrada de retiro de stock de un lote existente.
type UnstockInput struct {
	Staff     string
	ProductID string
	Expiry    *time.Time
	Quantity  int64
}

// AdjustResult resultado del ajuste.
type AdjustResult struct {
	LotID    string
	Quantity int64 // existencia del lote después del ajuste
	Warnings []string
}

// Restock suma unidades al lote (producto, vencimiento). Si el lote no
// existe se crea copiando los atributos descriptivos de un lote hermano del
// mismo producto, o del catálogo si es el primer lote. Reabastecer 3 y luego
// 2 sobre la misma clave equivale a reabastecer 5 de una vez.
func (uc *AdjustUseCase) Restock(ctx context.Context, in RestockInput) (*AdjustResult, error) {
	if in.Staff == "" || in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	result := &AdjustResult{}
	var entry *entity.AuditLogEntry

	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		_ repository.TransactionRepository,
		auditRepo repository.AuditLogRepository,
		productRepo repository.ProductRepository,
	) error {
		expiry := entity.NormalizeExpiry(in.Expiry)
		lot, err := lotRepo.GetByKeyForUpdate(in.ProductID, expiry)
		if err != nil {
			return err
		}
		if lot != nil {
			if err := lot.Add(in.Quantity); err != nil {
				return err
			}
			if in.Supplier != "" {
				lot.Supplier = in.Supplier
			}
			if err := lotRepo.UpdateQuantity(lot); err != nil {
				return err
			}
		} else {
			attrs, err := uc.inheritAttributes(lotRepo, productRepo, in.ProductID)
			if err != nil {
				return err
			}
			if in.Supplier != "" {
				attrs.Supplier = in.Supplier
			}
			lot, err = entity.NewLot(in.ProductID, expiry, in.Quantity, attrs)
			if err != nil {
				return err
			}
			if err := lotRepo.Create(lot); err != nil {
				return err
			}
		}

		entry = &entity.AuditLogEntry{
			ID:            uuid.New().String(),
			ProductID:     in.ProductID,
			QuantityDelta: in.Quantity,
			Action:        entity.ActionRestock,
			Staff:         in.Staff,
			ExpiryUsed:    lot.Expiry,
			SourceUUID:    lot.ID,
			CreatedAt:     now,
		}
		if err := auditRepo.Create(entry); err != nil {
			return err
		}
		result.LotID = lot.ID
		result.Quantity = lot.Quantity
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Warnings = publishEntries(ctx, uc.notifier, []*entity.AuditLogEntry{entry})
	return result, nil
}

// Unstock resta unidades de un lote existente. El lote debe existir
// (NotFound si no) y la resta jamás lo deja en negativo (InsufficientStock
// y la existencia queda intacta).
func (uc *AdjustUseCase) Unstock(ctx context.Context, in UnstockInput) (*AdjustResult, error) {
	if in.Staff == "" || in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	result := &AdjustResult{}
	var entry *entity.AuditLogEntry

	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		_ repository.TransactionRepository,
		auditRepo repository.AuditLogRepository,
		_ repository.ProductRepository,
	) error {
		lot, err := lotRepo.GetByKeyForUpdate(in.ProductID, entity.NormalizeExpiry(in.Expiry))
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		if err := lot.Deduct(in.Quantity); err != nil {
			return err
		}
		if err := lotRepo.UpdateQuantity(lot); err != nil {
			return err
		}

		entry = &entity.AuditLogEntry{
			ID:            uuid.New().String(),
			ProductID:     in.ProductID,
			QuantityDelta: -in.Quantity,
			Action:        entity.ActionUnstock,
			Staff:         in.Staff,
			ExpiryUsed:    lot.Expiry,
			SourceUUID:    lot.ID,
			CreatedAt:     now,
		}
		if err := auditRepo.Create(entry); err != nil {
			return err
		}
		result.LotID = lot.ID
		result.Quantity = lot.Quantity
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Warnings = publishEntries(ctx, uc.notifier, []*entity.AuditLogEntry{entry})
	return result, nil
}

// inheritAttributes resuelve los atributos descriptivos de un lote nuevo:
// primero un lote hermano del producto, si no existe ninguno, el catálogo.
func (uc *AdjustUseCase) inheritAttributes(
	lotRepo repository.LotRepository,
	productRepo repository.ProductRepository,
	productID string,
) (entity.LotAttributes, error) {
	lots, err := lotRepo.ListByProduct(productID)
	if err != nil {
		return entity.LotAttributes{}, err
	}
	if len(lots) > 0 {
		sibling := lots[0]
		return entity.LotAttributes{
			Unit:     sibling.Unit,
			Category: sibling.Category,
			Brand:    sibling.Brand,
			Price:    sibling.Price,
			Supplier: sibling.Supplier,
		}, nil
	}
	product, err := productRepo.GetByID(productID)
	if err != nil {
		return entity.LotAttributes{}, err
	}
	if product == nil {
		return entity.LotAttributes{}, domain.ErrNotFound
	}
	return product.Attributes(), nil
}
