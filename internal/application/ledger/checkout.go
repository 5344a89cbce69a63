package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/farmacore/ledger-api/internal/domain"
	"github.com/farmacore/ledger-api/internal/domain/entity"
	domledger "github.com/farmacore/ledger-api/internal/domain/ledger"
	"github.com/farmacore/ledger-api/internal/domain/repository"
)

// CheckoutUseCase crea una venta: transacción con líneas y pagos, consumo
// FIFO de lotes y bitácora, todo en una sola transacción de BD con bloqueo
// de fila sobre los lotes tocados.
type CheckoutUseCase struct {
	txRunner TxRunner
	notifier AuditNotifier // opcional; nil desactiva la publicación
}

// NewCheckoutUseCase construye el caso de uso.
func NewCheckoutUseCase(txRunner TxRunner, notifier AuditNotifier) *CheckoutUseCase {
	return &CheckoutUseCase{txRunner: txRunner, notifier: notifier}
}

// CheckoutLine una línea del pedido. UnitPrice en cero toma el precio del
// catálogo.
type CheckoutLine struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// PaymentInput un pago del pedido.
type PaymentInput struct {
	Method string
	Amount decimal.Decimal
}

// CheckoutInput descripción inmutable del pedido a cobrar.
type CheckoutInput struct {
	Staff    string          // nombre visible del personal que atiende
	Discount decimal.Decimal // tasa 0 <= d < 1 aplicada al total
	Lines    []CheckoutLine
	Payments []PaymentInput
}

// CheckoutResult resultado de la venta. Warnings trae fallas degradadas
// (ej. el sink de bitácora no respondió) que no anulan la venta.
type CheckoutResult struct {
	TransactionID string
	Total         decimal.Decimal
	Warnings      []string
}

// Checkout valida el pedido, verifica disponibilidad sobre todas las líneas,
// crea la transacción en completed y consume los lotes FIFO. Si cualquier
// paso falla no queda rastro: la transacción de BD se revierte completa.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	if in.Staff == "" || len(in.Lines) == 0 || len(in.Payments) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Discount.IsNegative() || in.Discount.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: descuento fuera de rango", domain.ErrInvalidInput)
	}
	for _, line := range in.Lines {
		if line.ProductID == "" || line.Quantity <= 0 || line.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: línea con producto o cantidad inválida", domain.ErrInvalidInput)
		}
	}
	paid := decimal.Zero
	for _, p := range in.Payments {
		if p.Method == "" || !p.Amount.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: pago sin método o sin monto", domain.ErrInvalidInput)
		}
		paid = paid.Add(p.Amount)
	}

	now := time.Now()
	txID := uuid.New().String()
	var total decimal.Decimal
	var entries []*entity.AuditLogEntry

	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		txRepo repository.TransactionRepository,
		auditRepo repository.AuditLogRepository,
		productRepo repository.ProductRepository,
	) error {
		// Completar precios en cero desde el catálogo.
		lines := make([]CheckoutLine, len(in.Lines))
		copy(lines, in.Lines)
		for i := range lines {
			if lines[i].UnitPrice.IsZero() {
				product, err := productRepo.GetByID(lines[i].ProductID)
				if err != nil {
					return err
				}
				if product == nil {
					return domain.ErrNotFound
				}
				lines[i].UnitPrice = product.Price
			}
		}

		// Total y validación de pagos contra el total con descuento.
		total = decimal.Zero
		for _, line := range lines {
			total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity)))
		}
		discounted := total.Mul(decimal.NewFromInt(1).Sub(in.Discount)).Round(2)
		if paid.LessThan(discounted) {
			return fmt.Errorf("%w: pagos %s no cubren el total con descuento %s",
				domain.ErrInvalidInput, paid.StringFixed(2), discounted.StringFixed(2))
		}

		// Bloquear los lotes de cada producto en orden estable (evita
		// interbloqueos entre ventas concurrentes del mismo par de productos).
		productIDs := make([]string, 0, len(lines))
		seen := make(map[string]bool)
		for _, line := range lines {
			if !seen[line.ProductID] {
				seen[line.ProductID] = true
				productIDs = append(productIDs, line.ProductID)
			}
		}
		sort.Strings(productIDs)

		lotsByProduct := make(map[string][]*entity.Lot, len(productIDs))
		for _, productID := range productIDs {
			lots, err := lotRepo.ListByProductForUpdate(productID)
			if err != nil {
				return err
			}
			lotsByProduct[productID] = lots
		}

		// Disponibilidad sobre el pedido completo, ya con las filas bloqueadas.
		orderLines := make([]domledger.OrderLine, 0, len(lines))
		for _, line := range lines {
			orderLines = append(orderLines, domledger.OrderLine{ProductID: line.ProductID, Quantity: line.Quantity})
		}
		if shortfalls := domledger.CheckAvailability(orderLines, lotsByProduct); len(shortfalls) > 0 {
			return &domain.InsufficientStockError{Shortfalls: shortfalls}
		}

		// Cabecera, líneas y pagos.
		tx := &entity.Transaction{
			ID:          txID,
			Status:      entity.TxStatusCompleted,
			TotalAmount: total,
			Staff:       in.Staff,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := txRepo.Create(tx); err != nil {
			return err
		}
		for _, line := range lines {
			item := &entity.TransactionItem{
				ID:            uuid.New().String(),
				TransactionID: txID,
				ProductID:     line.ProductID,
				Quantity:      line.Quantity,
				UnitPrice:     line.UnitPrice,
				Subtotal:      line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity)),
			}
			if err := txRepo.CreateItem(item); err != nil {
				return err
			}
		}
		for _, p := range in.Payments {
			payment := &entity.Payment{
				ID:            uuid.New().String(),
				TransactionID: txID,
				Method:        p.Method,
				Amount:        p.Amount,
			}
			if err := txRepo.CreatePayment(payment); err != nil {
				return err
			}
		}

		// Consumo FIFO por línea y bitácora. Las líneas repetidas de un
		// producto consumen sobre las mismas entidades bloqueadas.
		touched := make(map[string]*entity.Lot)
		lotsByID := make(map[string]*entity.Lot)
		for _, lots := range lotsByProduct {
			for _, l := range lots {
				lotsByID[l.ID] = l
			}
		}
		for _, line := range lines {
			res, err := domledger.Consume(line.ProductID, lotsByProduct[line.ProductID], line.Quantity)
			if err != nil {
				return err
			}
			for _, take := range res.Takes {
				touched[take.LotID] = lotsByID[take.LotID]
			}
			entry := &entity.AuditLogEntry{
				ID:            uuid.New().String(),
				ProductID:     line.ProductID,
				QuantityDelta: -line.Quantity,
				Action:        entity.ActionSale,
				Staff:         in.Staff,
				ExpiryUsed:    res.ExpiryFirstTouched,
				SourceUUID:    txID,
				CreatedAt:     now,
			}
			if err := auditRepo.Create(entry); err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		for _, l := range touched {
			if err := lotRepo.UpdateQuantity(l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &CheckoutResult{TransactionID: txID, Total: total}
	result.Warnings = publishEntries(ctx, uc.notifier, entries)
	return result, nil
}

// publishEntries publica las entradas confirmadas al sink externo. Una falla
// aquí no puede anular la mutación que describe: se registra y se devuelve
// como advertencia para el caller.
func publishEntries(ctx context.Context, notifier AuditNotifier, entries []*entity.AuditLogEntry) []string {
	if notifier == nil || len(entries) == 0 {
		return nil
	}
	if err := notifier.Publish(ctx, entries); err != nil {
		log.Warn().Err(err).Int("entries", len(entries)).Msg("bitácora: falló la publicación al sink externo")
		return []string{"la bitácora se guardó pero no pudo notificarse al sink externo"}
	}
	return nil
}
