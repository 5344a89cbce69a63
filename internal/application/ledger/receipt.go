package ledger

import (
	"context"

	"github.com/farmacore/ledger-api/internal/domain"
	"github.com/farmacore/ledger-api/internal/domain/entity"
	"github.com/farmacore/ledger-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una transacción (original o
// hermana de una división).
type ReceiptUseCase struct {
	txRepo      repository.TransactionRepository
	productRepo repository.ProductRepository
	generator   ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	txRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	generator ReceiptGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{txRepo: txRepo, productRepo: productRepo, generator: generator}
}

// Generate carga la transacción y los nombres de producto de sus líneas y
// produce los bytes del PDF.
func (uc *ReceiptUseCase) Generate(ctx context.Context, transactionID string) ([]byte, error) {
	if transactionID == "" {
		return nil, domain.ErrInvalidInput
	}
	tx, err := uc.txRepo.GetByID(transactionID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}

	products := make(map[string]*entity.Product, len(tx.Items))
	for _, item := range tx.Items {
		if _, loaded := products[item.ProductID]; loaded {
			continue
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product != nil {
			products[item.ProductID] = product
		}
	}
	return uc.generator.GenerateReceipt(ctx, tx, products)
}
