package ledger_test

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmacore/ledger-api/internal/application/ledger"
	"github.com/farmacore/ledger-api/internal/domain/entity"
	"github.com/farmacore/ledger-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria de los repositorios. Imitan el contrato de la BD: las
// lecturas devuelven copias y solo UpdateQuantity/Create escriben de vuelta,
// para que un caso de uso que olvide persistir falle en los tests.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	lots     []*entity.Lot
	txs      map[string]*entity.Transaction
	items    map[string]*entity.TransactionItem
	payments map[string]*entity.Payment
	audit    []*entity.AuditLogEntry
	products map[string]*entity.Product
}

func newMemStore() *memStore {
	return &memStore{
		txs:      make(map[string]*entity.Transaction),
		items:    make(map[string]*entity.TransactionItem),
		payments: make(map[string]*entity.Payment),
		products: make(map[string]*entity.Product),
	}
}

func (s *memStore) addLot(l *entity.Lot) { s.lots = append(s.lots, l) }

func (s *memStore) lotByID(id string) *entity.Lot {
	for _, l := range s.lots {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// lotQty existencia actual de un lote por ID; -1 si no existe.
func (s *memStore) lotQty(id string) int64 {
	if l := s.lotByID(id); l != nil {
		return l.Quantity
	}
	return -1
}

func (s *memStore) onHand(productID string) int64 {
	var total int64
	for _, l := range s.lots {
		if l.ProductID == productID {
			total += l.Quantity
		}
	}
	return total
}

// ── LotRepository ─────────────────────────────────────────────────────────────

type memLotRepo struct{ s *memStore }

func copyLot(l *entity.Lot) *entity.Lot {
	c := *l
	return &c
}

func (r *memLotRepo) Create(lot *entity.Lot) error {
	r.s.addLot(copyLot(lot))
	return nil
}

func (r *memLotRepo) GetByKeyForUpdate(productID string, expiry *time.Time) (*entity.Lot, error) {
	for _, l := range r.s.lots {
		if l.ProductID == productID && entity.SameExpiry(l.Expiry, expiry) {
			return copyLot(l), nil
		}
	}
	return nil, nil
}

func (r *memLotRepo) ListByProduct(productID string) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, l := range r.s.lots {
		if l.ProductID == productID {
			out = append(out, copyLot(l))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !entity.SameExpiry(out[i].Expiry, out[j].Expiry) {
			return entity.ExpiryBefore(out[i].Expiry, out[j].Expiry)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memLotRepo) ListByProductForUpdate(productID string) ([]*entity.Lot, error) {
	return r.ListByProduct(productID)
}

func (r *memLotRepo) UpdateQuantity(lot *entity.Lot) error {
	stored := r.s.lotByID(lot.ID)
	if stored == nil {
		return errors.New("lote inexistente")
	}
	stored.Quantity = lot.Quantity
	stored.Supplier = lot.Supplier
	stored.UpdatedAt = lot.UpdatedAt
	return nil
}

// ── TransactionRepository ─────────────────────────────────────────────────────

type memTxRepo struct{ s *memStore }

func (r *memTxRepo) Create(tx *entity.Transaction) error {
	c := *tx
	c.Items, c.Payments = nil, nil
	r.s.txs[tx.ID] = &c
	return nil
}

func (r *memTxRepo) CreateItem(item *entity.TransactionItem) error {
	c := *item
	r.s.items[item.ID] = &c
	return nil
}

func (r *memTxRepo) CreatePayment(payment *entity.Payment) error {
	c := *payment
	r.s.payments[payment.ID] = &c
	return nil
}

func (r *memTxRepo) GetByID(id string) (*entity.Transaction, error) {
	stored, ok := r.s.txs[id]
	if !ok {
		return nil, nil
	}
	tx := *stored
	for _, it := range r.s.items {
		if it.TransactionID == id {
			c := *it
			tx.Items = append(tx.Items, &c)
		}
	}
	sort.Slice(tx.Items, func(i, j int) bool { return tx.Items[i].ID < tx.Items[j].ID })
	for _, p := range r.s.payments {
		if p.TransactionID == id {
			c := *p
			tx.Payments = append(tx.Payments, &c)
		}
	}
	sort.Slice(tx.Payments, func(i, j int) bool { return tx.Payments[i].ID < tx.Payments[j].ID })
	return &tx, nil
}

func (r *memTxRepo) GetByIDForUpdate(id string) (*entity.Transaction, error) {
	return r.GetByID(id)
}

func (r *memTxRepo) UpdateStatusAndTotal(id, status string, total decimal.Decimal) error {
	stored, ok := r.s.txs[id]
	if !ok {
		return errors.New("transacción inexistente")
	}
	stored.Status = status
	stored.TotalAmount = total
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *memTxRepo) UpdateItemQuantity(itemID string, quantity int64, subtotal decimal.Decimal) error {
	stored, ok := r.s.items[itemID]
	if !ok {
		return errors.New("línea inexistente")
	}
	stored.Quantity = quantity
	stored.Subtotal = subtotal
	return nil
}

func (r *memTxRepo) DeleteItem(itemID string) error {
	delete(r.s.items, itemID)
	return nil
}

func (r *memTxRepo) List(limit, offset int) ([]*entity.Transaction, error) {
	ids := make([]string, 0, len(r.s.txs))
	for id := range r.s.txs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []*entity.Transaction
	for _, id := range ids {
		tx, _ := r.GetByID(id)
		out = append(out, tx)
	}
	return out, nil
}

// ── AuditLogRepository ────────────────────────────────────────────────────────

type memAuditRepo struct{ s *memStore }

func (r *memAuditRepo) Create(entry *entity.AuditLogEntry) error {
	c := *entry
	r.s.audit = append(r.s.audit, &c)
	return nil
}

func (r *memAuditRepo) ListByProduct(productID string, _, _ *time.Time, _, _ int) ([]*entity.AuditLogEntry, error) {
	var out []*entity.AuditLogEntry
	for _, e := range r.s.audit {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memAuditRepo) ListBySource(sourceUUID string) ([]*entity.AuditLogEntry, error) {
	var out []*entity.AuditLogEntry
	for _, e := range r.s.audit {
		if e.SourceUUID == sourceUUID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ── ProductRepository ─────────────────────────────────────────────────────────

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(p *entity.Product) error {
	c := *p
	r.s.products[p.ID] = &c
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) List(_, _ int) ([]*entity.Product, error) { return nil, nil }

func (r *memProductRepo) Search(_ string, _, _ int) ([]*entity.Product, error) { return nil, nil }

// ── TxRunner y notifier ───────────────────────────────────────────────────────

// memTxRunner ejecuta el callback directamente sobre los repos en memoria.
// La atomicidad real la garantiza la implementación PostgreSQL; aquí los
// tests verifican la lógica de negocio.
type memTxRunner struct{ s *memStore }

func (r *memTxRunner) Run(_ context.Context, fn func(
	lotRepo repository.LotRepository,
	txRepo repository.TransactionRepository,
	auditRepo repository.AuditLogRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(&memLotRepo{r.s}, &memTxRepo{r.s}, &memAuditRepo{r.s}, &memProductRepo{r.s})
}

// failingNotifier sink externo que siempre falla, para probar la degradación
// a advertencia.
type failingNotifier struct{ published int }

func (n *failingNotifier) Publish(_ context.Context, entries []*entity.AuditLogEntry) error {
	n.published += len(entries)
	return errors.New("sink caído")
}

var _ ledger.AuditNotifier = (*failingNotifier)(nil)
