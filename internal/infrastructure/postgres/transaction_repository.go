package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/farmacore/ledger-api/internal/domain/entity"
	"github.com/farmacore/ledger-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación de TransactionRepository sobre PostgreSQL
// (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador de transacciones.
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste la cabecera de una transacción.
func (r *TransactionRepo) Create(tx *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, status, total_amount, staff, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.Status, tx.TotalAmount, tx.Staff, tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la transacción.
func (r *TransactionRepo) CreateItem(item *entity.TransactionItem) error {
	query := `
		INSERT INTO transaction_items (id, transaction_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.TransactionID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert transaction item: %w", err)
	}
	return nil
}

// CreatePayment persiste un pago de la transacción.
func (r *TransactionRepo) CreatePayment(payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, transaction_id, method, amount)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.TransactionID, payment.Method, payment.Amount,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID carga la transacción con sus líneas y pagos; nil si no existe.
func (r *TransactionRepo) GetByID(id string) (*entity.Transaction, error) {
	return r.getByID(id, false)
}

// GetByIDForUpdate igual que GetByID pero bloquea la cabecera (SELECT FOR
// UPDATE): dos reversas concurrentes de la misma venta se serializan aquí.
func (r *TransactionRepo) GetByIDForUpdate(id string) (*entity.Transaction, error) {
	return r.getByID(id, true)
}

func (r *TransactionRepo) getByID(id string, forUpdate bool) (*entity.Transaction, error) {
	query := `
		SELECT id, status, total_amount, staff, created_at, updated_at
		FROM transactions WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var tx entity.Transaction
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&tx.ID, &tx.Status, &tx.TotalAmount, &tx.Staff, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if tx.Items, err = r.listItems(id); err != nil {
		return nil, err
	}
	if tx.Payments, err = r.listPayments(id); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *TransactionRepo) listItems(transactionID string) ([]*entity.TransactionItem, error) {
	query := `
		SELECT id, transaction_id, product_id, quantity, unit_price, subtotal
		FROM transaction_items WHERE transaction_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list transaction items: %w", err)
	}
	defer rows.Close()
	var items []*entity.TransactionItem
	for rows.Next() {
		var it entity.TransactionItem
		if err := rows.Scan(&it.ID, &it.TransactionID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan transaction item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func (r *TransactionRepo) listPayments(transactionID string) ([]*entity.Payment, error) {
	query := `
		SELECT id, transaction_id, method, amount
		FROM payments WHERE transaction_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var payments []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.TransactionID, &p.Method, &p.Amount); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

// UpdateStatusAndTotal reescribe estado y total de la cabecera.
func (r *TransactionRepo) UpdateStatusAndTotal(id, status string, total decimal.Decimal) error {
	query := `
		UPDATE transactions SET status = $2, total_amount = $3, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status, total)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update transaction: %s no existe", id)
	}
	return nil
}

// UpdateItemQuantity reescribe cantidad y subtotal de una línea.
func (r *TransactionRepo) UpdateItemQuantity(itemID string, quantity int64, subtotal decimal.Decimal) error {
	query := `
		UPDATE transaction_items SET quantity = $2, subtotal = $3
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, itemID, quantity, subtotal)
	if err != nil {
		return fmt.Errorf("update transaction item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update transaction item: %s no existe", itemID)
	}
	return nil
}

// DeleteItem elimina una línea (en una división, la línea pasa completa a la
// transacción hermana).
func (r *TransactionRepo) DeleteItem(itemID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM transaction_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("delete transaction item: %w", err)
	}
	return nil
}

// List devuelve transacciones con líneas y pagos, las más recientes primero.
func (r *TransactionRepo) List(limit, offset int) ([]*entity.Transaction, error) {
	query := `
		SELECT id, status, total_amount, staff, created_at, updated_at
		FROM transactions ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		var tx entity.Transaction
		if err := rows.Scan(&tx.ID, &tx.Status, &tx.TotalAmount, &tx.Staff, &tx.CreatedAt, &tx.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	// Líneas y pagos de toda la página en dos consultas (= ANY), no dos por
	// transacción.
	ids := make([]string, 0, len(list))
	byID := make(map[string]*entity.Transaction, len(list))
	for _, tx := range list {
		ids = append(ids, tx.ID)
		byID[tx.ID] = tx
	}
	if err := r.attachItems(byID, ids); err != nil {
		return nil, err
	}
	if err := r.attachPayments(byID, ids); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *TransactionRepo) attachItems(byID map[string]*entity.Transaction, ids []string) error {
	query := `
		SELECT id, transaction_id, product_id, quantity, unit_price, subtotal
		FROM transaction_items WHERE transaction_id = ANY($1) ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return fmt.Errorf("list transaction items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.TransactionItem
		if err := rows.Scan(&it.ID, &it.TransactionID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return fmt.Errorf("scan transaction item: %w", err)
		}
		if tx, ok := byID[it.TransactionID]; ok {
			tx.Items = append(tx.Items, &it)
		}
	}
	return rows.Err()
}

func (r *TransactionRepo) attachPayments(byID map[string]*entity.Transaction, ids []string) error {
	query := `
		SELECT id, transaction_id, method, amount
		FROM payments WHERE transaction_id = ANY($1) ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.TransactionID, &p.Method, &p.Amount); err != nil {
			return fmt.Errorf("scan payment: %w", err)
		}
		if tx, ok := byID[p.TransactionID]; ok {
			tx.Payments = append(tx.Payments, &p)
		}
	}
	return rows.Err()
}
