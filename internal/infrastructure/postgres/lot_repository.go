package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/farmacore/ledger-api/internal/domain"
	"github.com/farmacore/ledger-api/internal/domain/entity"
	"github.com/farmacore/ledger-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool o
// tx). Un lote se identifica por (product_id, expiry); expiry NULL es el lote
// sin vencimiento del producto.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, product_id, expiry, quantity, unit, category, brand, price, supplier, created_at, updated_at`

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	err := row.Scan(
		&l.ID, &l.ProductID, &l.Expiry, &l.Quantity, &l.Unit, &l.Category,
		&l.Brand, &l.Price, &l.Supplier, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste un lote nuevo.
func (r *LotRepo) Create(lot *entity.Lot) error {
	query := `
		INSERT INTO lots (id, product_id, expiry, quantity, unit, category, brand, price, supplier, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.ProductID, lot.Expiry, lot.Quantity, lot.Unit, lot.Category,
		lot.Brand, lot.Price, lot.Supplier, lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert lot: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// GetByKeyForUpdate busca por identidad (producto, vencimiento) y bloquea la
// fila (SELECT FOR UPDATE); nil si no existe. IS NOT DISTINCT FROM hace que
// NULL = NULL para la clave del lote sin fecha.
func (r *LotRepo) GetByKeyForUpdate(productID string, expiry *time.Time) (*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lots WHERE product_id = $1 AND expiry IS NOT DISTINCT FROM $2
		FOR UPDATE`
	lot, err := scanLot(r.q.QueryRow(context.Background(), query, productID, expiry))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot by key: %w", err)
	}
	return lot, nil
}

// ListByProduct devuelve todos los lotes del producto, incluidos los
// agotados, en orden FIFO: vencimiento ascendente con NULLS LAST.
func (r *LotRepo) ListByProduct(productID string) ([]*entity.Lot, error) {
	return r.listByProduct(productID, false)
}

// ListByProductForUpdate igual que ListByProduct pero bloquea las filas.
func (r *LotRepo) ListByProductForUpdate(productID string) ([]*entity.Lot, error) {
	return r.listByProduct(productID, true)
}

func (r *LotRepo) listByProduct(productID string, forUpdate bool) ([]*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lots WHERE product_id = $1
		ORDER BY expiry ASC NULLS LAST, created_at ASC`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, lot)
	}
	return list, rows.Err()
}

// UpdateQuantity reescribe existencia y proveedor del lote.
func (r *LotRepo) UpdateQuantity(lot *entity.Lot) error {
	query := `
		UPDATE lots SET quantity = $2, supplier = $3, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, lot.ID, lot.Quantity, lot.Supplier)
	if err != nil {
		return fmt.Errorf("update lot quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update lot quantity: lote %s no existe", lot.ID)
	}
	return nil
}
