package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmacore/ledger-api/internal/domain/repository"
)

var _ repository.SummaryRepository = (*SummaryRepo)(nil)

// SummaryRepo consultas de lectura para el tablero. Los agregados se calculan
// en SQL; aquí no hay mutaciones.
type SummaryRepo struct {
	pool *pgxpool.Pool
}

// NewSummaryRepository construye el adaptador de resumen.
func NewSummaryRepository(pool *pgxpool.Pool) *SummaryRepo {
	return &SummaryRepo{pool: pool}
}

// GetTotals totales de inventario: productos con lote, unidades y valor.
func (r *SummaryRepo) GetTotals(ctx context.Context) (*repository.InventoryTotalsResult, error) {
	query := `
		SELECT COUNT(DISTINCT product_id),
		       COALESCE(SUM(quantity), 0),
		       COALESCE(SUM(quantity * price), 0)
		FROM lots`
	var t repository.InventoryTotalsResult
	err := r.pool.QueryRow(ctx, query).Scan(&t.ProductsTracked, &t.UnitsOnHand, &t.InventoryValue)
	if err != nil {
		return nil, fmt.Errorf("get inventory totals: %w", err)
	}
	return &t, nil
}

// GetOnHand existencia por producto, los de menor existencia primero.
func (r *SummaryRepo) GetOnHand(ctx context.Context, limit, offset int) ([]repository.ProductOnHandResult, error) {
	query := `
		SELECT p.id, p.sku, p.name, p.unit,
		       COALESCE(SUM(l.quantity), 0) AS on_hand,
		       COUNT(l.id) AS lot_count
		FROM products p
		LEFT JOIN lots l ON l.product_id = p.id
		GROUP BY p.id, p.sku, p.name, p.unit
		ORDER BY on_hand ASC, p.name ASC
		LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("get on hand: %w", err)
	}
	defer rows.Close()
	var list []repository.ProductOnHandResult
	for rows.Next() {
		var p repository.ProductOnHandResult
		if err := rows.Scan(&p.ProductID, &p.SKU, &p.Name, &p.Unit, &p.OnHand, &p.LotCount); err != nil {
			return nil, fmt.Errorf("scan on hand: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetExpiringLots lotes con existencia que vencen antes del límite, los más
// próximos a vencer primero.
func (r *SummaryRepo) GetExpiringLots(ctx context.Context, before time.Time, limit int) ([]repository.ExpiringLotResult, error) {
	query := `
		SELECT l.id, l.product_id, p.sku, p.name, l.expiry, l.quantity
		FROM lots l
		JOIN products p ON p.id = l.product_id
		WHERE l.expiry IS NOT NULL AND l.expiry < $1 AND l.quantity > 0
		ORDER BY l.expiry ASC
		LIMIT $2`
	rows, err := r.pool.Query(ctx, query, before, limit)
	if err != nil {
		return nil, fmt.Errorf("get expiring lots: %w", err)
	}
	defer rows.Close()
	var list []repository.ExpiringLotResult
	for rows.Next() {
		var l repository.ExpiringLotResult
		if err := rows.Scan(&l.LotID, &l.ProductID, &l.SKU, &l.Name, &l.Expiry, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan expiring lot: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// GetLowStock productos cuya existencia total está por debajo del umbral.
func (r *SummaryRepo) GetLowStock(ctx context.Context, threshold int64, limit int) ([]repository.ProductOnHandResult, error) {
	query := `
		SELECT p.id, p.sku, p.name, p.unit,
		       COALESCE(SUM(l.quantity), 0) AS on_hand,
		       COUNT(l.id) AS lot_count
		FROM products p
		LEFT JOIN lots l ON l.product_id = p.id
		GROUP BY p.id, p.sku, p.name, p.unit
		HAVING COALESCE(SUM(l.quantity), 0) < $1
		ORDER BY on_hand ASC, p.name ASC
		LIMIT $2`
	rows, err := r.pool.Query(ctx, query, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("get low stock: %w", err)
	}
	defer rows.Close()
	var list []repository.ProductOnHandResult
	for rows.Next() {
		var p repository.ProductOnHandResult
		if err := rows.Scan(&p.ProductID, &p.SKU, &p.Name, &p.Unit, &p.OnHand, &p.LotCount); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
