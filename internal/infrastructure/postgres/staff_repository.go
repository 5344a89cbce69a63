package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmacore/ledger-api/internal/domain"
	"github.com/farmacore/ledger-api/internal/domain/entity"
	"github.com/farmacore/ledger-api/internal/domain/repository"
)

var _ repository.StaffRepository = (*StaffRepo)(nil)

// StaffRepo implementación del puerto StaffRepository sobre PostgreSQL.
type StaffRepo struct {
	pool *pgxpool.Pool
}

// NewStaffRepository construye el adaptador de persistencia para el personal.
func NewStaffRepository(pool *pgxpool.Pool) *StaffRepo {
	return &StaffRepo{pool: pool}
}

// Create persiste un miembro del personal.
func (r *StaffRepo) Create(staff *entity.Staff) error {
	query := `
		INSERT INTO staff (id, email, password_hash, name, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(context.Background(), query,
		staff.ID, staff.Email, staff.PasswordHash, staff.Name, staff.Role, staff.Status,
		staff.CreatedAt, staff.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert staff: %w", err)
	}
	return nil
}

// GetByID obtiene un miembro del personal por ID; nil si no existe.
func (r *StaffRepo) GetByID(id string) (*entity.Staff, error) {
	query := `
		SELECT id, email, password_hash, name, role, status, created_at, updated_at
		FROM staff WHERE id = $1`
	return r.queryOne(query, id)
}

// FindByEmail obtiene un miembro del personal por email; nil si no existe.
func (r *StaffRepo) FindByEmail(email string) (*entity.Staff, error) {
	query := `
		SELECT id, email, password_hash, name, role, status, created_at, updated_at
		FROM staff WHERE email = $1 LIMIT 1`
	return r.queryOne(query, email)
}

func (r *StaffRepo) queryOne(query string, arg any) (*entity.Staff, error) {
	var s entity.Staff
	err := r.pool.QueryRow(context.Background(), query, arg).Scan(
		&s.ID, &s.Email, &s.PasswordHash, &s.Name, &s.Role, &s.Status,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get staff: %w", err)
	}
	return &s, nil
}
