package repository

import "github.com/farmacore/ledger-api/internal/domain/entity"

// StaffRepository define el puerto de persistencia del personal.
type StaffRepository interface {
	Create(staff *entity.Staff) error
	GetByID(id string) (*entity.Staff, error)
	FindByEmail(email string) (*entity.Staff, error)
}
