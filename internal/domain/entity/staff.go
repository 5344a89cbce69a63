package entity

import "time"

// Roles del personal de la farmacia.
const (
	RoleAdmin        = "admin"
	RoleFarmaceutico = "farmaceutico"
	RoleCajero       = "cajero"
)

// Staff un miembro del personal. Name es el nombre visible que se adjunta a
// cada transacción y a cada entrada de bitácora.
type Staff struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
