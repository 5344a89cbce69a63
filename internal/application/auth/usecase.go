package auth

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmacore/ledger-api/internal/application/dto"
	"github.com/farmacore/ledger-api/internal/domain"
	"github.com/farmacore/ledger-api/internal/domain/entity"
	"github.com/farmacore/ledger-api/internal/domain/repository"
	"github.com/farmacore/ledger-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login del personal.
type AuthUseCase struct {
	staffRepo repository.StaffRepository
	jwtCfg    JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(staffRepo repository.StaffRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{staffRepo: staffRepo, jwtCfg: jwtCfg}
}

// Register crea un miembro del personal: hashea password con bcrypt y
// persiste. Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) Register(in dto.RegisterRequest) (*dto.StaffResponse, error) {
	existing, _ := uc.staffRepo.FindByEmail(in.Email)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = in.Email
	}
	role := in.Role
	if role == "" {
		role = entity.RoleCajero
	}
	staff := &entity.Staff{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.staffRepo.Create(staff); err != nil {
		return nil, err
	}
	return toStaffResponse(staff), nil
}

// Login verifica email/password, genera JWT y retorna token + personal.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	staff, err := uc.staffRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, domain.ErrStaffNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if staff.Status != "active" {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, staff.ID, staff.Name, staff.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		Staff: *toStaffResponse(staff),
	}, nil
}

func toStaffResponse(s *entity.Staff) *dto.StaffResponse {
	if s == nil {
		return nil
	}
	return &dto.StaffResponse{
		ID:        s.ID,
		Email:     s.Email,
		Name:      s.Name,
		Role:      s.Role,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
