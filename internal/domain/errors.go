package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidState       = errors.New("la transacción no admite esta operación")
	ErrConsistency        = errors.New("los totales de la división no cuadran")
	ErrStaffNotFound      = errors.New("personal no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrDuplicate          = errors.New("recurso duplicado")
)

// Shortfall describe el faltante de una línea del pedido: cuánto se pidió
// y cuánto hay disponible sumando todos los lotes del producto.
type Shortfall struct {
	ProductID string `json:"product_id"`
	Requested int64  `json:"requested"`
	Available int64  `json:"available"`
}

// InsufficientStockError agrupa todos los faltantes detectados por el
// verificador de disponibilidad. Se reporta el pedido completo, no solo
// la primera línea corta, para que el cajero pueda corregir de una vez.
type InsufficientStockError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s: pedido %d, disponible %d", s.ProductID, s.Requested, s.Available))
	}
	return "stock insuficiente: " + strings.Join(parts, "; ")
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ConsistencyError reporta la violación del invariante de división:
// total original == total devuelto + total restante (con tolerancia de redondeo).
type ConsistencyError struct {
	Original  decimal.Decimal
	Returned  decimal.Decimal
	Remainder decimal.Decimal
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("división inconsistente: original=%s devuelto=%s restante=%s",
		e.Original.StringFixed(2), e.Returned.StringFixed(2), e.Remainder.StringFixed(2))
}

// Unwrap permite errors.Is(err, ErrConsistency).
func (e *ConsistencyError) Unwrap() error { return ErrConsistency }
