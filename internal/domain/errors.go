package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrPersistence        = errors.New("error de persistencia")
	ErrConfig             = errors.New("configuración del servidor incompleta")
)

// Motivos legibles por máquina de los errores de validación.
const (
	ReasonMissingField     = "MISSING_FIELD"
	ReasonInvalidEnum      = "INVALID_ENUM"
	ReasonInvalidTimestamp = "INVALID_TIMESTAMP"
	ReasonPastDueDate      = "PAST_DUE_DATE"
)

// ValidationError error de entrada del cliente (400). Message nombra el campo ofensor.
type ValidationError struct {
	Reason  string
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is permite errors.Is(err, ErrInvalidInput) sobre cualquier ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError construye un ValidationError.
func NewValidationError(reason, field, message string) *ValidationError {
	return &ValidationError{Reason: reason, Field: field, Message: message}
}
