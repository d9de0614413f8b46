package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los use cases los envuelven con fmt.Errorf("%w: detalle", ...) y la capa HTTP los traduce a códigos.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrParentNotFound     = errors.New("documento no encontrado")
	ErrItemNotFound       = errors.New("línea no encontrada")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidNumber      = errors.New("número inválido")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
)

// IsValidation indica si err es un error de validación de entrada (400).
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidNumber)
}

// IsNotFound indica si err representa un recurso inexistente (404).
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrParentNotFound) ||
		errors.Is(err, ErrItemNotFound) || errors.Is(err, ErrUserNotFound)
}
