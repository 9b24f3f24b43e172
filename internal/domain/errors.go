package domain

import "errors"

// Errores de dominio (sin dependencias externas). La capa HTTP los traduce a códigos de estado.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrListingNotFound    = errors.New("publicación no encontrada")
	ErrDealNotFound       = errors.New("oferta no encontrada")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrListingNotActive   = errors.New("la publicación no está activa")
	ErrListingSold        = errors.New("la publicación ya fue vendida")
	ErrDealResolved       = errors.New("la oferta ya fue respondida")
	ErrOwnListing         = errors.New("no se puede ofertar sobre una publicación propia")
)

// IsNotFound agrupa los errores de recurso inexistente.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrListingNotFound) || errors.Is(err, ErrDealNotFound)
}

// IsConflict agrupa los errores de precondición de estado.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrEmailAlreadyExists) ||
		errors.Is(err, ErrListingNotActive) || errors.Is(err, ErrListingSold) ||
		errors.Is(err, ErrDealResolved)
}

// IsForbidden agrupa los errores de autorización sobre un recurso.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) || errors.Is(err, ErrOwnListing)
}
