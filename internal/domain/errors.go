package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrNotAuthenticated  = errors.New("se requiere iniciar sesión")
	ErrSessionExpired    = errors.New("la sesión expiró")
	ErrEmptyCart         = errors.New("el carrito está vacío")
	ErrOutOfStock        = errors.New("producto agotado")
	ErrCorruptedSnapshot = errors.New("estado local corrupto")
)
