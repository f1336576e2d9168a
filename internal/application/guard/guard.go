// Package guard decide el acceso a las vistas protegidas según la sesión.
package guard

import "github.com/jhoicas/electro-storefront/internal/domain/entity"

// Decision resultado de evaluar una vista protegida.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectUnauthorized
)

// Rutas a las que redirige el guard.
const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	default:
		return "redirect-unauthorized"
	}
}

// Target ruta de redirección; vacía para Allow.
func (d Decision) Target() string {
	switch d {
	case RedirectLogin:
		return LoginPath
	case RedirectUnauthorized:
		return UnauthorizedPath
	default:
		return ""
	}
}

// Decide evalúa la sesión contra el rol requerido. requiredRole vacío solo exige sesión.
func Decide(s entity.Session, requiredRole entity.Role) Decision {
	if !s.IsAuthenticated() {
		return RedirectLogin
	}
	if requiredRole != "" && s.User.Role != requiredRole {
		return RedirectUnauthorized
	}
	return Allow
}
