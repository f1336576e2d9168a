package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"github.com/jhoicas/electro-storefront/internal/application/guard"
	"github.com/jhoicas/electro-storefront/internal/application/storefront"
	"github.com/jhoicas/electro-storefront/internal/domain"
	"github.com/jhoicas/electro-storefront/internal/domain/entity"
	"github.com/jhoicas/electro-storefront/pkg/config"
)

// LocalWorkspace key de c.Locals con el *storefront.Workspace del dispositivo.
const LocalWorkspace = "workspace"

// DefaultDeviceCookie nombre de la cookie de dispositivo si la config no indica otro.
const DefaultDeviceCookie = "sf_device"

// DeviceMiddleware identifica el dispositivo por cookie (uuid v4; se emite si falta o
// es inválida), toma su lock, abre el Workspace y lo deja en c.Locals hasta el final
// de la petición.
func DeviceMiddleware(deps storefront.Deps, locker *storefront.Locker, cfg config.SessionConfig) fiber.Handler {
	name := cfg.DeviceCookie
	if name == "" {
		name = DefaultDeviceCookie
	}
	return func(c *fiber.Ctx) error {
		// c.Cookies apunta al buffer de fasthttp, que se reutiliza entre peticiones.
		deviceID := utils.CopyString(c.Cookies(name))
		if _, err := uuid.Parse(deviceID); err != nil {
			deviceID = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     name,
				Value:    deviceID,
				Path:     "/",
				Expires:  time.Now().AddDate(1, 0, 0),
				HTTPOnly: true,
				Secure:   cfg.CookieSecure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		unlock := locker.Lock(deviceID)
		defer unlock()

		ws, err := storefront.Open(c.UserContext(), deps, deviceID)
		if err != nil {
			return respondError(c, err)
		}
		defer ws.Close()
		c.Locals(LocalWorkspace, ws)
		return c.Next()
	}
}

// GetWorkspace devuelve el Workspace del dispositivo (después de DeviceMiddleware).
func GetWorkspace(c *fiber.Ctx) *storefront.Workspace {
	ws, _ := c.Locals(LocalWorkspace).(*storefront.Workspace)
	return ws
}

// RequireRole protege las vistas según la sesión del dispositivo. role vacío solo exige
// sesión. Sin sesión redirige a /login; con rol insuficiente a /unauthorized.
// Debe usarse DESPUÉS de DeviceMiddleware.
func RequireRole(role entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws := GetWorkspace(c)
		if ws == nil {
			return redirect(c, guard.LoginPath, fiber.StatusUnauthorized, "NOT_AUTHENTICATED", "se requiere iniciar sesión")
		}
		switch d := guard.Decide(ws.Session(), role); d {
		case guard.Allow:
			return c.Next()
		case guard.RedirectLogin:
			return redirect(c, d.Target(), fiber.StatusUnauthorized, "NOT_AUTHENTICATED", "se requiere iniciar sesión")
		default:
			return redirect(c, d.Target(), fiber.StatusForbidden, "FORBIDDEN", "no tiene permisos para esta vista")
		}
	}
}

// RequireCartItems envía a /products si el carrito del dispositivo está vacío. En
// /checkout va antes de RequireRole: un visitante sin líneas no pasa por /login.
func RequireCartItems() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ws := GetWorkspace(c); ws != nil && !ws.Cart().IsEmpty() {
			return c.Next()
		}
		return respondError(c, domain.ErrEmptyCart)
	}
}
