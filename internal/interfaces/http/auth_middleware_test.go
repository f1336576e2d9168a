package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/electro-storefront/internal/application/checkout"
	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/application/ports"
	"github.com/jhoicas/electro-storefront/internal/application/storefront"
	"github.com/jhoicas/electro-storefront/internal/domain/entity"
	"github.com/jhoicas/electro-storefront/internal/infrastructure/pdf"
	"github.com/jhoicas/electro-storefront/internal/infrastructure/restapi"
	"github.com/jhoicas/electro-storefront/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/electro-storefront/internal/interfaces/http"
	"github.com/jhoicas/electro-storefront/internal/testutil/fakeapi"
	"github.com/jhoicas/electro-storefront/pkg/config"
	"github.com/jhoicas/electro-storefront/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testPassword = "secret123"

// buildTestApp construye el storefront completo sobre el backend falso y un
// almacenamiento en memoria.
func buildTestApp(t *testing.T) (*fiber.App, *fakeapi.Server) {
	t.Helper()
	api := fakeapi.New(t)
	base := restapi.New(config.APIConfig{BaseURL: api.URL(), Timeout: 5 * time.Second}, logger.Nop())
	svc := checkout.NewService(config.CheckoutConfig{
		FreeShippingThreshold: decimal.NewFromInt(50000),
		FlatShipping:          decimal.NewFromInt(2000),
		TaxRate:               decimal.RequireFromString("0.075"),
	}, pdf.NewMarotoPDFGenerator(pdf.StoreInfo{Name: "Electro Test"}), logger.Nop())

	app := fiber.New(fiber.Config{
		// Silenciar errores internos en los tests
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	apphttp.Router(app, apphttp.RouterDeps{
		Storefront: storefront.Deps{
			KV:  storage.NewMemoryStore(),
			API: func(tokens ports.TokenSource) ports.StoreAPI { return base.ForDevice(tokens) },
			Log: logger.Nop(),
		},
		Locker:   storefront.NewLocker(),
		Checkout: svc,
		Session:  config.SessionConfig{DeviceCookie: apphttp.DefaultDeviceCookie},
	})
	return app, api
}

// browser guarda la cookie de dispositivo entre peticiones.
type browser struct {
	t      *testing.T
	app    *fiber.App
	device string
}

func newBrowser(t *testing.T, app *fiber.App) *browser {
	return &browser{t: t, app: app}
}

func (b *browser) do(method, path string, body any) *http.Response {
	b.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.device != "" {
		req.AddCookie(&http.Cookie{Name: apphttp.DefaultDeviceCookie, Value: b.device})
	}
	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == apphttp.DefaultDeviceCookie {
			b.device = ck.Value
		}
	}
	return resp
}

func (b *browser) login(email string) {
	b.t.Helper()
	resp := b.do(http.MethodPost, "/login", dto.LoginRequest{Email: email, Password: testPassword})
	require.Equal(b.t, fiber.StatusOK, resp.StatusCode)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// DeviceMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestDeviceMiddleware_EmiteCookie(t *testing.T) {
	app, _ := buildTestApp(t)
	b := newBrowser(t, app)

	resp := b.do(http.MethodGet, "/api/session", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotEmpty(t, b.device)

	first := b.device
	b.do(http.MethodGet, "/api/session", nil)
	assert.Equal(t, first, b.device, "la cookie válida se reutiliza")
}

func TestDeviceMiddleware_CookieInvalidaSeReemplaza(t *testing.T) {
	app, _ := buildTestApp(t)
	b := newBrowser(t, app)
	b.device = "../../etc/passwd"

	b.do(http.MethodGet, "/api/session", nil)
	assert.NotEqual(t, "../../etc/passwd", b.device)
	assert.Len(t, b.device, 36)
}

func TestDeviceMiddleware_CarritosPorDispositivo(t *testing.T) {
	app, api := buildTestApp(t)
	api.SeedProduct(entity.Product{ID: "p1", Name: "Tostadora", Price: decimal.NewFromInt(15000), Stock: 5})

	a, b := newBrowser(t, app), newBrowser(t, app)
	resp := a.do(http.MethodPost, "/api/cart/items", dto.AddToCartRequest{ProductID: "p1", Quantity: 2})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	cartA := decode[dto.CartResponse](t, a.do(http.MethodGet, "/api/cart", nil))
	cartB := decode[dto.CartResponse](t, b.do(http.MethodGet, "/api/cart", nil))
	assert.Equal(t, 2, cartA.Cart.ItemCount)
	assert.Equal(t, "guest", cartA.Identity)
	assert.Zero(t, cartB.Cart.ItemCount)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

// Caso a: sin sesión → /login.
func TestRequireRole_SinSesionRedirigeALogin(t *testing.T) {
	app, _ := buildTestApp(t)
	b := newBrowser(t, app)

	for _, path := range []string{"/profile", "/admin/dashboard"} {
		resp := b.do(http.MethodGet, path, nil)
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
}

func TestCheckout_VisitanteSinLineasVaAProductos(t *testing.T) {
	app, api := buildTestApp(t)
	api.SeedProduct(entity.Product{ID: "p1", Name: "Licuadora", Price: decimal.NewFromInt(15000), Stock: 5})
	b := newBrowser(t, app)

	resp := b.do(http.MethodGet, "/checkout", nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/products", resp.Header.Get("Location"), "el carrito vacío se evalúa antes que la sesión")

	b.do(http.MethodPost, "/api/cart/items", dto.AddToCartRequest{ProductID: "p1", Quantity: 1})
	resp = b.do(http.MethodGet, "/checkout", nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

// Caso b: customer en vista admin → /unauthorized.
func TestRequireRole_CustomerEnAdmin(t *testing.T) {
	app, api := buildTestApp(t)
	api.SeedUser("Ana", "ana@shop.test", testPassword, entity.RoleCustomer)
	b := newBrowser(t, app)
	b.login("ana@shop.test")

	resp := b.do(http.MethodGet, "/admin/dashboard", nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/unauthorized", resp.Header.Get("Location"))

	resp = b.do(http.MethodGet, "/profile", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

// Caso c: admin en vista admin → pasa; /admin redirige al dashboard.
func TestRequireRole_AdminAccedeAlPanel(t *testing.T) {
	app, api := buildTestApp(t)
	api.SeedUser("Admin", "admin@shop.test", testPassword, entity.RoleAdmin)
	b := newBrowser(t, app)
	b.login("admin@shop.test")

	resp := b.do(http.MethodGet, "/admin", nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/dashboard", resp.Header.Get("Location"))

	resp = b.do(http.MethodGet, "/admin/dashboard", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	summary := decode[dto.DashboardSummaryDTO](t, resp)
	assert.Contains(t, summary.OrdersByStatus, entity.OrderPending)
}

func TestRequireRole_SesionVencidaRedirigeALogin(t *testing.T) {
	app, api := buildTestApp(t)
	api.SeedUser("Ana", "ana@shop.test", testPassword, entity.RoleCustomer)
	b := newBrowser(t, app)
	b.login("ana@shop.test")

	api.RevokeTokens()
	resp := b.do(http.MethodGet, "/profile/orders", nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	s := decode[dto.SessionResponse](t, b.do(http.MethodGet, "/api/session", nil))
	assert.False(t, s.Authenticated)

	resp = b.do(http.MethodGet, "/profile", nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
}

func TestRequireRole_HandlerDirecto(t *testing.T) {
	app := fiber.New()
	app.Get("/solo-admin", apphttp.RequireRole(entity.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/api/solo-admin", apphttp.RequireRole(entity.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	// sin DeviceMiddleware no hay sesión
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/solo-admin", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/solo-admin", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "/login", body.Redirect)
}
