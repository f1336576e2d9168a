package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/application/usecase"
	"github.com/jhoicas/electro-storefront/internal/domain"
	"github.com/jhoicas/electro-storefront/internal/domain/entity"
	"github.com/jhoicas/electro-storefront/internal/infrastructure/restapi"
	"github.com/jhoicas/electro-storefront/internal/testutil/fakeapi"
	"github.com/jhoicas/electro-storefront/pkg/config"
	"github.com/jhoicas/electro-storefront/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type staticToken string

func (s staticToken) Token() string                  { return string(s) }
func (s staticToken) Invalidate(ctx context.Context) {}

func client(t *testing.T, api *fakeapi.Server, token string) *restapi.Client {
	t.Helper()
	base := restapi.New(config.APIConfig{BaseURL: api.URL(), Timeout: 5 * time.Second}, logger.Nop())
	return base.ForDevice(staticToken(token))
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func seedCatalog(api *fakeapi.Server) {
	api.SeedProduct(entity.Product{ID: "p1", Name: "Nevera Frost", Description: "Nevera de dos puertas", Price: decimal.NewFromInt(300000), Stock: 3})
	api.SeedProduct(entity.Product{ID: "p2", Name: "Licuadora", Description: "Vaso de vidrio", Price: decimal.NewFromInt(45000), Stock: 0})
	api.SeedProduct(entity.Product{ID: "p3", Name: "Ventilador", Description: "Silencioso, ideal para nevera portátil", Price: decimal.NewFromInt(80000), Stock: 10})
}

func ids(ps []entity.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalog_BusquedaEnNombreYDescripcion(t *testing.T) {
	api := fakeapi.New(t)
	seedCatalog(api)
	uc := usecase.NewCatalogUseCase(client(t, api, ""))

	out, err := uc.ListProducts(context.Background(), dto.ProductFilter{Search: "NEVERA", Sort: "name"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3"}, ids(out.Items))
	assert.Equal(t, 2, out.Total)
}

func TestCatalog_RangoDePrecio(t *testing.T) {
	api := fakeapi.New(t)
	seedCatalog(api)
	uc := usecase.NewCatalogUseCase(client(t, api, ""))

	out, err := uc.ListProducts(context.Background(), dto.ProductFilter{MinPrice: dec(40000), MaxPrice: dec(100000), Sort: "price"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p3"}, ids(out.Items))
}

func TestCatalog_SinFiltrosDevuelveTotalDelBackend(t *testing.T) {
	api := fakeapi.New(t)
	seedCatalog(api)
	uc := usecase.NewCatalogUseCase(client(t, api, ""))

	out, err := uc.ListProducts(context.Background(), dto.ProductFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 3, out.Total)
}

func TestCatalog_FiltrosInvalidos(t *testing.T) {
	uc := usecase.NewCatalogUseCase(client(t, fakeapi.New(t), ""))

	_, err := uc.ListProducts(context.Background(), dto.ProductFilter{Sort: "stock"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ListProducts(context.Background(), dto.ProductFilter{MinPrice: dec(10), MaxPrice: dec(5)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCatalog_CreateProductValidaAntesDeLlamar(t *testing.T) {
	api := fakeapi.New(t)
	_, token := api.SeedUser("Admin", "admin@shop.test", "secret123", entity.RoleAdmin)
	uc := usecase.NewCatalogUseCase(client(t, api, token))

	_, err := uc.CreateProduct(context.Background(), dto.ProductInput{Name: "Horno", Category: "Cocina"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, api.CountRequests(http.MethodPost, "/api/products"))

	p, err := uc.CreateProduct(context.Background(), dto.ProductInput{Name: "Horno", Category: "Cocina", Price: decimal.NewFromInt(120000), Stock: 4})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Horno", p.Name)
}

func TestCatalog_Subcategorias(t *testing.T) {
	api := fakeapi.New(t)
	api.SeedCategory(entity.Category{Name: "Cocina", Subcategories: []string{"Hornos", "Licuadoras"}})
	uc := usecase.NewCatalogUseCase(client(t, api, ""))

	subs, err := uc.Subcategories(context.Background(), "cocina")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hornos", "Licuadoras"}, subs)

	subs, err = uc.Subcategories(context.Background(), "Jardín")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pedidos
// ──────────────────────────────────────────────────────────────────────────────

func placeOrder(t *testing.T, api *fakeapi.Server, token, productID string, qty int, price int64) *entity.Order {
	t.Helper()
	sub := decimal.NewFromInt(price * int64(qty))
	o, err := client(t, api, token).CreateOrder(context.Background(), dto.CreateOrderRequest{
		Items:         []entity.OrderItem{{ProductID: productID, Name: productID, Price: decimal.NewFromInt(price), Quantity: qty}},
		PaymentMethod: "cash",
		Subtotal:      sub,
		Total:         sub,
	}, "")
	require.NoError(t, err)
	return o
}

func TestOrders_ValidaEstados(t *testing.T) {
	uc := usecase.NewOrderUseCase(client(t, fakeapi.New(t), "x"))

	_, err := uc.List(context.Background(), dto.OrderFilter{Status: "lost"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.UpdateStatus(context.Background(), "o1", "teleported")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.UpdatePayment(context.Background(), "o1", "maybe")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOrders_MisPedidosYGestionAdmin(t *testing.T) {
	api := fakeapi.New(t)
	seedCatalog(api)
	_, ana := api.SeedUser("Ana", "ana@shop.test", "secret123", entity.RoleCustomer)
	_, beto := api.SeedUser("Beto", "beto@shop.test", "secret123", entity.RoleCustomer)
	_, admin := api.SeedUser("Admin", "admin@shop.test", "secret123", entity.RoleAdmin)

	o := placeOrder(t, api, ana, "p3", 2, 80000)
	placeOrder(t, api, beto, "p3", 1, 80000)

	mine, err := usecase.NewOrderUseCase(client(t, api, ana)).MyOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, o.ID, mine[0].ID)

	adminUC := usecase.NewOrderUseCase(client(t, api, admin))
	all, err := adminUC.List(context.Background(), dto.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	updated, err := adminUC.UpdateStatus(context.Background(), o.ID, entity.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderShipped, updated.OrderStatus)

	shipped, err := adminUC.List(context.Background(), dto.OrderFilter{Status: entity.OrderShipped})
	require.NoError(t, err)
	assert.Len(t, shipped, 1)
}

func TestOrders_CancelarDevuelveStock(t *testing.T) {
	api := fakeapi.New(t)
	seedCatalog(api)
	_, ana := api.SeedUser("Ana", "ana@shop.test", "secret123", entity.RoleCustomer)
	o := placeOrder(t, api, ana, "p1", 2, 300000)

	p, _ := api.Product("p1")
	require.Equal(t, 1, p.Stock)

	cancelled, err := usecase.NewOrderUseCase(client(t, api, ana)).Cancel(context.Background(), o.ID, "  cambié de idea ")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, cancelled.OrderStatus)
	assert.Equal(t, "cambié de idea", cancelled.CancelReason)

	p, _ = api.Product("p1")
	assert.Equal(t, 3, p.Stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes y contacto
// ──────────────────────────────────────────────────────────────────────────────

func TestCustomers_FiltrosYRol(t *testing.T) {
	api := fakeapi.New(t)
	ana, _ := api.SeedUser("Ana", "ana@shop.test", "secret123", entity.RoleCustomer)
	_, admin := api.SeedUser("Admin", "admin@shop.test", "secret123", entity.RoleAdmin)
	uc := usecase.NewCustomerUseCase(client(t, api, admin))

	_, err := uc.List(context.Background(), dto.UserFilter{Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.List(context.Background(), dto.UserFilter{IsActive: "si"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	customers, err := uc.List(context.Background(), dto.UserFilter{Role: string(entity.RoleCustomer)})
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, ana.ID, customers[0].ID)

	bad := "superuser"
	_, err = uc.Update(context.Background(), ana.ID, dto.UpdateUserRequest{Role: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	inactive := false
	u, err := uc.Update(context.Background(), ana.ID, dto.UpdateUserRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, u.IsActive)
}

func TestContact_SubmitValidaEmail(t *testing.T) {
	api := fakeapi.New(t)
	uc := usecase.NewContactUseCase(client(t, api, ""))

	err := uc.Submit(context.Background(), dto.ContactRequest{Name: "Ana", Email: "no-es-email", Subject: "Hola", Message: "?"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, uc.Submit(context.Background(), dto.ContactRequest{Name: "Ana", Email: "ana@shop.test", Subject: "Garantía", Message: "¿Cuánto dura?"}))
	assert.Equal(t, 1, api.CountRequests(http.MethodPost, "/api/contact"))
}

func TestContact_ReplyPorDefectoQuedaReplied(t *testing.T) {
	api := fakeapi.New(t)
	m := api.SeedMessage(entity.ContactMessage{Name: "Ana", Email: "ana@shop.test", Subject: "Envío", Message: "¿Llega a Lagos?"})
	_, admin := api.SeedUser("Admin", "admin@shop.test", "secret123", entity.RoleAdmin)
	uc := usecase.NewContactUseCase(client(t, api, admin))

	_, err := uc.Reply(context.Background(), m.ID, dto.ReplyMessageRequest{Reply: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := uc.Reply(context.Background(), m.ID, dto.ReplyMessageRequest{Reply: "Sí, en 3 días"})
	require.NoError(t, err)
	assert.Equal(t, entity.MessageReplied, out.Status)
	assert.NotNil(t, out.RepliedAt)

	_, err = uc.List(context.Background(), "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboard_Summary(t *testing.T) {
	api := fakeapi.New(t)
	seedCatalog(api)
	api.SeedCategory(entity.Category{Name: "Cocina"})
	api.SeedMessage(entity.ContactMessage{Name: "Ana", Email: "ana@shop.test", Subject: "s", Message: "m"})
	_, ana := api.SeedUser("Ana", "ana@shop.test", "secret123", entity.RoleCustomer)
	_, admin := api.SeedUser("Admin", "admin@shop.test", "secret123", entity.RoleAdmin)

	paid := placeOrder(t, api, ana, "p3", 2, 80000)
	placeOrder(t, api, ana, "p1", 1, 300000)
	_, err := usecase.NewOrderUseCase(client(t, api, admin)).UpdatePayment(context.Background(), paid.ID, entity.PaymentPaid)
	require.NoError(t, err)

	s, err := usecase.NewDashboardUseCase(client(t, api, admin)).Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, s.TotalProducts)
	assert.Equal(t, 1, s.OutOfStock)
	assert.Equal(t, 1, s.TotalCategories)
	assert.Equal(t, 2, s.TotalOrders)
	assert.Equal(t, 2, s.OrdersByStatus[entity.OrderPending])
	assert.Equal(t, 0, s.OrdersByStatus[entity.OrderDelivered])
	assert.Equal(t, 1, s.UnreadMessages)
	assert.True(t, decimal.NewFromInt(160000).Equal(s.Revenue))
}

func TestDashboard_FallaDelBackend(t *testing.T) {
	api := fakeapi.New(t)
	_, admin := api.SeedUser("Admin", "admin@shop.test", "secret123", entity.RoleAdmin)
	api.FailNext(http.MethodGet, "/api/orders", http.StatusInternalServerError, "boom")

	_, err := usecase.NewDashboardUseCase(client(t, api, admin)).Summary(context.Background())
	var apiErr *dto.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}
