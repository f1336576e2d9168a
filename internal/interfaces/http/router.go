package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/electro-storefront/internal/application/checkout"
	"github.com/jhoicas/electro-storefront/internal/application/storefront"
	"github.com/jhoicas/electro-storefront/internal/domain/entity"
	"github.com/jhoicas/electro-storefront/pkg/config"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Storefront storefront.Deps
	Locker     *storefront.Locker
	Checkout   *checkout.Service
	Session    config.SessionConfig
}

// Router registra las vistas y la API del storefront. Toda ruta registrada aquí
// pasa por DeviceMiddleware.
func Router(app *fiber.App, deps RouterDeps) {
	locker := deps.Locker
	if locker == nil {
		locker = storefront.NewLocker()
	}
	device := DeviceMiddleware(deps.Storefront, locker, deps.Session)

	authHandler := NewAuthHandler()
	catalogHandler := NewCatalogHandler()
	cartHandler := NewCartHandler()
	contactHandler := NewContactHandler()
	orderHandler := NewOrderHandler()
	checkoutHandler := NewCheckoutHandler(deps.Checkout)
	customerHandler := NewCustomerHandler()
	dashboardHandler := NewDashboardHandler()

	// Vistas públicas
	app.Post("/login", device, authHandler.Login)
	app.Post("/register", device, authHandler.Register)
	app.Post("/logout", device, authHandler.Logout)
	app.Get("/unauthorized", device, authHandler.Unauthorized)
	app.Get(ProductsPath, device, catalogHandler.ListProducts)

	// API pública (invitado o usuario)
	api := app.Group("/api", device)
	api.Get("/session", authHandler.Session)
	api.Get("/products", catalogHandler.ListProducts)
	api.Get("/products/featured", catalogHandler.Featured)
	api.Get("/products/:id", catalogHandler.GetProduct)
	api.Get("/categories", catalogHandler.ListCategories)
	api.Get("/categories/:name/subcategories", catalogHandler.Subcategories)
	api.Post("/contact", contactHandler.Submit)

	cart := api.Group("/cart")
	cart.Get("/", cartHandler.Get)
	cart.Delete("/", cartHandler.Clear)
	cart.Post("/items", cartHandler.Add)
	cart.Put("/items/:productId", cartHandler.SetQuantity)
	cart.Delete("/items/:productId", cartHandler.Remove)
	cart.Post("/items/:productId/increment", cartHandler.Increment)
	cart.Post("/items/:productId/decrement", cartHandler.Decrement)

	// Vistas autenticadas
	authenticated := RequireRole("")
	profile := app.Group("/profile", device, authenticated)
	profile.Get("/", authHandler.Profile)
	profile.Put("/", authHandler.UpdateProfile)
	profile.Put("/password", authHandler.UpdatePassword)
	profile.Get("/orders", orderHandler.MyOrders)
	profile.Get("/orders/:id", orderHandler.Get)
	profile.Post("/orders/:id/cancel", orderHandler.Cancel)
	profile.Get("/orders/:id/receipt.pdf", checkoutHandler.Receipt)

	checkoutGroup := app.Group("/checkout", device, RequireCartItems(), authenticated)
	checkoutGroup.Get("/", checkoutHandler.Quote)
	checkoutGroup.Post("/", checkoutHandler.Place)

	// Administración
	admin := app.Group("/admin", device, RequireRole(entity.RoleAdmin))
	admin.Get("/", dashboardHandler.Index)
	admin.Get("/dashboard", dashboardHandler.GetSummary)

	admin.Get("/products", catalogHandler.ListProducts)
	admin.Post("/products", catalogHandler.CreateProduct)
	admin.Get("/products/:id", catalogHandler.GetProduct)
	admin.Put("/products/:id", catalogHandler.UpdateProduct)
	admin.Delete("/products/:id", catalogHandler.DeleteProduct)

	admin.Get("/categories", catalogHandler.ListCategories)
	admin.Post("/categories", catalogHandler.CreateCategory)
	admin.Get("/categories/:id", catalogHandler.GetCategory)
	admin.Put("/categories/:id", catalogHandler.UpdateCategory)
	admin.Delete("/categories/:id", catalogHandler.DeleteCategory)

	admin.Get("/orders", orderHandler.List)
	admin.Get("/orders/:id", orderHandler.Get)
	admin.Put("/orders/:id/status", orderHandler.UpdateStatus)
	admin.Put("/orders/:id/payment", orderHandler.UpdatePayment)
	admin.Post("/orders/:id/cancel", orderHandler.Cancel)
	admin.Get("/orders/:id/receipt.pdf", checkoutHandler.Receipt)

	admin.Get("/customers", customerHandler.List)
	admin.Get("/customers/:id", customerHandler.GetByID)
	admin.Put("/customers/:id", customerHandler.Update)
	admin.Delete("/customers/:id", customerHandler.Delete)

	admin.Get("/messages", contactHandler.List)
	admin.Get("/messages/:id", contactHandler.Get)
	admin.Post("/messages/:id/reply", contactHandler.Reply)
	admin.Delete("/messages/:id", contactHandler.Delete)
}
