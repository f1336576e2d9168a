package ports

import (
	"context"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/domain/entity"
)

// AuthAPI endpoints /auth del backend.
type AuthAPI interface {
	Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context) (*entity.User, error)
	// UpdateProfile acepta tanto el usuario suelto como {user: ...} en la respuesta.
	UpdateProfile(ctx context.Context, in dto.UpdateProfileRequest) (*entity.User, error)
	UpdatePassword(ctx context.Context, in dto.UpdatePasswordRequest) (*dto.PasswordResponse, error)
}

// CatalogAPI productos y categorías.
type CatalogAPI interface {
	ListProducts(ctx context.Context, f dto.ProductFilter) (*dto.ProductListResponse, error)
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	FeaturedProducts(ctx context.Context) ([]entity.Product, error)
	CreateProduct(ctx context.Context, in dto.ProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id string, in dto.ProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]entity.Category, error)
	GetCategory(ctx context.Context, id string) (*entity.Category, error)
	CreateCategory(ctx context.Context, in dto.CategoryInput) (*entity.Category, error)
	UpdateCategory(ctx context.Context, id string, in dto.CategoryInput) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// OrderAPI pedidos. El backend filtra por usuario cuando el token no es admin.
type OrderAPI interface {
	ListOrders(ctx context.Context, f dto.OrderFilter) ([]entity.Order, error)
	GetOrder(ctx context.Context, id string) (*entity.Order, error)
	CreateOrder(ctx context.Context, in dto.CreateOrderRequest, idempotencyKey string) (*entity.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) (*entity.Order, error)
	UpdatePaymentStatus(ctx context.Context, id, status string) (*entity.Order, error)
	CancelOrder(ctx context.Context, id, reason string) (*entity.Order, error)
}

// UserAPI administración de clientes.
type UserAPI interface {
	ListUsers(ctx context.Context, f dto.UserFilter) ([]entity.User, error)
	GetUser(ctx context.Context, id string) (*entity.User, error)
	UpdateUser(ctx context.Context, id string, in dto.UpdateUserRequest) (*entity.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// ContactAPI mensajes del formulario de contacto.
type ContactAPI interface {
	SubmitContact(ctx context.Context, in dto.ContactRequest) error
	ListMessages(ctx context.Context, status string) ([]entity.ContactMessage, error)
	GetMessage(ctx context.Context, id string) (*entity.ContactMessage, error)
	ReplyMessage(ctx context.Context, id string, in dto.ReplyMessageRequest) (*entity.ContactMessage, error)
	DeleteMessage(ctx context.Context, id string) error
}

// StoreAPI puerto de salida completo hacia el backend REST de la tienda.
// Cualquier adaptador (HTTP, fake en tests) debe implementarlo.
type StoreAPI interface {
	AuthAPI
	CatalogAPI
	OrderAPI
	UserAPI
	ContactAPI
}

// TokenSource entrega el bearer token del dispositivo y cierra su sesión cuando el
// backend lo rechaza con 401.
type TokenSource interface {
	Token() string
	Invalidate(ctx context.Context)
}
