package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/domain"
	"github.com/jhoicas/electro-storefront/internal/domain/entity"
)

// ── Envelopes del backend ─────────────────────────────────────────────────────

type authEnvelope struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

type userEnvelope struct {
	User *entity.User `json:"user"`
}

type usersEnvelope struct {
	Users []entity.User `json:"users"`
}

type productsEnvelope struct {
	Products []entity.Product `json:"products"`
	Data     []entity.Product `json:"data"`
	Total    int              `json:"total"`
}

func (e productsEnvelope) items() []entity.Product {
	if e.Products != nil {
		return e.Products
	}
	if e.Data != nil {
		return e.Data
	}
	return []entity.Product{}
}

type productEnvelope struct {
	Product *entity.Product `json:"product"`
	Data    *entity.Product `json:"data"`
}

func (e productEnvelope) item() (*entity.Product, error) {
	if e.Product != nil {
		return e.Product, nil
	}
	if e.Data != nil {
		return e.Data, nil
	}
	return nil, missingField("product")
}

type categoriesEnvelope struct {
	Categories []entity.Category `json:"categories"`
}

type categoryEnvelope struct {
	Category *entity.Category `json:"category"`
}

type ordersEnvelope struct {
	Orders []entity.Order `json:"orders"`
}

type orderEnvelope struct {
	Order *entity.Order `json:"order"`
}

type messagesEnvelope struct {
	Messages []entity.ContactMessage `json:"messages"`
}

// messageEnvelope el campo message es el documento en get/reply y un texto en submit/delete.
type messageEnvelope struct {
	Message json.RawMessage `json:"message"`
}

func missingField(name string) error {
	return &dto.APIError{Status: http.StatusOK, Code: "INVALID_RESPONSE", Message: "respuesta sin " + name, Err: domain.ErrCorruptedSnapshot}
}

// ── Auth ──────────────────────────────────────────────────────────────────────

func (c *Client) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	var env authEnvelope
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: in}, &env); err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: env.Token, User: env.User}, nil
}

func (c *Client) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	var env authEnvelope
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: in}, &env); err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: env.Token, User: env.User}, nil
}

func (c *Client) Me(ctx context.Context) (*entity.User, error) {
	var env userEnvelope
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me"}, &env); err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, missingField("user")
	}
	return env.User, nil
}

// UpdateProfile acepta {user: {...}} o el usuario suelto.
func (c *Client) UpdateProfile(ctx context.Context, in dto.UpdateProfileRequest) (*entity.User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, request{method: http.MethodPut, path: "/auth/updateprofile", body: in}, &raw); err != nil {
		return nil, err
	}
	var env userEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.User != nil {
		return env.User, nil
	}
	var bare entity.User
	if err := json.Unmarshal(raw, &bare); err != nil || bare.ID == "" {
		return nil, missingField("user")
	}
	return &bare, nil
}

func (c *Client) UpdatePassword(ctx context.Context, in dto.UpdatePasswordRequest) (*dto.PasswordResponse, error) {
	var out dto.PasswordResponse
	if err := c.do(ctx, request{method: http.MethodPut, path: "/auth/updatepassword", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

func (c *Client) ListProducts(ctx context.Context, f dto.ProductFilter) (*dto.ProductListResponse, error) {
	q := url.Values{}
	setIf(q, "category", f.Category)
	setIf(q, "subcategory", f.Subcategory)
	setIf(q, "sort", f.Sort)
	if f.Featured {
		q.Set("featured", "true")
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	var env productsEnvelope
	if err := c.do(ctx, request{method: http.MethodGet, path: "/products", query: q}, &env); err != nil {
		return nil, err
	}
	items := env.items()
	total := env.Total
	if total == 0 {
		total = len(items)
	}
	return &dto.ProductListResponse{Items: items, Total: total}, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	var env productEnvelope
	if err := c.do(ctx, request{method: http.MethodGet, path: "/products/" + escape(id)}, &env); err != nil {
		return nil, err
	}
	return env.item()
}

func (c *Client) FeaturedProducts(ctx context.Context) ([]entity.Product, error) {
	var env productsEnvelope
	if err := c.do(ctx, request{method: http.MethodGet, path: "/products/featured"}, &env); err != nil {
		return nil, err
	}
	return env.items(), nil
}

func (c *Client) CreateProduct(ctx context.Context, in dto.ProductInput) (*entity.Product, error) {
	var env productEnvelope
	if err := c.do(ctx, request{method: http.MethodPost, path: "/products", body: in}, &env); err != nil {
		return nil, err
	}
	return env.item()
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in dto.ProductInput) (*entity.Product, error) {
	var env productEnvelope
	if err := c.do(ctx, request{method: http.MethodPut, path: "/products/" + escape(id), body: in}, &env); err != nil {
		return nil, err
	}
	return env.item()
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/products/" + escape(id)}, nil)
}

func (c *Client) ListCategories(ctx context.Context) ([]entity.Category, error) {
	var env categoriesEnvelope
	if err := c.do(ctx, request{method: http.MethodGet, path: "/categories"}, &env); err != nil {
		return nil, err
	}
	if env.Categories == nil {
		return []entity.Category{}, nil
	}
	return env.Categories, nil
}

func (c *Client) GetCategory(ctx context.Context, id string) (*entity.Category, error) {
	var env categoryEnvelope
	if err := c.do(ctx, request{method: http.MethodGet, path: "/categories/" + escape(id)}, &env); err != nil {
		return nil, err
	}
	if env.Category == nil {
		return nil, missingField("category")
	}
	return env.Category, nil
}

func (c *Client) CreateCategory(ctx context.Context, in dto.CategoryInput) (*entity.Category, error) {
	var env categoryEnvelope
	if err := c.do(ctx, request{method: http.MethodPost, path: "/categories", body: in}, &env); err != nil {
		return nil, err
	}
	if env.Category == nil {
		return nil, missingField("category")
	}
	return env.Category, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, in dto.CategoryInput) (*entity.Category, error) {
	var env categoryEnvelope
	if err := c.do(ctx, request{method: http.MethodPut, path: "/categories/" + escape(id), body: in}, &env); err != nil {
		return nil, err
	}
	if env.Category == nil {
		return nil, missingField("category")
	}
	return env.Category, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/categories/" + escape(id)}, nil)
}

// ── Pedidos ───────────────────────────────────────────────────────────────────

func (c *Client) ListOrders(ctx context.Context, f dto.OrderFilter) ([]entity.Order, error) {
	q := url.Values{}
	setIf(q, "status", f.Status)
	setIf(q, "paymentStatus", f.PaymentStatus)
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	var env ordersEnvelope
	if err := c.do(ctx, request{method: http.MethodGet, path: "/orders", query: q}, &env); err != nil {
		return nil, err
	}
	if env.Orders == nil {
		return []entity.Order{}, nil
	}
	return env.Orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	return c.orderCall(ctx, request{method: http.MethodGet, path: "/orders/" + escape(id)})
}

// CreateOrder envía Idempotency-Key para que un reintento no duplique el pedido.
func (c *Client) CreateOrder(ctx context.Context, in dto.CreateOrderRequest, idempotencyKey string) (*entity.Order, error) {
	r := request{method: http.MethodPost, path: "/orders", body: in}
	if idempotencyKey != "" {
		r.headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}
	return c.orderCall(ctx, r)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id, status string) (*entity.Order, error) {
	return c.orderCall(ctx, request{
		method: http.MethodPut, path: "/orders/" + escape(id) + "/status",
		body: dto.UpdateOrderStatusRequest{Status: status},
	})
}

func (c *Client) UpdatePaymentStatus(ctx context.Context, id, status string) (*entity.Order, error) {
	return c.orderCall(ctx, request{
		method: http.MethodPut, path: "/orders/" + escape(id) + "/payment",
		body: dto.UpdatePaymentStatusRequest{PaymentStatus: status},
	})
}

func (c *Client) CancelOrder(ctx context.Context, id, reason string) (*entity.Order, error) {
	return c.orderCall(ctx, request{
		method: http.MethodPut, path: "/orders/" + escape(id) + "/cancel",
		body: dto.CancelOrderRequest{Reason: reason},
	})
}

func (c *Client) orderCall(ctx context.Context, r request) (*entity.Order, error) {
	var env orderEnvelope
	if err := c.do(ctx, r, &env); err != nil {
		return nil, err
	}
	if env.Order == nil {
		return nil, missingField("order")
	}
	return env.Order, nil
}

// ── Clientes (admin) ──────────────────────────────────────────────────────────

func (c *Client) ListUsers(ctx context.Context, f dto.UserFilter) ([]entity.User, error) {
	q := url.Values{}
	setIf(q, "role", f.Role)
	setIf(q, "isActive", f.IsActive)
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	var env usersEnvelope
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users", query: q}, &env); err != nil {
		return nil, err
	}
	if env.Users == nil {
		return []entity.User{}, nil
	}
	return env.Users, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*entity.User, error) {
	var env userEnvelope
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/" + escape(id)}, &env); err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, missingField("user")
	}
	return env.User, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, in dto.UpdateUserRequest) (*entity.User, error) {
	var env userEnvelope
	if err := c.do(ctx, request{method: http.MethodPut, path: "/users/" + escape(id), body: in}, &env); err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, missingField("user")
	}
	return env.User, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/users/" + escape(id)}, nil)
}

// ── Contacto ──────────────────────────────────────────────────────────────────

func (c *Client) SubmitContact(ctx context.Context, in dto.ContactRequest) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/contact", body: in}, nil)
}

func (c *Client) ListMessages(ctx context.Context, status string) ([]entity.ContactMessage, error) {
	q := url.Values{}
	setIf(q, "status", status)
	var env messagesEnvelope
	if err := c.do(ctx, request{method: http.MethodGet, path: "/contact", query: q}, &env); err != nil {
		return nil, err
	}
	if env.Messages == nil {
		return []entity.ContactMessage{}, nil
	}
	return env.Messages, nil
}

func (c *Client) GetMessage(ctx context.Context, id string) (*entity.ContactMessage, error) {
	return c.messageCall(ctx, request{method: http.MethodGet, path: "/contact/" + escape(id)})
}

func (c *Client) ReplyMessage(ctx context.Context, id string, in dto.ReplyMessageRequest) (*entity.ContactMessage, error) {
	return c.messageCall(ctx, request{method: http.MethodPut, path: "/contact/" + escape(id) + "/reply", body: in})
}

func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/contact/" + escape(id)}, nil)
}

func (c *Client) messageCall(ctx context.Context, r request) (*entity.ContactMessage, error) {
	var env messageEnvelope
	if err := c.do(ctx, r, &env); err != nil {
		return nil, err
	}
	var m entity.ContactMessage
	if len(env.Message) == 0 || json.Unmarshal(env.Message, &m) != nil || m.ID == "" {
		return nil, missingField("message")
	}
	return &m, nil
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
