package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/electro-storefront/internal/domain/entity"
)

// CheckoutQuote totales del checkout para el carrito actual.
type CheckoutQuote struct {
	ItemCount   int             `json:"itemCount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shippingFee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

// PlaceOrderRequest datos de envío y pago capturados en el checkout.
type PlaceOrderRequest struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zipCode,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// CreateOrderRequest cuerpo de POST /orders.
type CreateOrderRequest struct {
	Items           []entity.OrderItem     `json:"items"`
	ShippingAddress entity.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	ShippingFee     decimal.Decimal        `json:"shippingFee"`
	Tax             decimal.Decimal        `json:"tax"`
	Total           decimal.Decimal        `json:"total"`
	Notes           string                 `json:"notes,omitempty"`
}

// PlaceOrderResponse resultado del checkout.
type PlaceOrderResponse struct {
	OrderID     string          `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	Total       decimal.Decimal `json:"total"`
}

// OrderFilter filtros del listado de pedidos.
type OrderFilter struct {
	Status        string `query:"status"`
	PaymentStatus string `query:"paymentStatus"`
	Limit         int    `query:"limit"`
}

// UpdateOrderStatusRequest entrada de PUT /orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// UpdatePaymentStatusRequest entrada de PUT /orders/:id/payment.
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

// CancelOrderRequest entrada de PUT /orders/:id/cancel.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CheckoutView datos de la vista de checkout: carrito, cotización y formulario
// de envío precargado con el perfil.
type CheckoutView struct {
	Cart     entity.Cart       `json:"cart"`
	Quote    CheckoutQuote     `json:"quote"`
	Shipping PlaceOrderRequest `json:"shipping"`
}
