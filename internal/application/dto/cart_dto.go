package dto

import "github.com/jhoicas/electro-storefront/internal/domain/entity"

// AddToCartRequest entrada de POST /api/cart/items.
type AddToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// SetQuantityRequest entrada de PUT /api/cart/items/:productId.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse carrito de la identidad actual más el resultado de la última mutación.
type CartResponse struct {
	Identity string      `json:"identity"`
	Outcome  string      `json:"outcome,omitempty"`
	Cart     entity.Cart `json:"cart"`
}
