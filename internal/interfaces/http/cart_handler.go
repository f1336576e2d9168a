package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/application/storefront"
	"github.com/jhoicas/electro-storefront/internal/domain/entity"
)

// CartHandler carrito del dispositivo (invitado o usuario).
type CartHandler struct{}

// NewCartHandler construye el handler.
func NewCartHandler() *CartHandler {
	return &CartHandler{}
}

func cartResponse(ws *storefront.Workspace, outcome *entity.Outcome) dto.CartResponse {
	out := dto.CartResponse{Identity: ws.CartIdentity().String(), Cart: ws.Cart()}
	if outcome != nil {
		out.Outcome = outcome.String()
	}
	return out
}

func productParam(c *fiber.Ctx) (string, bool) {
	id := strings.TrimSpace(c.Params("productId"))
	return id, id != ""
}

// Get godoc
// @Summary      Ver carrito
// @Tags         cart
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	return c.JSON(cartResponse(GetWorkspace(c), nil))
}

// Add godoc
// @Summary      Agregar producto al carrito
// @Description  Toma la foto actual del producto; si ya está, suma la cantidad.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddToCartRequest  true  "productId, quantity"
// @Success      200   {object}  dto.CartResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cart/items [post]
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in dto.AddToCartRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if strings.TrimSpace(in.ProductID) == "" {
		return badRequest(c, "VALIDATION", "productId es requerido")
	}
	ws := GetWorkspace(c)
	outcome, err := ws.AddItem(c.UserContext(), in.ProductID, in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cartResponse(ws, &outcome))
}

// SetQuantity godoc
// @Summary      Fijar cantidad
// @Description  La cantidad se acota entre 1 y el stock capturado al agregar.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        productId  path  string                  true  "ID del producto"
// @Param        body       body  dto.SetQuantityRequest  true  "quantity"
// @Success      200        {object}  dto.CartResponse
// @Router       /api/cart/items/{productId} [put]
func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	id, ok := productParam(c)
	if !ok {
		return badRequest(c, "MISSING_ID", "productId es requerido")
	}
	var in dto.SetQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	ws := GetWorkspace(c)
	outcome := ws.SetQuantity(c.UserContext(), id, in.Quantity)
	return c.JSON(cartResponse(ws, &outcome))
}

// Increment godoc
// @Summary      Sumar una unidad
// @Tags         cart
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200        {object}  dto.CartResponse
// @Router       /api/cart/items/{productId}/increment [post]
func (h *CartHandler) Increment(c *fiber.Ctx) error {
	id, ok := productParam(c)
	if !ok {
		return badRequest(c, "MISSING_ID", "productId es requerido")
	}
	ws := GetWorkspace(c)
	outcome := ws.IncrementQuantity(c.UserContext(), id)
	return c.JSON(cartResponse(ws, &outcome))
}

// Decrement godoc
// @Summary      Restar una unidad
// @Tags         cart
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200        {object}  dto.CartResponse
// @Router       /api/cart/items/{productId}/decrement [post]
func (h *CartHandler) Decrement(c *fiber.Ctx) error {
	id, ok := productParam(c)
	if !ok {
		return badRequest(c, "MISSING_ID", "productId es requerido")
	}
	ws := GetWorkspace(c)
	outcome := ws.DecrementQuantity(c.UserContext(), id)
	return c.JSON(cartResponse(ws, &outcome))
}

// Remove godoc
// @Summary      Quitar producto del carrito
// @Tags         cart
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200        {object}  dto.CartResponse
// @Router       /api/cart/items/{productId} [delete]
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, ok := productParam(c)
	if !ok {
		return badRequest(c, "MISSING_ID", "productId es requerido")
	}
	ws := GetWorkspace(c)
	outcome := ws.RemoveItem(c.UserContext(), id)
	return c.JSON(cartResponse(ws, &outcome))
}

// Clear godoc
// @Summary      Vaciar carrito
// @Tags         cart
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	ws := GetWorkspace(c)
	outcome := ws.ClearCart(c.UserContext())
	return c.JSON(cartResponse(ws, &outcome))
}
