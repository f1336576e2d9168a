package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/application/usecase"
)

// OrderHandler pedidos del cliente (perfil) y gestión del admin.
type OrderHandler struct{}

// NewOrderHandler construye el handler.
func NewOrderHandler() *OrderHandler {
	return &OrderHandler{}
}

func orders(c *fiber.Ctx) *usecase.OrderUseCase {
	return usecase.NewOrderUseCase(GetWorkspace(c).API())
}

// MyOrders godoc
// @Summary      Mis pedidos
// @Tags         profile
// @Produce      json
// @Success      200  {array}  entity.Order
// @Router       /profile/orders [get]
func (h *OrderHandler) MyOrders(c *fiber.Ctx) error {
	out, err := orders(c).MyOrders(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalle de un pedido
// @Tags         orders
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  entity.Order
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /profile/orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	out, err := orders(c).Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar pedido
// @Description  Solo pedidos pendientes o confirmados.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true   "ID del pedido"
// @Param        body  body  dto.CancelOrderRequest  false  "Motivo"
// @Success      200   {object}  entity.Order
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /profile/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "INVALID_BODY", "cuerpo inválido")
		}
	}
	out, err := orders(c).Cancel(c.UserContext(), c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar pedidos
// @Tags         admin
// @Produce      json
// @Param        status         query  string  false  "Estado del pedido"
// @Param        paymentStatus  query  string  false  "Estado del pago"
// @Param        limit          query  int     false  "Límite"
// @Success      200  {array}  entity.Order
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /admin/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var f dto.OrderFilter
	if err := c.QueryParser(&f); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	out, err := orders(c).List(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado del pedido
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderStatusRequest  true  "status"
// @Success      200   {object}  entity.Order
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := orders(c).UpdateStatus(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdatePayment godoc
// @Summary      Cambiar estado del pago
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID del pedido"
// @Param        body  body  dto.UpdatePaymentStatusRequest  true  "paymentStatus"
// @Success      200   {object}  entity.Order
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /admin/orders/{id}/payment [put]
func (h *OrderHandler) UpdatePayment(c *fiber.Ctx) error {
	var in dto.UpdatePaymentStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := orders(c).UpdatePayment(c.UserContext(), c.Params("id"), in.PaymentStatus)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
