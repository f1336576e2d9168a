package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/electro-storefront/internal/application/checkout"
	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/domain"
)

// CheckoutHandler cotización y confirmación del pedido.
type CheckoutHandler struct {
	svc *checkout.Service
}

// NewCheckoutHandler construye el handler.
func NewCheckoutHandler(svc *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// Quote godoc
// @Summary      Vista de checkout
// @Description  Carrito, cotización (envío e IVA) y formulario precargado. Con el carrito vacío redirige a /products.
// @Tags         checkout
// @Produce      json
// @Success      200  {object}  dto.CheckoutView
// @Success      303
// @Router       /checkout [get]
func (h *CheckoutHandler) Quote(c *fiber.Ctx) error {
	ws := GetWorkspace(c)
	cart := ws.Cart()
	if cart.IsEmpty() {
		return respondError(c, domain.ErrEmptyCart)
	}
	return c.JSON(dto.CheckoutView{
		Cart:     cart,
		Quote:    h.svc.Quote(cart),
		Shipping: checkout.Prefill(dto.PlaceOrderRequest{}, ws.Session().User),
	})
}

// Place godoc
// @Summary      Confirmar pedido
// @Description  Crea el pedido con el carrito actual y lo vacía si el backend lo acepta.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlaceOrderRequest  true  "Datos de envío y pago"
// @Success      201   {object}  dto.PlaceOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /checkout [post]
func (h *CheckoutHandler) Place(c *fiber.Ctx) error {
	var in dto.PlaceOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.svc.PlaceOrder(c.UserContext(), GetWorkspace(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF del pedido
// @Tags         orders
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /profile/orders/{id}/receipt.pdf [get]
func (h *CheckoutHandler) Receipt(c *fiber.Ctx) error {
	pdf, filename, err := h.svc.Receipt(c.UserContext(), GetWorkspace(c).API(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(filename)
	return c.Send(pdf)
}
