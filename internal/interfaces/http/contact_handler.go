package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/application/usecase"
)

// ContactHandler formulario público y bandeja de mensajes del admin.
type ContactHandler struct{}

// NewContactHandler construye el handler.
func NewContactHandler() *ContactHandler {
	return &ContactHandler{}
}

func contact(c *fiber.Ctx) *usecase.ContactUseCase {
	return usecase.NewContactUseCase(GetWorkspace(c).API())
}

// Submit godoc
// @Summary      Enviar mensaje de contacto
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ContactRequest  true  "name, email, subject, message"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/contact [post]
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var in dto.ContactRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if err := contact(c).Submit(c.UserContext(), in); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "mensaje enviado"})
}

// List godoc
// @Summary      Listar mensajes
// @Tags         admin
// @Produce      json
// @Param        status  query  string  false  "unread, read o replied"
// @Success      200  {array}  entity.ContactMessage
// @Router       /admin/messages [get]
func (h *ContactHandler) List(c *fiber.Ctx) error {
	out, err := contact(c).List(c.UserContext(), c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Ver mensaje
// @Description  Un mensaje sin leer pasa a leído.
// @Tags         admin
// @Produce      json
// @Param        id   path  string  true  "ID del mensaje"
// @Success      200  {object}  entity.ContactMessage
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /admin/messages/{id} [get]
func (h *ContactHandler) Get(c *fiber.Ctx) error {
	out, err := contact(c).Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reply godoc
// @Summary      Responder mensaje
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del mensaje"
// @Param        body  body  dto.ReplyMessageRequest  true  "reply, status"
// @Success      200   {object}  entity.ContactMessage
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /admin/messages/{id}/reply [post]
func (h *ContactHandler) Reply(c *fiber.Ctx) error {
	var in dto.ReplyMessageRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := contact(c).Reply(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	if err := contact(c).Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
