package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/application/usecase"
)

// CustomerHandler administración de clientes.
type CustomerHandler struct{}

// NewCustomerHandler construye el handler.
func NewCustomerHandler() *CustomerHandler {
	return &CustomerHandler{}
}

func customers(c *fiber.Ctx) *usecase.CustomerUseCase {
	return usecase.NewCustomerUseCase(GetWorkspace(c).API())
}

// List godoc
// @Summary      Listar clientes
// @Tags         admin
// @Produce      json
// @Param        role      query  string  false  "customer o admin"
// @Param        isActive  query  string  false  "true o false"
// @Param        limit     query  int     false  "Límite"
// @Success      200  {array}  entity.User
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /admin/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	var f dto.UserFilter
	if err := c.QueryParser(&f); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	out, err := customers(c).List(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cliente
// @Tags         admin
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  entity.User
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /admin/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	out, err := customers(c).Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar cliente
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del cliente"
// @Param        body  body  dto.UpdateUserRequest  true  "Campos a cambiar"
// @Success      200   {object}  entity.User
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /admin/customers/{id} [put]
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := customers(c).Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar cliente
// @Tags         admin
// @Param        id   path  string  true  "ID del cliente"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /admin/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	if err := customers(c).Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
