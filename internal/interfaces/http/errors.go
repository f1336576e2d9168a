package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/electro-storefront/internal/application/checkout"
	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/application/guard"
	"github.com/jhoicas/electro-storefront/internal/domain"
)

// ProductsPath vista del catálogo; destino del checkout con carrito vacío.
const ProductsPath = "/products"

// isAPI las rutas bajo /api responden siempre JSON; el resto son vistas.
func isAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}

// redirect 303 a target en vistas; en /api responde status con el destino en el cuerpo.
func redirect(c *fiber.Ctx, target string, status int, code, message string) error {
	if isAPI(c) {
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message, Redirect: target})
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}

// respondError traduce errores de dominio y del backend a la respuesta HTTP.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		if c.Path() == guard.LoginPath {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_EXPIRED", Message: domain.ErrSessionExpired.Error()})
		}
		return redirect(c, guard.LoginPath, fiber.StatusUnauthorized, "SESSION_EXPIRED", domain.ErrSessionExpired.Error())
	case errors.Is(err, domain.ErrNotAuthenticated):
		return redirect(c, guard.LoginPath, fiber.StatusUnauthorized, "NOT_AUTHENTICATED", err.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		return redirect(c, ProductsPath, fiber.StatusConflict, "EMPTY_CART", err.Error())
	}

	var vErr *checkout.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: vErr.Message})
	}
	if apiErr, ok := dto.AsAPIError(err); ok {
		if apiErr.IsNetwork() {
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: apiErr.Code, Message: apiErr.Message})
		}
		return c.Status(apiErr.Status).JSON(dto.ErrorResponse{Code: apiErr.Code, Message: apiErr.Message})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return badRequest(c, "VALIDATION", err.Error())
	case errors.Is(err, domain.ErrOutOfStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "OUT_OF_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
