package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
)

// MinPasswordLength largo mínimo de contraseña en registro y cambio de contraseña.
const MinPasswordLength = 6

// AuthHandler maneja login, registro, logout y perfil del dispositivo.
type AuthHandler struct{}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Register godoc
// @Summary      Registrar cliente e iniciar sesión
// @Description  Crea la cuenta en el backend, guarda la sesión del dispositivo y pasa el carrito invitado al usuario.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "name, email, password"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	in.Email = strings.TrimSpace(in.Email)
	if strings.TrimSpace(in.Name) == "" || in.Email == "" || in.Password == "" {
		return badRequest(c, "VALIDATION", "name, email y password son requeridos")
	}
	if len(in.Password) < MinPasswordLength {
		return badRequest(c, "VALIDATION", "password debe tener al menos 6 caracteres")
	}
	// el rol lo decide el backend; un cliente no puede registrarse como admin
	in.Role = ""
	s, err := GetWorkspace(c).Register(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSessionResponse(s))
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.SessionResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		return badRequest(c, "VALIDATION", "email y password son requeridos")
	}
	s, err := GetWorkspace(c).Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewSessionResponse(s))
}

// Logout godoc
// @Summary      Cerrar sesión
// @Description  Borra la sesión del dispositivo; el carrito vuelve al slot invitado.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	ws := GetWorkspace(c)
	ws.Logout(c.UserContext())
	return c.JSON(dto.NewSessionResponse(ws.Session()))
}

// Session godoc
// @Summary      Sesión actual del dispositivo
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	return c.JSON(dto.NewSessionResponse(GetWorkspace(c).Session()))
}

// Unauthorized vista de acceso denegado.
func (h *AuthHandler) Unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no tiene permisos para esta vista"})
}

// ── Perfil ────────────────────────────────────────────────────────────────────

// Profile godoc
// @Summary      Perfil del usuario
// @Tags         profile
// @Produce      json
// @Success      200  {object}  entity.User
// @Router       /profile [get]
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	return c.JSON(GetWorkspace(c).Session().User)
}

// UpdateProfile godoc
// @Summary      Actualizar perfil
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateProfileRequest  true  "Datos a actualizar"
// @Success      200   {object}  entity.User
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /profile [put]
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	s, err := GetWorkspace(c).UpdateProfile(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(s.User)
}

// UpdatePassword godoc
// @Summary      Cambiar contraseña
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdatePasswordRequest  true  "currentPassword, newPassword"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /profile/password [put]
func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	var in dto.UpdatePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.CurrentPassword == "" || in.NewPassword == "" {
		return badRequest(c, "VALIDATION", "currentPassword y newPassword son requeridos")
	}
	if len(in.NewPassword) < MinPasswordLength {
		return badRequest(c, "VALIDATION", "newPassword debe tener al menos 6 caracteres")
	}
	if _, err := GetWorkspace(c).UpdatePassword(c.UserContext(), in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "contraseña actualizada"})
}
