package dto

import "github.com/jhoicas/electro-storefront/internal/domain/entity"

// RegisterRequest entrada para POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest entrada para POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest campos editables del perfil (PUT /auth/updateprofile).
type UpdateProfileRequest struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// UpdatePasswordRequest entrada para PUT /auth/updatepassword.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthResponse respuesta del backend a register/login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// PasswordResponse respuesta a updatepassword; Token puede venir vacío.
type PasswordResponse struct {
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

// SessionResponse vista de la sesión del dispositivo.
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *entity.User `json:"user,omitempty"`
	Status        string       `json:"status"`
	Error         string       `json:"error,omitempty"`
}

// UserFilter filtros del listado de clientes (admin).
type UserFilter struct {
	Role     string `query:"role"`
	IsActive string `query:"isActive"` // "", "true", "false"
	Limit    int    `query:"limit"`
}

// UpdateUserRequest edición de un cliente por el admin.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// NewSessionResponse vista pública de la sesión (sin token).
func NewSessionResponse(s entity.Session) SessionResponse {
	return SessionResponse{
		Authenticated: s.IsAuthenticated(),
		User:          s.User,
		Status:        string(s.Status),
		Error:         s.Error,
	}
}
