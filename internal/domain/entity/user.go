package entity

import (
	"encoding/json"
	"time"
)

// Role rol de un usuario de la tienda.
type Role string

// Roles válidos para User.
const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Valid indica si el rol es uno de los conocidos.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// User representa el usuario autenticado tal como lo devuelve el backend.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// UnmarshalJSON acepta tanto "id" como "_id" (el backend es MongoDB).
func (u *User) UnmarshalJSON(b []byte) error {
	type alias User
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(u)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = aux.MongoID
	}
	return nil
}
