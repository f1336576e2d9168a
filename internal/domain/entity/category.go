package entity

import (
	"encoding/json"
	"time"
)

// Category representa una categoría del catálogo con sus subcategorías.
type Category struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Subcategories []string  `json:"subcategories,omitempty"`
	Image         string    `json:"image,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

// UnmarshalJSON acepta tanto "id" como "_id".
func (c *Category) UnmarshalJSON(b []byte) error {
	type alias Category
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = aux.MongoID
	}
	return nil
}
