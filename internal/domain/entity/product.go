package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ProductImage imagen alojada de un producto.
type ProductImage struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id,omitempty"`
}

// Product representa un artículo del catálogo.
// Stock es el inventario disponible al momento de la consulta.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category,omitempty"`
	Subcategory string          `json:"subcategory,omitempty"`
	Brand       string          `json:"brand,omitempty"`
	Images      []ProductImage  `json:"images,omitempty"`
	Featured    bool            `json:"featured,omitempty"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
}

// ImageURL devuelve la primera imagen o vacío.
func (p Product) ImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// InStock indica si queda inventario.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// UnmarshalJSON acepta tanto "id" como "_id".
func (p *Product) UnmarshalJSON(b []byte) error {
	type alias Product
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = aux.MongoID
	}
	return nil
}
