package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/electro-storefront/internal/domain/entity"
)

// ProductFilter filtros del catálogo. Sort y los filtros de categoría van al backend;
// el rango de precio y la búsqueda se aplican del lado cliente.
type ProductFilter struct {
	Category    string           `query:"category"`
	Subcategory string           `query:"subcategory"`
	Sort        string           `query:"sort"`
	Search      string           `query:"search"`
	Featured    bool             `query:"featured"`
	MinPrice    *decimal.Decimal `query:"-"`
	MaxPrice    *decimal.Decimal `query:"-"`
	Limit       int              `query:"limit"`
}

// ProductInput alta/edición de un producto (admin).
type ProductInput struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Price       decimal.Decimal       `json:"price"`
	Stock       int                   `json:"stock"`
	Category    string                `json:"category"`
	Subcategory string                `json:"subcategory,omitempty"`
	Brand       string                `json:"brand,omitempty"`
	Images      []entity.ProductImage `json:"images,omitempty"`
	Featured    bool                  `json:"featured"`
}

// ProductListResponse lista de productos con total informado por el backend.
type ProductListResponse struct {
	Items []entity.Product `json:"items"`
	Total int              `json:"total"`
}

// CategoryInput alta/edición de una categoría (admin).
type CategoryInput struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Subcategories []string `json:"subcategories,omitempty"`
	Image         string   `json:"image,omitempty"`
	IsActive      *bool    `json:"isActive,omitempty"`
}
