package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /admin/dashboard.
type DashboardSummaryDTO struct {
	TotalProducts   int            `json:"totalProducts"`
	TotalCategories int            `json:"totalCategories"`
	OutOfStock      int            `json:"outOfStock"`
	OrdersByStatus  map[string]int `json:"ordersByStatus"`
	TotalOrders     int            `json:"totalOrders"`
	UnreadMessages  int            `json:"unreadMessages"`

	// Ingresos de pedidos pagados
	Revenue decimal.Decimal `json:"revenue"`
}
