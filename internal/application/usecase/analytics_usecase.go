package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/application/ports"
	"github.com/jhoicas/electro-storefront/internal/domain/entity"
)

// DashboardUseCase resumen del panel de administración.
type DashboardUseCase struct {
	api ports.StoreAPI
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(api ports.StoreAPI) *DashboardUseCase {
	return &DashboardUseCase{api: api}
}

// Summary consulta productos, categorías, pedidos y mensajes en paralelo (llamadas
// independientes) y agrega los contadores.
func (uc *DashboardUseCase) Summary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	type productsResult struct {
		out *dto.ProductListResponse
		err error
	}
	type categoriesResult struct {
		out []entity.Category
		err error
	}
	type ordersResult struct {
		out []entity.Order
		err error
	}
	type messagesResult struct {
		out []entity.ContactMessage
		err error
	}

	productsCh := make(chan productsResult, 1)
	categoriesCh := make(chan categoriesResult, 1)
	ordersCh := make(chan ordersResult, 1)
	messagesCh := make(chan messagesResult, 1)

	go func() {
		out, err := uc.api.ListProducts(ctx, dto.ProductFilter{})
		productsCh <- productsResult{out, err}
	}()
	go func() {
		out, err := uc.api.ListCategories(ctx)
		categoriesCh <- categoriesResult{out, err}
	}()
	go func() {
		out, err := uc.api.ListOrders(ctx, dto.OrderFilter{})
		ordersCh <- ordersResult{out, err}
	}()
	go func() {
		out, err := uc.api.ListMessages(ctx, entity.MessageUnread)
		messagesCh <- messagesResult{out, err}
	}()

	pr, cr, or, mr := <-productsCh, <-categoriesCh, <-ordersCh, <-messagesCh
	for _, err := range []error{pr.err, cr.err, or.err, mr.err} {
		if err != nil {
			return nil, fmt.Errorf("dashboard: %w", err)
		}
	}

	summary := &dto.DashboardSummaryDTO{
		TotalProducts:   pr.out.Total,
		TotalCategories: len(cr.out),
		OrdersByStatus:  make(map[string]int, len(entity.OrderStatuses)),
		TotalOrders:     len(or.out),
		UnreadMessages:  len(mr.out),
		Revenue:         decimal.Zero,
	}
	for _, p := range pr.out.Items {
		if !p.InStock() {
			summary.OutOfStock++
		}
	}
	for _, s := range entity.OrderStatuses {
		summary.OrdersByStatus[s] = 0
	}
	for _, o := range or.out {
		summary.OrdersByStatus[o.OrderStatus]++
		if o.PaymentStatus == entity.PaymentPaid {
			summary.Revenue = summary.Revenue.Add(o.Total)
		}
	}
	return summary, nil
}
