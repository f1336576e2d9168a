package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/application/ports"
	"github.com/jhoicas/electro-storefront/internal/domain"
	"github.com/jhoicas/electro-storefront/internal/domain/entity"
)

// OrderUseCase pedidos del cliente y gestión de pedidos del admin.
type OrderUseCase struct {
	api ports.OrderAPI
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(api ports.OrderAPI) *OrderUseCase {
	return &OrderUseCase{api: api}
}

// MyOrders pedidos del usuario autenticado (el backend filtra por token).
func (uc *OrderUseCase) MyOrders(ctx context.Context) ([]entity.Order, error) {
	return uc.api.ListOrders(ctx, dto.OrderFilter{})
}

// List pedidos con filtros de estado (admin).
func (uc *OrderUseCase) List(ctx context.Context, f dto.OrderFilter) ([]entity.Order, error) {
	if f.Status != "" && !oneOf(entity.OrderStatuses, f.Status) {
		return nil, fmt.Errorf("%w: estado de pedido %q", domain.ErrInvalidInput, f.Status)
	}
	if f.PaymentStatus != "" && !oneOf(entity.PaymentStatuses, f.PaymentStatus) {
		return nil, fmt.Errorf("%w: estado de pago %q", domain.ErrInvalidInput, f.PaymentStatus)
	}
	return uc.api.ListOrders(ctx, f)
}

func (uc *OrderUseCase) Get(ctx context.Context, id string) (*entity.Order, error) {
	return uc.api.GetOrder(ctx, id)
}

// UpdateStatus cambia el estado del pedido (admin).
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id, status string) (*entity.Order, error) {
	if !oneOf(entity.OrderStatuses, status) {
		return nil, fmt.Errorf("%w: estado de pedido %q", domain.ErrInvalidInput, status)
	}
	return uc.api.UpdateOrderStatus(ctx, id, status)
}

// UpdatePayment cambia el estado del pago (admin).
func (uc *OrderUseCase) UpdatePayment(ctx context.Context, id, status string) (*entity.Order, error) {
	if !oneOf(entity.PaymentStatuses, status) {
		return nil, fmt.Errorf("%w: estado de pago %q", domain.ErrInvalidInput, status)
	}
	return uc.api.UpdatePaymentStatus(ctx, id, status)
}

// Cancel cancela el pedido; el backend decide si el estado lo permite.
func (uc *OrderUseCase) Cancel(ctx context.Context, id, reason string) (*entity.Order, error) {
	return uc.api.CancelOrder(ctx, id, strings.TrimSpace(reason))
}

func oneOf(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
