package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/application/ports"
	"github.com/jhoicas/electro-storefront/internal/domain"
	"github.com/jhoicas/electro-storefront/internal/domain/entity"
)

// CustomerUseCase administración de clientes (admin).
type CustomerUseCase struct {
	api ports.UserAPI
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(api ports.UserAPI) *CustomerUseCase {
	return &CustomerUseCase{api: api}
}

// List clientes filtrados por rol y estado.
func (uc *CustomerUseCase) List(ctx context.Context, f dto.UserFilter) ([]entity.User, error) {
	if f.Role != "" && !entity.Role(f.Role).Valid() {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, f.Role)
	}
	switch f.IsActive {
	case "", "true", "false":
	default:
		return nil, fmt.Errorf("%w: isActive debe ser true o false", domain.ErrInvalidInput)
	}
	return uc.api.ListUsers(ctx, f)
}

func (uc *CustomerUseCase) Get(ctx context.Context, id string) (*entity.User, error) {
	return uc.api.GetUser(ctx, id)
}

// Update edita datos, rol o estado de un cliente.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*entity.User, error) {
	if in.Role != nil && !entity.Role(*in.Role).Valid() {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, *in.Role)
	}
	return uc.api.UpdateUser(ctx, id, in)
}

func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	return uc.api.DeleteUser(ctx, id)
}
