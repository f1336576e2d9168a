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

// Orden aceptado por el catálogo.
var productSorts = map[string]bool{"": true, "name": true, "-name": true, "price": true, "-price": true, "-createdAt": true}

// CatalogUseCase productos y categorías. La búsqueda y el rango de precio se aplican
// sobre la página devuelta por el backend.
type CatalogUseCase struct {
	api ports.CatalogAPI
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(api ports.CatalogAPI) *CatalogUseCase {
	return &CatalogUseCase{api: api}
}

// ListProducts consulta el backend y filtra por texto y precio.
func (uc *CatalogUseCase) ListProducts(ctx context.Context, f dto.ProductFilter) (*dto.ProductListResponse, error) {
	if !productSorts[f.Sort] {
		return nil, fmt.Errorf("%w: orden %q no soportado", domain.ErrInvalidInput, f.Sort)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return nil, fmt.Errorf("%w: precio mínimo mayor que el máximo", domain.ErrInvalidInput)
	}
	out, err := uc.api.ListProducts(ctx, f)
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	if search == "" && f.MinPrice == nil && f.MaxPrice == nil {
		return out, nil
	}
	items := make([]entity.Product, 0, len(out.Items))
	for _, p := range out.Items {
		if matchesProduct(p, search, f) {
			items = append(items, p)
		}
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}, nil
}

func matchesProduct(p entity.Product, search string, f dto.ProductFilter) bool {
	if search != "" &&
		!strings.Contains(strings.ToLower(p.Name), search) &&
		!strings.Contains(strings.ToLower(p.Description), search) {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

// GetProduct detalle de un producto.
func (uc *CatalogUseCase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.api.GetProduct(ctx, id)
}

// Featured productos destacados de la portada.
func (uc *CatalogUseCase) Featured(ctx context.Context) ([]entity.Product, error) {
	return uc.api.FeaturedProducts(ctx)
}

// CreateProduct alta de producto (admin).
func (uc *CatalogUseCase) CreateProduct(ctx context.Context, in dto.ProductInput) (*entity.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	return uc.api.CreateProduct(ctx, in)
}

// UpdateProduct edición de producto (admin).
func (uc *CatalogUseCase) UpdateProduct(ctx context.Context, id string, in dto.ProductInput) (*entity.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	return uc.api.UpdateProduct(ctx, id, in)
}

// DeleteProduct baja de producto (admin).
func (uc *CatalogUseCase) DeleteProduct(ctx context.Context, id string) error {
	return uc.api.DeleteProduct(ctx, id)
}

func validateProduct(in dto.ProductInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: el nombre es requerido", domain.ErrInvalidInput)
	case strings.TrimSpace(in.Category) == "":
		return fmt.Errorf("%w: la categoría es requerida", domain.ErrInvalidInput)
	case !in.Price.IsPositive():
		return fmt.Errorf("%w: el precio debe ser mayor a cero", domain.ErrInvalidInput)
	case in.Stock < 0:
		return fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

// ── Categorías ────────────────────────────────────────────────────────────────

// Categories lista de categorías.
func (uc *CatalogUseCase) Categories(ctx context.Context) ([]entity.Category, error) {
	return uc.api.ListCategories(ctx)
}

// Subcategories subcategorías de la categoría con ese nombre (vacío si no existe).
func (uc *CatalogUseCase) Subcategories(ctx context.Context, category string) ([]string, error) {
	cats, err := uc.api.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range cats {
		if strings.EqualFold(c.Name, category) {
			return c.Subcategories, nil
		}
	}
	return []string{}, nil
}

func (uc *CatalogUseCase) GetCategory(ctx context.Context, id string) (*entity.Category, error) {
	return uc.api.GetCategory(ctx, id)
}

func (uc *CatalogUseCase) CreateCategory(ctx context.Context, in dto.CategoryInput) (*entity.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: el nombre es requerido", domain.ErrInvalidInput)
	}
	return uc.api.CreateCategory(ctx, in)
}

func (uc *CatalogUseCase) UpdateCategory(ctx context.Context, id string, in dto.CategoryInput) (*entity.Category, error) {
	return uc.api.UpdateCategory(ctx, id, in)
}

func (uc *CatalogUseCase) DeleteCategory(ctx context.Context, id string) error {
	return uc.api.DeleteCategory(ctx, id)
}
