package cli

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/application/storefront"
	"github.com/jhoicas/electro-storefront/internal/application/usecase"
)

type productsOptions struct {
	*RootOptions
	Category string
	Search   string
	Sort     string
	MinPrice string
	MaxPrice string
	Limit    int
}

func newProductsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &productsOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Consulta el catálogo",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Lista productos con filtros",
		Long: `Lista productos del catálogo.

Orden: name, -name, price, -price, -createdAt.

Ejemplo:
  shopctl products list --category Cocina --max-price 50000 --sort price`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := dto.ProductFilter{Category: opts.Category, Search: opts.Search, Sort: opts.Sort, Limit: opts.Limit}
			var err error
			if f.MinPrice, err = parsePrice("--min-price", opts.MinPrice); err != nil {
				return err
			}
			if f.MaxPrice, err = parsePrice("--max-price", opts.MaxPrice); err != nil {
				return err
			}
			return opts.withWorkspace(cmd, func(ctx context.Context, ws *storefront.Workspace) error {
				res, err := usecase.NewCatalogUseCase(ws.API()).ListProducts(ctx, f)
				if err != nil {
					return err
				}
				return opts.out.Success(productListView{*res})
			})
		},
	}
	list.Flags().StringVar(&opts.Category, "category", "", "categoría")
	list.Flags().StringVar(&opts.Search, "search", "", "texto en nombre o descripción")
	list.Flags().StringVar(&opts.Sort, "sort", "", "orden")
	list.Flags().StringVar(&opts.MinPrice, "min-price", "", "precio mínimo")
	list.Flags().StringVar(&opts.MaxPrice, "max-price", "", "precio máximo")
	list.Flags().IntVar(&opts.Limit, "limit", 0, "máximo de resultados")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Detalle de un producto",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withWorkspace(cmd, func(ctx context.Context, ws *storefront.Workspace) error {
				p, err := usecase.NewCatalogUseCase(ws.API()).GetProduct(ctx, args[0])
				if err != nil {
					return err
				}
				return opts.out.Success(productView{*p})
			})
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func parsePrice(flag, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, flag+" inválido", err)
	}
	return &d, nil
}
