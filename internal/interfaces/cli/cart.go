package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jhoicas/electro-storefront/internal/application/storefront"
	"github.com/jhoicas/electro-storefront/internal/domain/entity"
)

func newCartCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Carrito del dispositivo (invitado o de la sesión)",
	}

	var qty int
	add := &cobra.Command{
		Use:   "add <productId>",
		Short: "Agrega un producto",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withWorkspace(cmd, func(ctx context.Context, ws *storefront.Workspace) error {
				out, err := ws.AddItem(ctx, args[0], qty)
				if err != nil {
					return err
				}
				return opts.out.Success(newCartView(ws, out, true))
			})
		},
	}
	add.Flags().IntVar(&qty, "qty", 1, "cantidad")

	set := &cobra.Command{
		Use:   "set <productId> <cantidad>",
		Short: "Fija la cantidad (entre 1 y el stock)",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return WrapExitError(ExitCommandError, "cantidad inválida", err)
			}
			return opts.withWorkspace(cmd, func(ctx context.Context, ws *storefront.Workspace) error {
				return opts.out.Success(newCartView(ws, ws.SetQuantity(ctx, args[0], n), true))
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Muestra el carrito",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withWorkspace(cmd, func(ctx context.Context, ws *storefront.Workspace) error {
				return opts.out.Success(newCartView(ws, entity.NoOp, false))
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Vacía el carrito",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withWorkspace(cmd, func(ctx context.Context, ws *storefront.Workspace) error {
				return opts.out.Success(newCartView(ws, ws.ClearCart(ctx), true))
			})
		},
	}

	cmd.AddCommand(
		list,
		add,
		lineCommand(opts, "remove <productId>", "Quita la línea", (*storefront.Workspace).RemoveItem),
		set,
		lineCommand(opts, "inc <productId>", "Suma 1 sin pasar el stock", (*storefront.Workspace).IncrementQuantity),
		lineCommand(opts, "dec <productId>", "Resta 1 sin bajar de 1", (*storefront.Workspace).DecrementQuantity),
		clearCmd,
	)
	return cmd
}

// lineCommand subcomando que muta una línea por id de producto.
func lineCommand(opts *RootOptions, use, short string, op func(*storefront.Workspace, context.Context, string) entity.Outcome) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withWorkspace(cmd, func(ctx context.Context, ws *storefront.Workspace) error {
				return opts.out.Success(newCartView(ws, op(ws, ctx, args[0]), true))
			})
		},
	}
}
