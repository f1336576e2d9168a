package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/electro-storefront/internal/application/checkout"
	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/application/storefront"
	"github.com/jhoicas/electro-storefront/internal/application/usecase"
	"github.com/jhoicas/electro-storefront/internal/domain"
)

func newCheckoutCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Cotiza y confirma el pedido del carrito",
	}

	quote := &cobra.Command{
		Use:   "quote",
		Short: "Subtotal, envío, IVA y total del carrito",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withWorkspace(cmd, func(ctx context.Context, ws *storefront.Workspace) error {
				if err := requireLogin(ws); err != nil {
					return err
				}
				c := ws.Cart()
				if c.IsEmpty() {
					return domain.ErrEmptyCart
				}
				return opts.out.Success(checkoutView{dto.CheckoutView{
					Cart:     c,
					Quote:    opts.env.Checkout.Quote(c),
					Shipping: checkout.Prefill(dto.PlaceOrderRequest{}, ws.Session().User),
				}})
			})
		},
	}

	var in dto.PlaceOrderRequest
	place := &cobra.Command{
		Use:   "place",
		Short: "Crea el pedido y vacía el carrito",
		Long: `Crea el pedido con el carrito actual. Nombre, correo, teléfono y dirección
se toman del perfil si no se indican.

Ejemplo:
  shopctl checkout place --address "Calle 1" --city Lagos --state Lagos --phone 0800`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withWorkspace(cmd, func(ctx context.Context, ws *storefront.Workspace) error {
				if err := requireLogin(ws); err != nil {
					return err
				}
				res, err := opts.env.Checkout.PlaceOrder(ctx, ws, in)
				if err != nil {
					return err
				}
				return opts.out.Success(placedView{*res})
			})
		},
	}
	place.Flags().StringVar(&in.FullName, "name", "", "destinatario")
	place.Flags().StringVar(&in.Email, "email", "", "correo")
	place.Flags().StringVar(&in.Phone, "phone", "", "teléfono")
	place.Flags().StringVar(&in.Address, "address", "", "dirección")
	place.Flags().StringVar(&in.City, "city", "", "ciudad")
	place.Flags().StringVar(&in.State, "state", "", "estado")
	place.Flags().StringVar(&in.ZipCode, "zip", "", "código postal")
	place.Flags().StringVar(&in.PaymentMethod, "payment", checkout.DefaultPaymentMethod, "método de pago")
	place.Flags().StringVar(&in.Notes, "notes", "", "notas para la entrega")

	cmd.AddCommand(quote, place)
	return cmd
}

func newOrdersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Pedidos del usuario de la sesión",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Lista mis pedidos",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withWorkspace(cmd, func(ctx context.Context, ws *storefront.Workspace) error {
				if err := requireLogin(ws); err != nil {
					return err
				}
				orders, err := usecase.NewOrderUseCase(ws.API()).MyOrders(ctx)
				if err != nil {
					return err
				}
				return opts.out.Success(orderListView(orders))
			})
		},
	}

	var output string
	receipt := &cobra.Command{
		Use:   "receipt <orderId>",
		Short: "Descarga el comprobante PDF del pedido",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withWorkspace(cmd, func(ctx context.Context, ws *storefront.Workspace) error {
				if err := requireLogin(ws); err != nil {
					return err
				}
				pdf, name, err := opts.env.Checkout.Receipt(ctx, ws.API(), args[0])
				if err != nil {
					return err
				}
				if output != "" {
					name = output
				}
				if err := os.WriteFile(name, pdf, 0o644); err != nil {
					return WrapExitError(ExitFailure, "guardar comprobante", err)
				}
				return opts.out.Success(messageView{Message: "comprobante guardado en " + name})
			})
		},
	}
	receipt.Flags().StringVarP(&output, "output", "o", "", "archivo destino (por defecto pedido_<número>.pdf)")

	cmd.AddCommand(list, receipt)
	return cmd
}
