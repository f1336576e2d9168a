package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/application/storefront"
)

type registerOptions struct {
	*RootOptions
	Name     string
	Email    string
	Password string
	Phone    string
}

func newRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &registerOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Crea una cuenta de cliente e inicia sesión",
		Long: `Crea una cuenta de cliente en el backend e inicia sesión en este dispositivo.
El carrito de invitado se transfiere a la cuenta nueva.

Ejemplo:
  shopctl register --name "Ada" --email ada@example.com --password secreto`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withWorkspace(cmd, func(ctx context.Context, ws *storefront.Workspace) error {
				s, err := ws.Register(ctx, dto.RegisterRequest{
					Name:     strings.TrimSpace(opts.Name),
					Email:    strings.TrimSpace(opts.Email),
					Password: opts.Password,
					Phone:    strings.TrimSpace(opts.Phone),
				})
				if err != nil {
					return err
				}
				return opts.out.Success(sessionView{dto.NewSessionResponse(s)})
			})
		},
	}
	cmd.Flags().StringVar(&opts.Name, "name", "", "nombre completo")
	cmd.Flags().StringVar(&opts.Email, "email", "", "correo")
	cmd.Flags().StringVar(&opts.Password, "password", "", "contraseña")
	cmd.Flags().StringVar(&opts.Phone, "phone", "", "teléfono")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

type loginOptions struct {
	*RootOptions
	Email    string
	Password string
}

func newLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &loginOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Inicia sesión en este dispositivo",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withWorkspace(cmd, func(ctx context.Context, ws *storefront.Workspace) error {
				s, err := ws.Login(ctx, dto.LoginRequest{Email: strings.TrimSpace(opts.Email), Password: opts.Password})
				if err != nil {
					return err
				}
				return opts.out.Success(sessionView{dto.NewSessionResponse(s)})
			})
		},
	}
	cmd.Flags().StringVar(&opts.Email, "email", "", "correo")
	cmd.Flags().StringVar(&opts.Password, "password", "", "contraseña")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cierra la sesión; el carrito vuelve al de invitado",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withWorkspace(cmd, func(ctx context.Context, ws *storefront.Workspace) error {
				ws.Logout(ctx)
				return opts.out.Success(messageView{Message: "sesión cerrada"})
			})
		},
	}
}

func newWhoamiCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Muestra el usuario de la sesión",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withWorkspace(cmd, func(ctx context.Context, ws *storefront.Workspace) error {
				if err := requireLogin(ws); err != nil {
					return err
				}
				return opts.out.Success(sessionView{dto.NewSessionResponse(ws.Session())})
			})
		},
	}
}
