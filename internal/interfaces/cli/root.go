// Package cli implementa shopctl: la tienda desde la terminal, con la sesión y el
// carrito persistidos en una base SQLite local.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/electro-storefront/internal/application/checkout"
	"github.com/jhoicas/electro-storefront/internal/application/ports"
	"github.com/jhoicas/electro-storefront/internal/application/storefront"
	"github.com/jhoicas/electro-storefront/internal/domain"
	"github.com/jhoicas/electro-storefront/internal/infrastructure/restapi"
	"github.com/jhoicas/electro-storefront/internal/infrastructure/sqlite"
	"github.com/jhoicas/electro-storefront/pkg/config"
	"github.com/jhoicas/electro-storefront/pkg/logger"
)

// DefaultDevice dispositivo usado por el CLI si no se indica --device.
const DefaultDevice = "cli"

// ValidFormats formatos de salida permitidos.
var ValidFormats = []string{"text", "json", "yaml"}

// Env dependencias compartidas por los comandos; cmd/shopctl las arma desde la config.
type Env struct {
	Config   *config.Config
	Log      *logger.Logger
	Checkout *checkout.Service
}

// RootOptions flags globales.
type RootOptions struct {
	Verbose bool
	Format  string
	DB      string
	Device  string

	env *Env
	out *OutputFormatter
	log *logger.Logger
}

// NewRootCommand crea el comando raíz shopctl.
func NewRootCommand(env *Env) *cobra.Command {
	cmd, _ := newRoot(env)
	return cmd
}

func newRoot(env *Env) (*cobra.Command, *RootOptions) {
	opts := &RootOptions{env: env}

	cmd := &cobra.Command{
		Use:           "shopctl",
		Short:         "Tienda de electrodomésticos desde la terminal",
		Long:          "Catálogo, carrito, checkout y pedidos contra el backend de la tienda.\nLa sesión y el carrito se guardan en una base SQLite local.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("formato %q inválido: debe ser uno de %v", opts.Format, ValidFormats))
			}
			opts.out = &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}
			opts.log = env.Log
			if opts.log == nil {
				opts.log = logger.Nop()
			}
			if opts.Verbose {
				opts.log = logger.New(logger.Config{Env: "production", Level: "debug", Output: cmd.ErrOrStderr()})
			}
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "flags inválidos", err)
	})

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "salida de diagnóstico")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "formato de salida (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "base SQLite local (por defecto SQLITE_PATH)")
	cmd.PersistentFlags().StringVar(&opts.Device, "device", DefaultDevice, "dispositivo dentro de la base local")

	cmd.AddCommand(newRegisterCommand(opts))
	cmd.AddCommand(newLoginCommand(opts))
	cmd.AddCommand(newLogoutCommand(opts))
	cmd.AddCommand(newWhoamiCommand(opts))
	cmd.AddCommand(newProductsCommand(opts))
	cmd.AddCommand(newCartCommand(opts))
	cmd.AddCommand(newCheckoutCommand(opts))
	cmd.AddCommand(newOrdersCommand(opts))
	cmd.AddCommand(newPurgeCommand(opts))
	return cmd, opts
}

// Run ejecuta shopctl con args y devuelve el código de salida. Los errores se
// escriben en stdout en el formato pedido.
func Run(ctx context.Context, env *Env, args []string, stdout, stderr io.Writer) int {
	cmd, opts := newRoot(env)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	out := opts.out
	if out == nil {
		format := opts.Format
		if !isValidFormat(format) {
			format = "text"
		}
		out = &OutputFormatter{Format: format, Writer: stdout, ErrWriter: stderr, Verbose: opts.Verbose}
	}
	out.VerboseLog("error: %v", err)
	code, message := describeError(err)
	_ = out.Error(code, message)
	return GetExitCode(err)
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// withWorkspace abre la base local y el Workspace del dispositivo para un comando.
func (o *RootOptions) withWorkspace(cmd *cobra.Command, fn func(ctx context.Context, ws *storefront.Workspace) error) error {
	kv, err := o.openLocal()
	if err != nil {
		return err
	}
	defer kv.Close()

	client := restapi.New(o.env.Config.API, o.log)
	ws, err := storefront.Open(cmd.Context(), storefront.Deps{
		KV:  kv,
		API: func(tokens ports.TokenSource) ports.StoreAPI { return client.ForDevice(tokens) },
		Log: o.log,
	}, o.Device)
	if err != nil {
		return WrapExitError(ExitCommandError, "abrir dispositivo", err)
	}
	defer ws.Close()
	return fn(cmd.Context(), ws)
}

// openLocal abre la base SQLite de --db o SQLITE_PATH.
func (o *RootOptions) openLocal() (*sqlite.KVStore, error) {
	path := strings.TrimSpace(o.DB)
	if path == "" {
		path = o.env.Config.Storage.SQLitePath
	}
	kv, err := sqlite.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "abrir base local", err)
	}
	o.out.VerboseLog("base local: %s (dispositivo %s)", path, o.Device)
	return kv, nil
}

// requireLogin error de los comandos que necesitan sesión.
func requireLogin(ws *storefront.Workspace) error {
	if !ws.IsAuthenticated() {
		return WrapExitError(ExitFailure, MsgLoginRequired, domain.ErrNotAuthenticated)
	}
	return nil
}

// exactArgs cobra.ExactArgs con código de uso incorrecto.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, "argumentos inválidos", err)
		}
		return nil
	}
}
