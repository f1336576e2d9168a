package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/electro-storefront/internal/application/checkout"
	infrapdf "github.com/jhoicas/electro-storefront/internal/infrastructure/pdf"
	"github.com/jhoicas/electro-storefront/internal/interfaces/cli"
	"github.com/jhoicas/electro-storefront/pkg/config"
	"github.com/jhoicas/electro-storefront/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(cli.ExitCommandError)
	}

	// Los logs van a stderr; stdout queda para la salida del comando.
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "warn", Output: os.Stderr})

	env := &cli.Env{
		Config:   cfg,
		Log:      log,
		Checkout: checkout.NewService(cfg.Checkout, infrapdf.NewMarotoPDFGenerator(infrapdf.StoreInfo{Name: cfg.App.Name}), log),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, env, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
