package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/electro-storefront/internal/application/checkout"
	"github.com/jhoicas/electro-storefront/internal/application/ports"
	"github.com/jhoicas/electro-storefront/internal/application/storefront"
	infrapdf "github.com/jhoicas/electro-storefront/internal/infrastructure/pdf"
	"github.com/jhoicas/electro-storefront/internal/infrastructure/restapi"
	"github.com/jhoicas/electro-storefront/internal/infrastructure/storage/backend"
	httpRouter "github.com/jhoicas/electro-storefront/internal/interfaces/http"
	"github.com/jhoicas/electro-storefront/pkg/config"
	"github.com/jhoicas/electro-storefront/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("api", cfg.API.Endpoint()).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando storefront")

	ctx := context.Background()
	kv, err := backend.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer kv.Close()

	apiClient := restapi.New(cfg.API, log)

	// PDF: comprobante del pedido
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(infrapdf.StoreInfo{Name: cfg.App.Name})
	checkoutSvc := checkout.NewService(cfg.Checkout, pdfGenerator, log)

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		// El backend puede tardar hasta API_TIMEOUT_SECONDS.
		WriteTimeout: cfg.API.Timeout + 5*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: cfg.HTTP.SwaggerPath,
		Path:     "docs",
		Title:    "Electro Storefront",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Storefront: storefront.Deps{
			KV:  kv,
			API: func(tokens ports.TokenSource) ports.StoreAPI { return apiClient.ForDevice(tokens) },
			Log: log,
		},
		Locker:   storefront.NewLocker(),
		Checkout: checkoutSvc,
		Session:  cfg.Session,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("storefront detenido")
}
