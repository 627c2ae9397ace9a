package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/aurasoft-io/aura-pos/internal/application/auth"
	"github.com/aurasoft-io/aura-pos/internal/application/tenant"
	"github.com/aurasoft-io/aura-pos/internal/infrastructure/postgres"
	httpRouter "github.com/aurasoft-io/aura-pos/internal/interfaces/http"
	"github.com/aurasoft-io/aura-pos/pkg/config"
	"github.com/aurasoft-io/aura-pos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Catálogo compartido de tenants (esquema public)
	if err := postgres.EnsureTenantCatalog(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("catálogo de tenants")
	}
	catalogRepo := postgres.NewTenantCatalogRepository(pool)
	registry := postgres.NewSchemaRegistry(pool, catalogRepo, log)

	tenantUC := tenant.NewUseCase(registry, catalogRepo, cfg.Auth.BcryptCost, log)
	permissionCache := auth.NewSessionPermissionCache()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Registry:        registry,
		PermissionCache: permissionCache,
		TenantUC:        tenantUC,
		JWTCfg: auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		ProvisionToken: cfg.Auth.ProvisionToken,
		Log:            log,
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

	log.Info().Msg("aplicación detenida")
}
