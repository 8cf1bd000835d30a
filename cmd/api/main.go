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
	"golang.org/x/oauth2"

	"github.com/jhoicas/efactura-api/internal/application/auth"
	"github.com/jhoicas/efactura-api/internal/application/invoicing"
	"github.com/jhoicas/efactura-api/internal/infrastructure/anaf"
	infrapdf "github.com/jhoicas/efactura-api/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/efactura-api/internal/interfaces/http"
	"github.com/jhoicas/efactura-api/pkg/config"
	"github.com/jhoicas/efactura-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("anaf_env", cfg.ANAF.Environment).
		Msg("starting application")

	ctx := context.Background()

	// The refresh token comes from the one-time authorization done with
	// cmd/anaf-token. Without it only the public endpoints work.
	var tokenSource oauth2.TokenSource
	if cfg.ANAF.RefreshToken != "" {
		oauthCfg := anaf.OAuthConfig(cfg.ANAF.ClientID, cfg.ANAF.ClientSecret, cfg.ANAF.RedirectURL)
		tokenSource = anaf.TokenSource(ctx, oauthCfg, cfg.ANAF.RefreshToken)
	} else {
		log.Warn().Msg("no ANAF refresh token configured, authenticated endpoints disabled")
	}

	client, err := anaf.NewClient(anaf.Config{
		Environment:     anaf.Environment(cfg.ANAF.Environment),
		TokenSource:     tokenSource,
		CompanyCacheTTL: cfg.ANAF.CompanyCacheTTL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build ANAF client")
	}

	invoiceSvc := invoicing.NewService(client, log, cfg.ANAF.PollInterval)
	pdfSvc := invoicing.NewPDFService(infrapdf.NewMarotoPDFGenerator())
	authUC := auth.NewAuthUseCase(cfg.Auth.APIKeyHash, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 90, // uploads and downloads ride on ANAF's latency
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "e-Factura API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Invoices:  invoiceSvc,
		PDF:       pdfSvc,
		AuthUC:    authUC,
		JWTSecret: cfg.JWT.Secret,
		Log:       log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
