// Command anaf-token runs the one-time OAuth2 authorization against
// logincert.anaf.ro and prints the refresh token to configure as
// ANAF_REFRESH_TOKEN.
//
// The browser step must happen on a machine with the taxpayer's qualified
// certificate installed; the callback lands on the local listener below.
//
// Usage:
//
//	ANAF_CLIENT_ID=... ANAF_CLIENT_SECRET=... ANAF_REDIRECT_URL=http://localhost:8089/callback go run ./cmd/anaf-token
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/efactura-api/internal/infrastructure/anaf"
	"github.com/jhoicas/efactura-api/pkg/config"
	"github.com/jhoicas/efactura-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	if cfg.ANAF.ClientID == "" || cfg.ANAF.ClientSecret == "" || cfg.ANAF.RedirectURL == "" {
		log.Fatal().Msg("ANAF_CLIENT_ID, ANAF_CLIENT_SECRET and ANAF_REDIRECT_URL are required")
	}

	redirect, err := url.Parse(cfg.ANAF.RedirectURL)
	if err != nil || redirect.Host == "" {
		log.Fatal().Str("redirect_url", cfg.ANAF.RedirectURL).Msg("invalid ANAF_REDIRECT_URL")
	}

	oauthCfg := anaf.OAuthConfig(cfg.ANAF.ClientID, cfg.ANAF.ClientSecret, cfg.ANAF.RedirectURL)
	state := randomState()

	fmt.Println("Open this URL in a browser with the qualified certificate installed:")
	fmt.Println()
	fmt.Println("  " + anaf.AuthCodeURL(oauthCfg, state))
	fmt.Println()

	codeCh := make(chan string, 1)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get(redirect.Path, func(c *fiber.Ctx) error {
		if c.Query("state") != state {
			return c.Status(fiber.StatusBadRequest).SendString("state mismatch, restart the flow")
		}
		code := c.Query("code")
		if code == "" {
			return c.Status(fiber.StatusBadRequest).SendString("missing authorization code")
		}
		codeCh <- code
		return c.SendString("Authorization received, you can close this tab.")
	})

	go func() {
		if err := app.Listen(redirect.Host); err != nil {
			log.Fatal().Err(err).Msg("callback listener")
		}
	}()

	var code string
	select {
	case code = <-codeCh:
	case <-time.After(5 * time.Minute):
		log.Fatal().Msg("timed out waiting for the authorization callback")
	}
	_ = app.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	token, err := anaf.Exchange(ctx, oauthCfg, code)
	if err != nil {
		log.Fatal().Err(err).Msg("exchange authorization code")
	}

	fmt.Println("Access token obtained, expires:", token.Expiry.Format(time.RFC3339))
	fmt.Println()
	fmt.Println("Set this in the environment:")
	fmt.Println()
	fmt.Println("  ANAF_REFRESH_TOKEN=" + token.RefreshToken)
	os.Exit(0)
}

func randomState() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
