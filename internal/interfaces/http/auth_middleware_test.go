package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/efactura-api/internal/application/auth"
	apphttp "github.com/jhoicas/efactura-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/efactura-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Test helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "efactura-api-test"
	testExpMin    = 60
	testAPIKey    = "super-secret-api-key"
)

// buildProtectedApp builds a minimal Fiber app with AuthMiddleware and a
// dummy handler that answers 200 when the middleware lets it through.
func buildProtectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"ok":        true,
				"client_id": apphttp.GetClientID(c),
			})
		},
	)
	return app
}

func validToken(t *testing.T) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, "client-1", testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ValidTokenPasses(t *testing.T) {
	app := buildProtectedApp()
	resp := doRequest(t, app, validToken(t))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "client-1", body["client_id"])
}

func TestAuthMiddleware_MissingHeaderReturns401(t *testing.T) {
	app := buildProtectedApp()
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_MalformedHeaderReturns401(t *testing.T) {
	app := buildProtectedApp()
	for _, header := range []string{"Token abc", "Bearer", "Bearer "} {
		resp := doRequest(t, app, header)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "header %q", header)
		resp.Body.Close()
	}
}

func TestAuthMiddleware_InvalidTokenReturns401(t *testing.T) {
	app := buildProtectedApp()
	resp := doRequest(t, app, "Bearer invalid.token.here")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_WrongSecretReturns401(t *testing.T) {
	tok, err := pkgjwt.Generate("a-completely-different-secret", "client-1", testIssuer, testExpMin)
	require.NoError(t, err)

	app := buildProtectedApp()
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExpiredTokenReturns401(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, "client-1", testIssuer, -1)
	require.NoError(t, err)

	app := buildProtectedApp()
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Token exchange endpoint
// ──────────────────────────────────────────────────────────────────────────────

func buildAuthApp(t *testing.T) *fiber.App {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testAPIKey), bcrypt.MinCost)
	require.NoError(t, err)

	uc := auth.NewAuthUseCase(string(hash), auth.JWTConfig{
		Secret:     testJWTSecret,
		ExpMinutes: testExpMin,
		Issuer:     testIssuer,
	})
	app := fiber.New()
	app.Post("/api/auth/token", apphttp.NewAuthHandler(uc).Token)
	return app
}

func postToken(t *testing.T, app *fiber.App, apiKey string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"api_key": apiKey})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestTokenExchange_ValidKeyReturnsWorkingToken(t *testing.T) {
	app := buildAuthApp(t)
	resp := postToken(t, app, testAPIKey)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token            string `json:"token"`
		ExpiresInMinutes int    `json:"expires_in_minutes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Token)
	assert.Equal(t, testExpMin, body.ExpiresInMinutes)

	// The issued token must pass the middleware.
	protected := buildProtectedApp()
	okResp := doRequest(t, protected, "Bearer "+body.Token)
	defer okResp.Body.Close()
	assert.Equal(t, http.StatusOK, okResp.StatusCode)
}

func TestTokenExchange_WrongKeyReturns401(t *testing.T) {
	app := buildAuthApp(t)
	resp := postToken(t, app, "not-the-key")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTokenExchange_EmptyKeyReturns401(t *testing.T) {
	app := buildAuthApp(t)
	resp := postToken(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
