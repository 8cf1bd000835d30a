package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config groups the application configuration (read via Viper from env vars
// and optionally from a file).
type Config struct {
	App  AppConfig
	JWT  JWTConfig
	HTTP HTTPConfig
	ANAF ANAFConfig
	Auth AuthConfig
}

// AppConfig is the general application configuration.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// JWTConfig configures the gateway's own tokens.
type JWTConfig struct {
	Secret     string
	Expiration int // minutes
	Issuer     string
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ANAFConfig configures the e-Factura connection. The refresh token comes
// from the one-time OAuth authorization (cmd/anaf-token).
type ANAFConfig struct {
	Environment  string // "test" or "prod"
	ClientID     string
	ClientSecret string
	RedirectURL  string
	RefreshToken string

	PollInterval    time.Duration // stareMesaj polling period
	CompanyCacheTTL time.Duration // VAT registry cache lifetime
}

// AuthConfig configures gateway access. APIKeyHash is the bcrypt hash of the
// API key clients exchange for a JWT.
type AuthConfig struct {
	APIKeyHash string
}

// Load reads the configuration from environment variables (and optionally a
// file). Env vars take priority. Expected names: APP_ENV, HTTP_PORT,
// JWT_SECRET, ANAF_CLIENT_ID, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Optional configuration file (.env or config.env).
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignore if missing

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignore if missing

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "efactura-api"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "efactura-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		ANAF: ANAFConfig{
			Environment:     getString(v, "ANAF_ENVIRONMENT", "test"),
			ClientID:        getString(v, "ANAF_CLIENT_ID", ""),
			ClientSecret:    getString(v, "ANAF_CLIENT_SECRET", ""),
			RedirectURL:     getString(v, "ANAF_REDIRECT_URL", ""),
			RefreshToken:    getString(v, "ANAF_REFRESH_TOKEN", ""),
			PollInterval:    time.Duration(getInt(v, "ANAF_POLL_INTERVAL_SECONDS", 5)) * time.Second,
			CompanyCacheTTL: time.Duration(getInt(v, "ANAF_COMPANY_CACHE_TTL_HOURS", 24)) * time.Hour,
		},
		Auth: AuthConfig{
			APIKeyHash: getString(v, "API_KEY_HASH", ""),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
