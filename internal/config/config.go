// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Default values that must be overridden in production.
const (
	defaultDBPassword = "changeme"
	defaultSecretKey  = "travel-clean-legal-dev-secret"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache). An empty host disables the page cache.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	PageCacheTTL   time.Duration

	// SecretKey signs the flash-message cookie.
	SecretKey string

	// Site settings rendered into public pages and the sitemap.
	SiteName        string
	SiteDescription string
	SiteURL         string
	ContactEmail    string
	AdSenseClientID string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is loaded first if present; real environment variables take precedence.
// Returns an error if critical values are missing in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	ttl, err := time.ParseDuration(envOrDefault("PAGE_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("PAGE_CACHE_TTL: %w", err)
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "travelclean"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", defaultDBPassword),
		DBName:     envOrDefault("POSTGRES_DB", "travelclean"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
		PageCacheTTL:   ttl,

		SecretKey: envOrDefault("SECRET_KEY", defaultSecretKey),

		SiteName:        envOrDefault("SITE_NAME", "Travel Clean & Legal"),
		SiteDescription: envOrDefault("SITE_DESCRIPTION", "Your Complete Guide to Relocating from Nigeria"),
		SiteURL:         envOrDefault("SITE_URL", "https://travelcleanandlegal.live"),
		ContactEmail:    envOrDefault("CONTACT_EMAIL", "hello@travelcleanandlegal.live"),
		AdSenseClientID: os.Getenv("ADSENSE_CLIENT_ID"),
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == defaultDBPassword {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.SecretKey == defaultSecretKey {
			return nil, fmt.Errorf("SECRET_KEY must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// CacheEnabled reports whether a Valkey host was configured.
func (c *Config) CacheEnabled() bool {
	return c.ValkeyHost != ""
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
