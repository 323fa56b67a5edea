package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	CORSAllowedOrigins []string

	MarketplaceAPIBaseURL string
	MarketplaceAPIToken   string

	AdminAPIToken string

	ProviderCommissionPct float64
	CustomerCommissionPct float64
	ProcessAlias          string
	Transition            string

	ListingCacheTTL  time.Duration
	OverrideCacheTTL time.Duration
	OverrideSyncCron string
	IdempotencyTTL   time.Duration

	SpeculateRateLimit  int
	SpeculateRateWindow time.Duration
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		MarketplaceAPIBaseURL: strings.TrimSpace(k.String("MARKETPLACE_API_BASE_URL")),
		MarketplaceAPIToken:   strings.TrimSpace(k.String("MARKETPLACE_API_TOKEN")),

		AdminAPIToken: strings.TrimSpace(k.String("ADMIN_API_TOKEN")),

		ProviderCommissionPct: parseFloat(k.String("PROVIDER_COMMISSION_PCT"), 15),
		CustomerCommissionPct: parseFloat(k.String("CUSTOMER_COMMISSION_PCT"), 0),
		ProcessAlias:          valueOrDefault(k.String("TRANSACTION_PROCESS_ALIAS"), "default-purchase/release-1"),
		Transition:            valueOrDefault(k.String("TRANSACTION_TRANSITION"), "transition/request-payment"),

		ListingCacheTTL:  parseDuration(k.String("LISTING_CACHE_TTL"), "5m"),
		OverrideCacheTTL: parseDuration(k.String("OVERRIDE_CACHE_TTL"), "10m"),
		OverrideSyncCron: valueOrDefault(k.String("OVERRIDE_SYNC_CRON"), "@every 5m"),
		IdempotencyTTL:   parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),

		SpeculateRateLimit:  parseInt(k.String("SPECULATE_RATE_LIMIT"), 60),
		SpeculateRateWindow: parseDuration(k.String("SPECULATE_RATE_WINDOW"), "1m"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.MarketplaceAPIBaseURL == "" {
		return nil, errors.New("MARKETPLACE_API_BASE_URL is required")
	}
	if cfg.ProviderCommissionPct < 0 || cfg.ProviderCommissionPct > 100 {
		return nil, errors.New("PROVIDER_COMMISSION_PCT must be between 0 and 100")
	}
	if cfg.CustomerCommissionPct < 0 || cfg.CustomerCommissionPct > 100 {
		return nil, errors.New("CUSTOMER_COMMISSION_PCT must be between 0 and 100")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseFloat(value string, fallback float64) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	return n
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
