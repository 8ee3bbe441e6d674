package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	DBPath          string
	LogLevel        string
	LogColors       bool
	LogFormat       string
	SelectionPolicy string
	CatalogPath     string
	RequestTimeout  time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:            envOr("ADDR", ":8080"),
		DBPath:          envOr("DB_PATH", "file:lingoflash.db"),
		LogLevel:        envOr("LOG_LEVEL", "INFO"),
		LogColors:       envBoolOr("LOG_COLORS", true),
		LogFormat:       envOr("LOG_FORMAT", "text"),
		SelectionPolicy: envOr("SELECTION_POLICY", "complexity"),
		CatalogPath:     os.Getenv("CATALOG_PATH"),
		RequestTimeout:  envDurationOr("REQUEST_TIMEOUT", 15*time.Second),
	}
}

// Validate reports every invalid setting in a single error.
func (c Config) Validate() error {
	var errs []string
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, "ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT must be text or json (got %q)", c.LogFormat))
	}
	switch strings.ToLower(c.SelectionPolicy) {
	case "linear", "complexity":
	default:
		errs = append(errs, fmt.Sprintf("SELECTION_POLICY must be linear or complexity (got %q)", c.SelectionPolicy))
	}
	if c.CatalogPath != "" {
		if _, err := os.Stat(c.CatalogPath); err != nil {
			errs = append(errs, fmt.Sprintf("CATALOG_PATH %q is not readable: %v", c.CatalogPath, err))
		}
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, "REQUEST_TIMEOUT must be positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
