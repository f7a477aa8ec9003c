// Package config holds the server configuration. Values come from flags,
// DAILYDIET_* environment variables and an optional .env file, in that order
// of precedence, over the defaults below.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	EnvPrefix = "DAILYDIET_"

	minSecretLen = 32
)

type Config struct {
	Addr string

	Storage     string
	DatabaseDSN string
	DBMaxConns  int
	// MigrateOnStart applies pending migrations before serving
	MigrateOnStart bool

	Secret       string
	CookieName   string
	CookieMaxAge time.Duration
	CookieSecure bool

	CacheTTL        time.Duration
	CacheMaxSize    int
	DisableCache    bool
	RedisURL        string // shared cache backend; in-memory when empty
	MetricsCache    bool
	JanitorSchedule string

	LogLevel  string
	LogFormat string

	TelemetryPath string
}

func LoadDefaults() Config {
	return Config{
		Addr:            ":3333",
		Storage:         StoragePostgres,
		DBMaxConns:      10,
		MigrateOnStart:  true,
		CookieName:      "sessionId",
		CookieMaxAge:    7 * 24 * time.Hour,
		CacheTTL:        5 * time.Minute,
		CacheMaxSize:    500,
		JanitorSchedule: "@every 1m",
		LogLevel:        "info",
		LogFormat:       "json",
		TelemetryPath:   "/metrics",
	}
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}

	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("database-dsn is required when storage is postgres"))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("storage must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage))
	}

	if c.Secret == "" {
		errs = append(errs, errors.New("secret is required"))
	} else if len(c.Secret) < minSecretLen {
		errs = append(errs, fmt.Errorf("secret must be at least %d characters", minSecretLen))
	}

	if c.CookieName == "" {
		errs = append(errs, errors.New("cookie-name is required"))
	}
	if c.CookieMaxAge <= 0 {
		errs = append(errs, errors.New("cookie-max-age must be positive"))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, errors.New("cache-ttl must be positive"))
	}
	if c.CacheMaxSize <= 0 {
		errs = append(errs, errors.New("cache-max-size must be positive"))
	}
	if c.DBMaxConns <= 0 {
		errs = append(errs, errors.New("db-max-conns must be positive"))
	}
	if !strings.HasPrefix(c.TelemetryPath, "/") {
		errs = append(errs, errors.New("telemetry-path must start with /"))
	}

	return errors.Join(errs...)
}

// LoadDotEnv loads variables from the given files (".env" when none are
// given) without overriding variables already set. Missing files are
// ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	return godotenv.Load(existing...)
}
