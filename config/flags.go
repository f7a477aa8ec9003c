package config

import (
	"github.com/urfave/cli/v2"
)

func env(name string) []string {
	return []string{EnvPrefix + name}
}

// Flags binds every configuration key to cfg. Defaults are taken from the
// values already in cfg, normally LoadDefaults().
func Flags(cfg *Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP listen address",
			Value:       cfg.Addr,
			EnvVars:     env("ADDR"),
			Destination: &cfg.Addr,
		},
		&cli.StringFlag{
			Name:        "storage",
			Usage:       "storage backend: postgres or memory",
			Value:       cfg.Storage,
			EnvVars:     env("STORAGE"),
			Destination: &cfg.Storage,
		},
		&cli.StringFlag{
			Name:        "database-dsn",
			Usage:       "PostgreSQL connection string",
			Value:       cfg.DatabaseDSN,
			EnvVars:     append(env("DATABASE_DSN"), "DATABASE_URL"),
			Destination: &cfg.DatabaseDSN,
		},
		&cli.IntFlag{
			Name:        "db-max-conns",
			Usage:       "maximum pooled database connections",
			Value:       cfg.DBMaxConns,
			EnvVars:     env("DB_MAX_CONNS"),
			Destination: &cfg.DBMaxConns,
		},
		&cli.BoolFlag{
			Name:        "migrate-on-start",
			Usage:       "apply pending migrations before serving",
			Value:       cfg.MigrateOnStart,
			EnvVars:     env("MIGRATE_ON_START"),
			Destination: &cfg.MigrateOnStart,
		},
		&cli.StringFlag{
			Name:        "secret",
			Usage:       "key for session token hashing, at least 32 characters",
			Value:       cfg.Secret,
			EnvVars:     env("SECRET"),
			Destination: &cfg.Secret,
		},
		&cli.StringFlag{
			Name:        "cookie-name",
			Usage:       "session cookie name",
			Value:       cfg.CookieName,
			EnvVars:     env("COOKIE_NAME"),
			Destination: &cfg.CookieName,
		},
		&cli.DurationFlag{
			Name:        "cookie-max-age",
			Usage:       "session cookie lifetime",
			Value:       cfg.CookieMaxAge,
			EnvVars:     env("COOKIE_MAX_AGE"),
			Destination: &cfg.CookieMaxAge,
		},
		&cli.BoolFlag{
			Name:        "cookie-secure",
			Usage:       "mark the session cookie Secure",
			Value:       cfg.CookieSecure,
			EnvVars:     env("COOKIE_SECURE"),
			Destination: &cfg.CookieSecure,
		},
		&cli.DurationFlag{
			Name:        "cache-ttl",
			Usage:       "cache entry lifetime",
			Value:       cfg.CacheTTL,
			EnvVars:     env("CACHE_TTL"),
			Destination: &cfg.CacheTTL,
		},
		&cli.IntFlag{
			Name:        "cache-max-size",
			Usage:       "maximum entries per in-memory cache",
			Value:       cfg.CacheMaxSize,
			EnvVars:     env("CACHE_MAX_SIZE"),
			Destination: &cfg.CacheMaxSize,
		},
		&cli.BoolFlag{
			Name:        "disable-cache",
			Usage:       "resolve every session from storage",
			Value:       cfg.DisableCache,
			EnvVars:     env("DISABLE_CACHE"),
			Destination: &cfg.DisableCache,
		},
		&cli.StringFlag{
			Name:        "redis-url",
			Usage:       "redis:// URL for a shared cache; in-memory caches when empty",
			Value:       cfg.RedisURL,
			EnvVars:     env("REDIS_URL"),
			Destination: &cfg.RedisURL,
		},
		&cli.BoolFlag{
			Name:        "metrics-cache",
			Usage:       "cache per-user diet metrics until the next meal write",
			Value:       cfg.MetricsCache,
			EnvVars:     env("METRICS_CACHE"),
			Destination: &cfg.MetricsCache,
		},
		&cli.StringFlag{
			Name:        "janitor-schedule",
			Usage:       "cron spec for purging expired in-memory cache entries",
			Value:       cfg.JanitorSchedule,
			EnvVars:     env("JANITOR_SCHEDULE"),
			Destination: &cfg.JanitorSchedule,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "debug, info, warn or error",
			Value:       cfg.LogLevel,
			EnvVars:     env("LOG_LEVEL"),
			Destination: &cfg.LogLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "json or text",
			Value:       cfg.LogFormat,
			EnvVars:     env("LOG_FORMAT"),
			Destination: &cfg.LogFormat,
		},
		&cli.StringFlag{
			Name:        "telemetry-path",
			Usage:       "path serving Prometheus metrics",
			Value:       cfg.TelemetryPath,
			EnvVars:     env("TELEMETRY_PATH"),
			Destination: &cfg.TelemetryPath,
		},
	}
}
