package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lborres/dailydiet"
	fiberadapter "github.com/lborres/dailydiet/adapters/fiber"
	"github.com/lborres/dailydiet/adapters/memory"
	pgxadapter "github.com/lborres/dailydiet/adapters/pgx"
	redisadapter "github.com/lborres/dailydiet/adapters/redis"
	"github.com/lborres/dailydiet/config"
	"github.com/lborres/dailydiet/core"
	"github.com/lborres/dailydiet/pkg/cache"
	"github.com/lborres/dailydiet/pkg/crypto"
	"github.com/lborres/dailydiet/pkg/logging"
	"github.com/lborres/dailydiet/pkg/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
	}

	cfg := config.LoadDefaults()

	app := &cli.App{
		Name:  "dailydiet",
		Usage: "diet tracking API",
		Flags: config.Flags(&cfg),
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP server",
				Action: func(c *cli.Context) error {
					return serve(c.Context, cfg)
				},
			},
			{
				Name:  "migrate",
				Usage: "apply database migrations and exit",
				Action: func(c *cli.Context) error {
					return migrate(c.Context, cfg)
				},
			},
		},
		DefaultCommand: "serve",
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) (logging.Logger, error) {
	return logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
}

func migrate(ctx context.Context, cfg config.Config) error {
	if cfg.Storage != config.StoragePostgres {
		return fmt.Errorf("migrate requires postgres storage, got %q", cfg.Storage)
	}
	if cfg.DatabaseDSN == "" {
		return errors.New("database-dsn is required")
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	pool, err := pgxadapter.Connect(ctx, cfg.DatabaseDSN, int32(cfg.DBMaxConns))
	if err != nil {
		return err
	}
	defer pool.Close()

	return pgxadapter.Migrate(ctx, pool, logger)
}

func serve(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	storage, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	sessionCache, metricsCache, closeCaches, err := openCaches(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCaches()

	ids, err := crypto.NewIDGenerator("", 0)
	if err != nil {
		return err
	}

	tel := telemetry.New()
	http := fiberadapter.New(fiberadapter.Options{
		Logger:        logger,
		Telemetry:     tel,
		TelemetryPath: cfg.TelemetryPath,
		RequestIDs:    ids,
	})

	dd, err := dailydiet.New(dailydiet.Config{
		Secret:       cfg.Secret,
		Database:     storage,
		HTTP:         http,
		SessionCache: sessionCache,
		MetricsCache: metricsCache,
		DisableCache: cfg.DisableCache,
		CacheConfig:  &core.CacheConfig{TTL: cfg.CacheTTL, MaxSize: cfg.CacheMaxSize},
		SessionConfig: &core.SessionConfig{
			CookieName: cfg.CookieName,
			MaxAge:     cfg.CookieMaxAge,
			Secure:     cfg.CookieSecure,
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}

	for name, c := range dd.Caches {
		if err := tel.RegisterCache(name, c); err != nil {
			return fmt.Errorf("registering cache %q metrics: %w", name, err)
		}
	}

	janitor, err := dailydiet.NewJanitor(dd, cfg.JanitorSchedule)
	if err != nil {
		return err
	}
	janitor.Start()

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "listening", "addr", cfg.Addr, "storage", cfg.Storage)
		errCh <- http.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	janitor.Stop(shutdownCtx)
	return http.Shutdown(shutdownCtx)
}

func openStorage(ctx context.Context, cfg config.Config, logger logging.Logger) (core.StorageAdapter, func(), error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn(ctx, "using in-memory storage, data is lost on restart")
		return memory.New(), func() {}, nil
	}

	pool, err := pgxadapter.Connect(ctx, cfg.DatabaseDSN, int32(cfg.DBMaxConns))
	if err != nil {
		return nil, nil, err
	}

	if cfg.MigrateOnStart {
		if err := pgxadapter.Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}

	return pgxadapter.New(pool), pool.Close, nil
}

// openCaches returns nil caches when defaults apply: the session cache is
// then built in-memory by dailydiet.New, and the metrics cache stays off.
func openCaches(ctx context.Context, cfg config.Config) (core.Cache[*core.User], core.Cache[*core.Metrics], func(), error) {
	var (
		sessions core.Cache[*core.User]
		metrics  core.Cache[*core.Metrics]
	)

	if cfg.RedisURL == "" {
		if cfg.MetricsCache {
			metrics = cache.NewInMemoryCache[*core.Metrics](core.CacheConfig{TTL: cfg.CacheTTL, MaxSize: cfg.CacheMaxSize})
		}
		return sessions, metrics, func() {}, nil
	}

	client, err := redisadapter.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, err
	}

	if !cfg.DisableCache {
		sessions = redisadapter.New[*core.User](client, "dailydiet:session:", cfg.CacheTTL)
	}
	if cfg.MetricsCache {
		metrics = redisadapter.New[*core.Metrics](client, "dailydiet:metrics:", cfg.CacheTTL)
	}

	return sessions, metrics, func() { _ = client.Close() }, nil
}
