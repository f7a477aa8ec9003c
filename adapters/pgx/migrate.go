package pgx

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/lborres/dailydiet/adapters/pgx/migrations"
	"github.com/lborres/dailydiet/pkg/logging"
	"github.com/pressly/goose/v3"
)

// gooseLogger routes goose output through the service logger.
type gooseLogger struct {
	log logging.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Info(context.Background(), fmt.Sprintf(format, v...))
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Error(context.Background(), fmt.Sprintf(format, v...))
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger logging.Logger) error {
	if logger == nil {
		logger = logging.Nop()
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{log: logger})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	logger.Info(ctx, "schema up to date", "version", version)

	return nil
}
