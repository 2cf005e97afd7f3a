package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/brand-registry/backend/internal/common/db/migrations"
	"github.com/brand-registry/backend/internal/common/logger"
	"github.com/brand-registry/backend/internal/observability/metrics"
)

// Migrate applies the embedded schema migrations. Goose runs over
// database/sql, so a short-lived *sql.DB is opened from the pool config.
func Migrate(ctx context.Context, log *logger.Logger, pool *pgxpool.Pool) error {
	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	metrics.DBMigrationsApplied.Set(float64(version))
	log.Infof("database schema at version %d", version)

	return nil
}
