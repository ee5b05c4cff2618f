// Package pgtest starts a disposable PostgreSQL for integration tests and
// migrates the warehouse schema into it.
package pgtest

import (
	"context"
	"time"

	postgres_adapter "warehouse/internal/adapters/out/postgres"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TruncateSQL empties every warehouse table.
const TruncateSQL = "TRUNCATE TABLE parcels, stage_intervals, quality_issues, transition_attempts"

// Start runs a postgres:15-alpine container and returns a migrated
// connection with duplicate key errors translated to gorm.ErrDuplicatedKey,
// the way the service opens its database.
func Start(ctx context.Context) (*postgres.PostgresContainer, *gorm.DB, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, nil, err
	}

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return container, nil, err
	}

	if err = postgres_adapter.Migrate(ctx, db); err != nil {
		return container, db, err
	}
	return container, db, nil
}

// Round drops sub-microsecond precision PostgreSQL cannot store, so values
// compare equal after a round trip.
func Round(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
