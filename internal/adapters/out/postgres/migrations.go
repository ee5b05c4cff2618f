package postgres

import (
	"context"

	"warehouse/internal/adapters/out/postgres/auditrepo"
	"warehouse/internal/adapters/out/postgres/intervalrepo"
	"warehouse/internal/adapters/out/postgres/parcelrepo"
	"warehouse/internal/adapters/out/postgres/qualityrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the warehouse tables and the indexes
// AutoMigrate cannot express.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)

	err := db.AutoMigrate(
		&parcelrepo.ParcelDTO{},
		&intervalrepo.IntervalDTO{},
		&qualityrepo.IssueDTO{},
		&auditrepo.AttemptDTO{},
	)
	if err != nil {
		return err
	}

	return db.Exec(intervalrepo.OpenIntervalIndexSQL).Error
}
