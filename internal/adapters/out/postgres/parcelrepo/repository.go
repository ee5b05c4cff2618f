package parcelrepo

import (
	"context"
	"errors"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/parcel"
	"warehouse/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormParcelRepository implements ports.ParcelRepository using GORM.
type GormParcelRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(code kernel.TrackingCode, aggregate any)
}

func NewGormParcelRepository(db *gorm.DB, tracker aggregateTracker) *GormParcelRepository {
	return &GormParcelRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new parcel. A taken tracking code is reported as
// *errs.ObjectAlreadyExistsError; this also catches the race between two
// intakes of the same code that both passed the ledger's existence check.
func (r *GormParcelRepository) Add(ctx context.Context, aggregate *parcel.Parcel) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsErrorWithCause("parcel", dto.TrackingCode, err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.TrackingCode(), aggregate)
	return nil
}

func (r *GormParcelRepository) Get(ctx context.Context, code kernel.TrackingCode) (*parcel.Parcel, error) {
	return r.get(ctx, r.db, code)
}

// GetForUpdate locks the parcel row with SELECT ... FOR UPDATE. Outside a
// transaction the lock is released immediately.
func (r *GormParcelRepository) GetForUpdate(ctx context.Context, code kernel.TrackingCode) (*parcel.Parcel, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), code)
}

// Update writes the aggregate with a conditional UPDATE on the stored
// version. Zero affected rows means another transition won, or the parcel
// vanished; both surface as *errs.VersionConflictError carrying the version
// found in the database.
func (r *GormParcelRepository) Update(ctx context.Context, aggregate *parcel.Parcel, expectedVersion int64) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&ParcelDTO{}).
		Where("tracking_code = ? AND version = ?", dto.TrackingCode, expectedVersion).
		Updates(map[string]any{
			"stage":           dto.Stage,
			"version":         dto.Version,
			"rework_count":    dto.ReworkCount,
			"last_updated_by": dto.LastUpdatedBy,
			"updated_at":      dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var actual int64
		err := r.db.WithContext(ctx).Model(&ParcelDTO{}).
			Select("version").
			Where("tracking_code = ?", dto.TrackingCode).
			Scan(&actual).Error
		if err != nil {
			return err
		}
		return errs.NewVersionConflictError("parcel", dto.TrackingCode, expectedVersion, actual)
	}

	r.tracker.TrackAggregate(aggregate.TrackingCode(), aggregate)
	return nil
}

func (r *GormParcelRepository) get(ctx context.Context, db *gorm.DB, code kernel.TrackingCode) (*parcel.Parcel, error) {
	if err := code.Validate(); err != nil {
		return nil, err
	}

	var dto ParcelDTO
	if err := db.WithContext(ctx).First(&dto, "tracking_code = ?", code.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("parcel", code.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
