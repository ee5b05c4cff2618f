package intervalrepo

import (
	"context"
	"errors"
	"fmt"

	"warehouse/internal/core/domain/model/history"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormIntervalRepository implements ports.IntervalRepository using GORM.
type GormIntervalRepository struct {
	db *gorm.DB
}

func NewGormIntervalRepository(db *gorm.DB) *GormIntervalRepository {
	return &GormIntervalRepository{db: db}
}

// Add inserts an interval. A unique violation means the parcel already has an
// open interval or one opened at the same version; both are reported as
// history.ErrOpenIntervalExists.
func (r *GormIntervalRepository) Add(ctx context.Context, interval *history.Interval) error {
	if err := interval.Validate(); err != nil {
		return err
	}

	dto := fromDomain(interval)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s at sequence %d: %w",
				history.ErrOpenIntervalExists, dto.TrackingCode, dto.Sequence, err)
		}
		return err
	}
	return nil
}

func (r *GormIntervalRepository) GetOpen(ctx context.Context, code kernel.TrackingCode) (*history.Interval, error) {
	if err := code.Validate(); err != nil {
		return nil, err
	}

	var dto IntervalDTO
	err := r.db.WithContext(ctx).
		Where("tracking_code = ? AND exited_at IS NULL", code.String()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("open stage interval", code.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Close writes exit time, duration and the clamped flag. Only an interval
// still open in the database is updated; closing it twice is reported as
// history.ErrIntervalAlreadyClosed.
func (r *GormIntervalRepository) Close(ctx context.Context, interval *history.Interval) error {
	if err := interval.Validate(); err != nil {
		return err
	}
	if interval.IsOpen() {
		return errs.NewValueIsInvalidErrorWithCause("interval", errors.New("interval has not been closed"))
	}

	dto := fromDomain(interval)
	result := r.db.WithContext(ctx).
		Model(&IntervalDTO{}).
		Where("id = ? AND exited_at IS NULL", dto.ID).
		Updates(map[string]any{
			"exited_at":   dto.ExitedAt,
			"duration_ns": dto.DurationNs,
			"clamped":     dto.Clamped,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", history.ErrIntervalAlreadyClosed, dto.ID)
	}
	return nil
}

func (r *GormIntervalRepository) ListByParcel(ctx context.Context, code kernel.TrackingCode) ([]*history.Interval, error) {
	if err := code.Validate(); err != nil {
		return nil, err
	}

	var dtos []IntervalDTO
	err := r.db.WithContext(ctx).
		Where("tracking_code = ?", code.String()).
		Order("entered_at, sequence").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	intervals := make([]*history.Interval, 0, len(dtos))
	for _, dto := range dtos {
		i, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, i)
	}
	return intervals, nil
}
