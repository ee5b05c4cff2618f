package auditrepo

import (
	"context"

	"warehouse/internal/core/domain/model/audit"
	"warehouse/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormAuditRepository implements ports.AuditRepository using GORM.
type GormAuditRepository struct {
	db *gorm.DB
}

func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

func (r *GormAuditRepository) Add(ctx context.Context, attempt *audit.Attempt) error {
	if err := attempt.Validate(); err != nil {
		return err
	}

	dto := fromDomain(attempt)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormAuditRepository) ListByParcel(ctx context.Context, trackingCode string, limit int) ([]*audit.Attempt, error) {
	if limit < 1 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var dtos []AttemptDTO
	err := r.db.WithContext(ctx).
		Where("tracking_code = ?", trackingCode).
		Order("attempted_at DESC").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	attempts := make([]*audit.Attempt, 0, len(dtos))
	for _, dto := range dtos {
		a, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}
