package qualityrepo

import (
	"context"
	"errors"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/quality"
	"warehouse/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormQualityIssueRepository implements ports.QualityIssueRepository using GORM.
type GormQualityIssueRepository struct {
	db *gorm.DB
}

func NewGormQualityIssueRepository(db *gorm.DB) *GormQualityIssueRepository {
	return &GormQualityIssueRepository{db: db}
}

func (r *GormQualityIssueRepository) Add(ctx context.Context, issue *quality.Issue) error {
	if err := issue.Validate(); err != nil {
		return err
	}

	dto := fromDomain(issue)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update persists the resolution of an issue.
func (r *GormQualityIssueRepository) Update(ctx context.Context, issue *quality.Issue) error {
	if err := issue.Validate(); err != nil {
		return err
	}

	dto := fromDomain(issue)
	result := r.db.WithContext(ctx).
		Model(&IssueDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"resolved_by": dto.ResolvedBy,
			"resolved_at": dto.ResolvedAt,
			"resolution":  dto.Resolution,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("quality issue", dto.ID.String())
	}
	return nil
}

func (r *GormQualityIssueRepository) GetLatestUnresolved(ctx context.Context, code kernel.TrackingCode) (*quality.Issue, error) {
	if err := code.Validate(); err != nil {
		return nil, err
	}

	var dto IssueDTO
	err := r.db.WithContext(ctx).
		Where("tracking_code = ? AND resolved_at IS NULL", code.String()).
		Order("parcel_version DESC, reported_at DESC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("unresolved quality issue", code.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormQualityIssueRepository) ListByParcel(ctx context.Context, code kernel.TrackingCode) ([]*quality.Issue, error) {
	if err := code.Validate(); err != nil {
		return nil, err
	}

	var dtos []IssueDTO
	err := r.db.WithContext(ctx).
		Where("tracking_code = ?", code.String()).
		Order("reported_at, parcel_version").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	issues := make([]*quality.Issue, 0, len(dtos))
	for _, dto := range dtos {
		i, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		issues = append(issues, i)
	}
	return issues, nil
}
