// Package qualityrepo persists quality issues raised by failed checks.
package qualityrepo

import (
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/quality"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type IssueDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TrackingCode  string          `gorm:"type:varchar(64);not null;index"`
	ParcelVersion int64           `gorm:"not null"`
	IssueType     string          `gorm:"type:varchar(32);not null"`
	Severity      string          `gorm:"type:varchar(16);not null"`
	Description   string          `gorm:"type:varchar(1000);not null"`
	Cost          decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ReportedBy    string          `gorm:"type:varchar(100);not null"`
	ReportedAt    time.Time       `gorm:"not null"`
	ResolvedBy    *string         `gorm:"type:varchar(100)"`
	ResolvedAt    *time.Time
	Resolution    string `gorm:"type:varchar(1000);not null;default:''"`
}

func (IssueDTO) TableName() string {
	return "quality_issues"
}

func fromDomain(i *quality.Issue) IssueDTO {
	s := i.State()
	dto := IssueDTO{
		ID:            s.ID.Bytes(),
		TrackingCode:  s.TrackingCode.String(),
		ParcelVersion: s.ParcelVersion,
		IssueType:     s.IssueType.String(),
		Severity:      s.Severity.String(),
		Description:   s.Description,
		Cost:          s.Cost,
		ReportedBy:    s.ReportedBy.String(),
		ReportedAt:    s.ReportedAt.UTC(),
		Resolution:    s.Resolution,
	}
	if s.ResolvedBy != nil {
		resolver := s.ResolvedBy.String()
		dto.ResolvedBy = &resolver
	}
	if s.ResolvedAt != nil {
		at := s.ResolvedAt.UTC()
		dto.ResolvedAt = &at
	}
	return dto
}

func toDomain(dto IssueDTO) (*quality.Issue, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	code, err := kernel.NewTrackingCode(dto.TrackingCode)
	if err != nil {
		return nil, err
	}
	issueType, err := quality.ParseIssueType(dto.IssueType)
	if err != nil {
		return nil, err
	}
	severity, err := quality.ParseSeverity(dto.Severity)
	if err != nil {
		return nil, err
	}
	reporter, err := kernel.NewOperatorID(dto.ReportedBy)
	if err != nil {
		return nil, err
	}

	s := quality.State{
		ID:            id,
		TrackingCode:  code,
		ParcelVersion: dto.ParcelVersion,
		IssueType:     issueType,
		Severity:      severity,
		Description:   dto.Description,
		Cost:          dto.Cost,
		ReportedBy:    reporter,
		ReportedAt:    dto.ReportedAt.UTC(),
		Resolution:    dto.Resolution,
	}
	if dto.ResolvedBy != nil {
		resolver, resolverErr := kernel.NewOperatorID(*dto.ResolvedBy)
		if resolverErr != nil {
			return nil, resolverErr
		}
		s.ResolvedBy = &resolver
	}
	if dto.ResolvedAt != nil {
		at := dto.ResolvedAt.UTC()
		s.ResolvedAt = &at
	}

	return quality.RestoreIssue(s)
}
