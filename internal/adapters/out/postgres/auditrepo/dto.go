// Package auditrepo persists refused transition attempts.
package auditrepo

import (
	"time"

	"warehouse/internal/core/domain/model/audit"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/stage"

	"github.com/google/uuid"
)

type AttemptDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	TrackingCode    string    `gorm:"type:varchar(64);not null;index"`
	Operator        string    `gorm:"type:varchar(100);not null"`
	TargetStage     string    `gorm:"type:varchar(32);not null"`
	ExpectedVersion int64     `gorm:"not null"`
	Kind            string    `gorm:"type:varchar(32);not null"`
	Message         string    `gorm:"type:varchar(1000);not null"`
	AttemptedAt     time.Time `gorm:"not null;index"`
}

func (AttemptDTO) TableName() string {
	return "transition_attempts"
}

func fromDomain(a *audit.Attempt) AttemptDTO {
	s := a.State()
	return AttemptDTO{
		ID:              s.ID.Bytes(),
		TrackingCode:    s.TrackingCode,
		Operator:        s.Operator,
		TargetStage:     s.TargetStage.String(),
		ExpectedVersion: s.ExpectedVersion,
		Kind:            s.Kind,
		Message:         s.Message,
		AttemptedAt:     s.AttemptedAt.UTC(),
	}
}

// toDomain keeps unparseable stage names as stage.Unknown; refused requests
// are audited precisely when their input was wrong.
func toDomain(dto AttemptDTO) (*audit.Attempt, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	target, _ := stage.Parse(dto.TargetStage)

	return audit.RestoreAttempt(audit.State{
		ID:              id,
		TrackingCode:    dto.TrackingCode,
		Operator:        dto.Operator,
		TargetStage:     target,
		ExpectedVersion: dto.ExpectedVersion,
		Kind:            dto.Kind,
		Message:         dto.Message,
		AttemptedAt:     dto.AttemptedAt.UTC(),
	})
}
