// Package intervalrepo persists the stage history of parcels in the
// stage_intervals table.
package intervalrepo

import (
	"time"

	"warehouse/internal/core/domain/model/history"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/stage"

	"github.com/google/uuid"
)

// IntervalDTO is one stay of a parcel in a stage. Duration is stored in
// nanoseconds so that closed intervals read back exactly as computed.
type IntervalDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TrackingCode string     `gorm:"type:varchar(64);not null;index;uniqueIndex:ux_stage_intervals_sequence,priority:1"`
	Sequence     int64      `gorm:"not null;uniqueIndex:ux_stage_intervals_sequence,priority:2"`
	Stage        string     `gorm:"type:varchar(32);not null"`
	Operator     string     `gorm:"type:varchar(100);not null"`
	EnteredAt    time.Time  `gorm:"not null"`
	ExitedAt     *time.Time `gorm:"index"`
	DurationNs   *int64     `gorm:"column:duration_ns"`
	Note         string     `gorm:"type:varchar(500);not null;default:''"`
	ChangeField  *string    `gorm:"type:varchar(64)"`
	ChangeOld    *string    `gorm:"type:varchar(255)"`
	ChangeNew    *string    `gorm:"type:varchar(255)"`
	Clamped      bool       `gorm:"not null;default:false"`
}

func (IntervalDTO) TableName() string {
	return "stage_intervals"
}

// OpenIntervalIndexSQL backs the one-open-interval-per-parcel rule in the
// database. AutoMigrate cannot express partial indexes.
const OpenIntervalIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS ux_stage_intervals_open
	ON stage_intervals (tracking_code) WHERE exited_at IS NULL`

func fromDomain(i *history.Interval) IntervalDTO {
	s := i.State()
	dto := IntervalDTO{
		ID:           s.ID.Bytes(),
		TrackingCode: s.TrackingCode.String(),
		Sequence:     s.Sequence,
		Stage:        s.Stage.String(),
		Operator:     s.Operator.String(),
		EnteredAt:    s.EnteredAt.UTC(),
		Note:         s.Note,
		Clamped:      s.Clamped,
	}
	if s.ExitedAt != nil {
		exited := s.ExitedAt.UTC()
		dto.ExitedAt = &exited
	}
	if s.Duration != nil {
		ns := s.Duration.Nanoseconds()
		dto.DurationNs = &ns
	}
	if s.Change != nil {
		dto.ChangeField = &s.Change.Field
		dto.ChangeOld = &s.Change.Old
		dto.ChangeNew = &s.Change.New
	}
	return dto
}

func toDomain(dto IntervalDTO) (*history.Interval, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	code, err := kernel.NewTrackingCode(dto.TrackingCode)
	if err != nil {
		return nil, err
	}
	st, err := stage.Parse(dto.Stage)
	if err != nil {
		return nil, err
	}
	operator, err := kernel.NewOperatorID(dto.Operator)
	if err != nil {
		return nil, err
	}

	s := history.State{
		ID:           id,
		TrackingCode: code,
		Sequence:     dto.Sequence,
		Stage:        st,
		Operator:     operator,
		EnteredAt:    dto.EnteredAt.UTC(),
		Note:         dto.Note,
		Clamped:      dto.Clamped,
	}
	if dto.ExitedAt != nil {
		exited := dto.ExitedAt.UTC()
		s.ExitedAt = &exited
	}
	if dto.DurationNs != nil {
		d := time.Duration(*dto.DurationNs)
		s.Duration = &d
	}
	if dto.ChangeField != nil {
		s.Change = &history.FieldChange{Field: *dto.ChangeField}
		if dto.ChangeOld != nil {
			s.Change.Old = *dto.ChangeOld
		}
		if dto.ChangeNew != nil {
			s.Change.New = *dto.ChangeNew
		}
	}

	return history.RestoreInterval(s)
}
