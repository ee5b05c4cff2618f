// Package parcelrepo persists the Parcel aggregate, the package ledger, in
// the parcels table.
package parcelrepo

import (
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/parcel"
	"warehouse/internal/core/domain/model/stage"
)

// ParcelDTO is one row of the parcels table. Version is the optimistic
// concurrency token checked by every update.
type ParcelDTO struct {
	TrackingCode  string    `gorm:"type:varchar(64);primaryKey"`
	OrderRef      string    `gorm:"type:varchar(64);not null"`
	CustomerRef   string    `gorm:"type:varchar(128);not null"`
	ItemCount     int       `gorm:"not null"`
	Priority      string    `gorm:"type:varchar(16);not null"`
	Stage         string    `gorm:"type:varchar(32);not null;index"`
	Version       int64     `gorm:"not null"`
	ReworkCount   int       `gorm:"not null;default:0"`
	CreatedBy     string    `gorm:"type:varchar(100);not null"`
	LastUpdatedBy string    `gorm:"type:varchar(100);not null"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (ParcelDTO) TableName() string {
	return "parcels"
}

func fromDomain(p *parcel.Parcel) ParcelDTO {
	s := p.State()
	return ParcelDTO{
		TrackingCode:  s.TrackingCode.String(),
		OrderRef:      s.OrderRef,
		CustomerRef:   s.CustomerRef,
		ItemCount:     s.ItemCount,
		Priority:      s.Priority.String(),
		Stage:         s.Stage.String(),
		Version:       s.Version,
		ReworkCount:   s.ReworkCount,
		CreatedBy:     s.CreatedBy.String(),
		LastUpdatedBy: s.LastUpdatedBy.String(),
		CreatedAt:     s.CreatedAt.UTC(),
		UpdatedAt:     s.UpdatedAt.UTC(),
	}
}

// toDomain rebuilds the aggregate through RestoreParcel, so a row that no
// longer satisfies the aggregate rules surfaces as an error instead of a
// half valid parcel.
func toDomain(dto ParcelDTO) (*parcel.Parcel, error) {
	code, err := kernel.NewTrackingCode(dto.TrackingCode)
	if err != nil {
		return nil, err
	}
	priority, err := parcel.ParsePriority(dto.Priority)
	if err != nil {
		return nil, err
	}
	st, err := stage.Parse(dto.Stage)
	if err != nil {
		return nil, err
	}
	createdBy, err := kernel.NewOperatorID(dto.CreatedBy)
	if err != nil {
		return nil, err
	}
	lastUpdatedBy, err := kernel.NewOperatorID(dto.LastUpdatedBy)
	if err != nil {
		return nil, err
	}

	return parcel.RestoreParcel(parcel.State{
		TrackingCode:  code,
		OrderRef:      dto.OrderRef,
		CustomerRef:   dto.CustomerRef,
		ItemCount:     dto.ItemCount,
		Priority:      priority,
		Stage:         st,
		Version:       dto.Version,
		ReworkCount:   dto.ReworkCount,
		CreatedBy:     createdBy,
		LastUpdatedBy: lastUpdatedBy,
		CreatedAt:     dto.CreatedAt.UTC(),
		UpdatedAt:     dto.UpdatedAt.UTC(),
	})
}
