package ports

import (
	"context"

	"warehouse/internal/core/domain/model/history"
	"warehouse/internal/core/domain/model/kernel"
)

// IntervalRepository persists the stage history of parcels.
type IntervalRepository interface {
	// Add stores a new open interval. Returns history.ErrOpenIntervalExists when
	// the parcel already has one.
	Add(ctx context.Context, interval *history.Interval) error

	// GetOpen returns the parcel's open interval or *errs.ObjectNotFoundError.
	GetOpen(ctx context.Context, code kernel.TrackingCode) (*history.Interval, error)

	// Close persists the exit time and duration of a closed interval.
	Close(ctx context.Context, interval *history.Interval) error

	// ListByParcel returns every interval of the parcel, oldest first.
	ListByParcel(ctx context.Context, code kernel.TrackingCode) ([]*history.Interval, error)
}
