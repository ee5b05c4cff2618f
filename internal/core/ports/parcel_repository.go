// Package ports defines the contracts between the warehouse core and its
// infrastructure: persistence of parcels and their history, quality issues and
// refused attempts, transaction boundaries and the snapshot cache.
package ports

import (
	"context"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/parcel"
)

// ParcelRepository persists the Parcel aggregate (the package ledger).
type ParcelRepository interface {
	// Add stores a newly registered parcel. Returns *errs.ObjectAlreadyExistsError
	// when the tracking code is taken.
	Add(ctx context.Context, aggregate *parcel.Parcel) error

	// Get returns the parcel or *errs.ObjectNotFoundError.
	Get(ctx context.Context, code kernel.TrackingCode) (*parcel.Parcel, error)

	// GetForUpdate is Get with a row lock held until the surrounding
	// transaction ends. Concurrent transitions of the same parcel queue up here;
	// transitions of different parcels never wait for each other.
	GetForUpdate(ctx context.Context, code kernel.TrackingCode) (*parcel.Parcel, error)

	// Update writes the aggregate only if the stored version still equals
	// expectedVersion. Returns *errs.VersionConflictError otherwise.
	Update(ctx context.Context, aggregate *parcel.Parcel, expectedVersion int64) error
}
