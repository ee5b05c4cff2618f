package services

import (
	"context"
	"errors"
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/parcel"
	"warehouse/internal/core/domain/model/stage"
	"warehouse/internal/core/ports"
	"warehouse/internal/pkg/errs"
)

// Ledger is the authoritative record of every parcel's current stage and version.
//
// Example usage:
//
//	ledger := services.NewLedger(uow.ParcelRepository())
//	p, err := ledger.Lock(ctx, code)
//	if err != nil {
//	    return err
//	}
//	if err = ledger.ApplyTransition(ctx, p, expectedVersion, stage.Processing, operator, now); err != nil {
//	    return err
//	}
type Ledger struct {
	repo ports.ParcelRepository
}

func NewLedger(repo ports.ParcelRepository) Ledger {
	return Ledger{repo: repo}
}

// Create stores a freshly registered parcel.
//
// Returns:
//   - *errs.ObjectAlreadyExistsError if the tracking code is already taken
func (l Ledger) Create(ctx context.Context, p *parcel.Parcel) error {
	if err := p.Validate(); err != nil {
		return err
	}

	_, err := l.repo.Get(ctx, p.TrackingCode())
	switch {
	case err == nil:
		return errs.NewObjectAlreadyExistsError("parcel", p.TrackingCode().String())
	case !errors.Is(err, errs.ErrObjectNotFound):
		return err
	}

	return l.repo.Add(ctx, p)
}

// Get returns the parcel or *errs.ObjectNotFoundError.
func (l Ledger) Get(ctx context.Context, code kernel.TrackingCode) (*parcel.Parcel, error) {
	if err := code.Validate(); err != nil {
		return nil, err
	}
	return l.repo.Get(ctx, code)
}

// Lock is Get holding the parcel's row lock until the transaction ends.
func (l Ledger) Lock(ctx context.Context, code kernel.TrackingCode) (*parcel.Parcel, error) {
	if err := code.Validate(); err != nil {
		return nil, err
	}
	return l.repo.GetForUpdate(ctx, code)
}

// ApplyTransition moves p to target and persists it conditionally on
// expectedVersion still being the stored version.
//
// Returns:
//   - *errs.VersionConflictError if expectedVersion is stale, in memory or in storage
//   - *stage.IllegalTransitionError if the catalog has no such move
func (l Ledger) ApplyTransition(
	ctx context.Context,
	p *parcel.Parcel,
	expectedVersion int64,
	target stage.Stage,
	operator kernel.OperatorID,
	at time.Time,
) error {
	if err := p.ApplyTransition(expectedVersion, target, operator, at); err != nil {
		return err
	}
	return l.repo.Update(ctx, p, expectedVersion)
}
