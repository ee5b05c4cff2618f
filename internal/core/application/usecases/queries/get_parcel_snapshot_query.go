// Package queries contains the read side of the warehouse: the current
// snapshot of a parcel, its stage history, its quality issues, the refused
// attempts and the list of parcels dwelling too long in one stage.
// Handlers read with SQL directly and never go through the aggregates.
package queries

import (
	"errors"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/pkg/guard"
)

var ErrGetParcelSnapshotQueryIsNotConstructed = errors.New(
	"GetParcelSnapshotQuery must be created via NewGetParcelSnapshotQuery constructor",
)

// GetParcelSnapshotQuery asks where a parcel is right now.
//
// Example:
//
//	query, err := NewGetParcelSnapshotQuery("SF-2024-000131")
//	if err != nil {
//	    return err
//	}
//	snapshot, err := handler.Handle(ctx, query)
//	fmt.Printf("%s is in %s since %s\n", snapshot.TrackingCode, snapshot.Stage, snapshot.StageEnteredAt)
type GetParcelSnapshotQuery struct {
	trackingCode kernel.TrackingCode
	guard        guard.ConstructorGuard
}

func NewGetParcelSnapshotQuery(trackingCode string) (GetParcelSnapshotQuery, error) {
	code, err := kernel.NewTrackingCode(trackingCode)
	if err != nil {
		return GetParcelSnapshotQuery{}, err
	}
	return GetParcelSnapshotQuery{trackingCode: code, guard: guard.NewConstructorGuard()}, nil
}

func (q GetParcelSnapshotQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelSnapshotQueryIsNotConstructed)
}

func (q GetParcelSnapshotQuery) TrackingCode() kernel.TrackingCode {
	return q.trackingCode
}
