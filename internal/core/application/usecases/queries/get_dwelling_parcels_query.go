package queries

import (
	"errors"
	"time"

	"warehouse/internal/pkg/errs"
	"warehouse/internal/pkg/guard"
)

var ErrGetDwellingParcelsQueryIsNotConstructed = errors.New(
	"GetDwellingParcelsQuery must be created via NewGetDwellingParcelsQuery constructor",
)

// GetDwellingParcelsQuery finds parcels of non-terminal stages that entered
// their current stage before enteredBefore.
type GetDwellingParcelsQuery struct {
	enteredBefore time.Time
	limit         int
	guard         guard.ConstructorGuard
}

func NewGetDwellingParcelsQuery(enteredBefore time.Time, limit int) (GetDwellingParcelsQuery, error) {
	if enteredBefore.IsZero() {
		return GetDwellingParcelsQuery{}, errs.NewValueIsRequiredError("entered before")
	}
	if limit < 1 {
		return GetDwellingParcelsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}
	return GetDwellingParcelsQuery{
		enteredBefore: enteredBefore.UTC(),
		limit:         limit,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (q GetDwellingParcelsQuery) Validate() error {
	return q.guard.Validate(ErrGetDwellingParcelsQueryIsNotConstructed)
}

func (q GetDwellingParcelsQuery) EnteredBefore() time.Time {
	return q.enteredBefore
}

func (q GetDwellingParcelsQuery) Limit() int {
	return q.limit
}

type DwellingParcelResponse struct {
	TrackingCode string
	Stage        string
	Priority     string
	Operator     string
	EnteredAt    time.Time
}
