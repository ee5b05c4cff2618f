package queries

import (
	"errors"
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/pkg/guard"
)

var ErrGetParcelHistoryQueryIsNotConstructed = errors.New(
	"GetParcelHistoryQuery must be created via NewGetParcelHistoryQuery constructor",
)

type GetParcelHistoryQuery struct {
	trackingCode kernel.TrackingCode
	guard        guard.ConstructorGuard
}

func NewGetParcelHistoryQuery(trackingCode string) (GetParcelHistoryQuery, error) {
	code, err := kernel.NewTrackingCode(trackingCode)
	if err != nil {
		return GetParcelHistoryQuery{}, err
	}
	return GetParcelHistoryQuery{trackingCode: code, guard: guard.NewConstructorGuard()}, nil
}

func (q GetParcelHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelHistoryQueryIsNotConstructed)
}

func (q GetParcelHistoryQuery) TrackingCode() kernel.TrackingCode {
	return q.trackingCode
}

// StageIntervalResponse is one row of a parcel's stage history. ExitedAt and
// Duration are nil for the interval the parcel is currently in.
type StageIntervalResponse struct {
	ID          string         `json:"id"`
	Sequence    int64          `json:"sequence"`
	Stage       string         `json:"stage"`
	Operator    string         `json:"operator"`
	EnteredAt   time.Time      `json:"entered_at"`
	ExitedAt    *time.Time     `json:"exited_at"`
	Duration    *time.Duration `json:"duration_ns"`
	Clamped     bool           `json:"clamped"`
	Note        string         `json:"note,omitempty"`
	ChangeField string         `json:"change_field,omitempty"`
	ChangeOld   string         `json:"change_old,omitempty"`
	ChangeNew   string         `json:"change_new,omitempty"`
}
