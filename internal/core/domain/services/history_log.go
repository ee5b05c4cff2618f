package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"warehouse/internal/core/domain/model/history"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/stage"
	"warehouse/internal/core/ports"
	"warehouse/internal/pkg/errs"
)

// HistoryLog keeps the interval history of parcels. Writes are only made by
// the transition flow and by parcel registration.
type HistoryLog struct {
	repo ports.IntervalRepository
}

func NewHistoryLog(repo ports.IntervalRepository) HistoryLog {
	return HistoryLog{repo: repo}
}

// OpenInterval starts the parcel's stay in s.
//
// Returns history.ErrOpenIntervalExists if the parcel still has an open
// interval; that is always a bug in the caller.
func (h HistoryLog) OpenInterval(
	ctx context.Context,
	code kernel.TrackingCode,
	sequence int64,
	s stage.Stage,
	operator kernel.OperatorID,
	at time.Time,
	note string,
	change *history.FieldChange,
) (*history.Interval, error) {
	open, err := h.repo.GetOpen(ctx, code)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s is still in %s", history.ErrOpenIntervalExists, code, open.Stage())
	case !errors.Is(err, errs.ErrObjectNotFound):
		return nil, err
	}

	interval, err := history.OpenInterval(code, sequence, s, operator, at, note, change)
	if err != nil {
		return nil, err
	}
	if err = h.repo.Add(ctx, interval); err != nil {
		return nil, err
	}
	return interval, nil
}

// CloseOpenInterval ends the parcel's current stay at exitedAt. clamped
// reports a negative measured duration that was stored as zero.
//
// Returns history.ErrNoOpenInterval if there is nothing to close.
func (h HistoryLog) CloseOpenInterval(
	ctx context.Context,
	code kernel.TrackingCode,
	exitedAt time.Time,
) (closed *history.Interval, clamped bool, err error) {
	closed, err = h.repo.GetOpen(ctx, code)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, fmt.Errorf("%w: %s", history.ErrNoOpenInterval, code)
	}
	if err != nil {
		return nil, false, err
	}

	if clamped, err = closed.Close(exitedAt); err != nil {
		return nil, false, err
	}
	if err = h.repo.Close(ctx, closed); err != nil {
		return nil, false, err
	}
	return closed, clamped, nil
}

// History returns all intervals of the parcel in the order they were entered.
func (h HistoryLog) History(ctx context.Context, code kernel.TrackingCode) ([]*history.Interval, error) {
	intervals, err := h.repo.ListByParcel(ctx, code)
	if err != nil {
		return nil, err
	}
	history.SortChronologically(intervals)
	return intervals, nil
}
