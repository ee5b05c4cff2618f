package commands

import (
	"context"
	"errors"

	"warehouse/internal/core/domain/model/history"
	"warehouse/internal/core/domain/model/parcel"
	"warehouse/internal/core/domain/model/quality"
	"warehouse/internal/core/domain/model/stage"
	"warehouse/internal/pkg/errs"
)

var (
	// ErrTimeout means the transition did not commit within the configured
	// bound. Nothing was written; the same request may be retried as is.
	ErrTimeout = errors.New("transition timed out")

	// ErrHistoryOutOfSync means the open interval belongs to a different stage
	// than the ledger. Like the other history errors it always indicates a bug.
	ErrHistoryOutOfSync = errors.New("open stage interval does not match parcel stage")
)

// FailureKind names the category of a failed warehouse operation. The values
// are stable: they are stored in the audit trail and sent to stations.
type FailureKind string

const (
	FailureNone                  FailureKind = ""
	FailureNotFound              FailureKind = "NotFound"
	FailureDuplicateTrackingCode FailureKind = "DuplicateTrackingCode"
	FailureVersionConflict       FailureKind = "VersionConflict"
	FailureIllegalTransition     FailureKind = "IllegalTransition"
	FailureReworkLimitReached    FailureKind = "ReworkLimitReached"
	FailureNoUnresolvedIssue     FailureKind = "NoUnresolvedIssue"
	FailureInvariantViolation    FailureKind = "InvariantViolation"
	FailureValidation            FailureKind = "Validation"
	FailureTimeout               FailureKind = "Timeout"
	FailureCanceled              FailureKind = "Canceled"
	FailureInternal              FailureKind = "Internal"
)

// Classify maps an error returned by a command handler to its kind.
// Order matters: a timeout wraps whatever the database returned.
func Classify(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrTimeout):
		return FailureTimeout
	case errors.Is(err, context.Canceled):
		return FailureCanceled
	case errors.Is(err, history.ErrOpenIntervalExists),
		errors.Is(err, history.ErrNoOpenInterval),
		errors.Is(err, history.ErrIntervalAlreadyClosed),
		errors.Is(err, ErrHistoryOutOfSync):
		return FailureInvariantViolation
	case errors.Is(err, errs.ErrVersionConflict):
		return FailureVersionConflict
	case errors.Is(err, errs.ErrObjectNotFound):
		return FailureNotFound
	case errors.Is(err, errs.ErrObjectAlreadyExists):
		return FailureDuplicateTrackingCode
	case errors.Is(err, stage.ErrIllegalTransition):
		return FailureIllegalTransition
	case errors.Is(err, parcel.ErrReworkLimitReached):
		return FailureReworkLimitReached
	case errors.Is(err, quality.ErrNoUnresolvedIssue):
		return FailureNoUnresolvedIssue
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return FailureValidation
	default:
		return FailureInternal
	}
}

// IsRetryable reports whether the caller should retry automatically:
// a Timeout with the same request, a VersionConflict after reloading.
func IsRetryable(err error) bool {
	switch Classify(err) {
	case FailureTimeout, FailureVersionConflict:
		return true
	default:
		return false
	}
}
