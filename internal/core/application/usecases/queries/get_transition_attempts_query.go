package queries

import (
	"errors"
	"strings"
	"time"

	"warehouse/internal/pkg/errs"
	"warehouse/internal/pkg/guard"
)

const (
	DefaultAttemptsLimit = 50
	MaxAttemptsLimit     = 500
)

var ErrGetTransitionAttemptsQueryIsNotConstructed = errors.New(
	"GetTransitionAttemptsQuery must be created via NewGetTransitionAttemptsQuery constructor",
)

// GetTransitionAttemptsQuery reads the audit trail of refused transitions.
// The tracking code is taken verbatim: refused requests may carry codes that
// never passed validation and those are audited too.
type GetTransitionAttemptsQuery struct {
	trackingCode string
	limit        int
	guard        guard.ConstructorGuard
}

// NewGetTransitionAttemptsQuery uses DefaultAttemptsLimit when limit is zero.
func NewGetTransitionAttemptsQuery(trackingCode string, limit int) (GetTransitionAttemptsQuery, error) {
	trackingCode = strings.TrimSpace(trackingCode)
	if trackingCode == "" {
		return GetTransitionAttemptsQuery{}, errs.NewValueIsRequiredError("tracking code")
	}
	if limit == 0 {
		limit = DefaultAttemptsLimit
	}
	if limit < 1 || limit > MaxAttemptsLimit {
		return GetTransitionAttemptsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxAttemptsLimit)
	}
	return GetTransitionAttemptsQuery{
		trackingCode: trackingCode,
		limit:        limit,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (q GetTransitionAttemptsQuery) Validate() error {
	return q.guard.Validate(ErrGetTransitionAttemptsQueryIsNotConstructed)
}

func (q GetTransitionAttemptsQuery) TrackingCode() string {
	return q.trackingCode
}

func (q GetTransitionAttemptsQuery) Limit() int {
	return q.limit
}

type TransitionAttemptResponse struct {
	ID              string    `json:"id"`
	Operator        string    `json:"operator"`
	TargetStage     string    `json:"target_stage"`
	ExpectedVersion int64     `json:"expected_version"`
	Kind            string    `json:"kind"`
	Message         string    `json:"message"`
	AttemptedAt     time.Time `json:"attempted_at"`
}
