// Package audit keeps the trail of transition requests that were refused.
// Successful transitions are already visible in the stage history; refused
// ones leave no other trace because their transaction is rolled back.
package audit

import (
	"errors"
	"strings"
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/stage"
	"warehouse/internal/pkg/errs"
)

const (
	maxKindLength    = 32
	maxMessageLength = 1000
)

var ErrAttemptIsNotConstructed = errors.New("Attempt must be created via NewAttempt or RestoreAttempt constructor")

// Attempt is one refused transition request.
type Attempt struct {
	id              kernel.UUID
	trackingCode    string
	operator        string
	targetStage     stage.Stage
	expectedVersion int64
	kind            string
	message         string
	attemptedAt     time.Time

	isConstructed bool
}

type State struct {
	ID              kernel.UUID
	TrackingCode    string
	Operator        string
	TargetStage     stage.Stage
	ExpectedVersion int64
	Kind            string
	Message         string
	AttemptedAt     time.Time
}

// NewAttempt records a refusal. Tracking code and operator are kept as raw
// text since a request may be refused precisely because they are malformed.
// Overlong messages are truncated.
func NewAttempt(
	trackingCode string,
	operator string,
	targetStage stage.Stage,
	expectedVersion int64,
	kind string,
	message string,
	attemptedAt time.Time,
) (*Attempt, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return nil, errs.NewValueIsRequiredError("failure kind")
	}
	if len(kind) > maxKindLength {
		return nil, errs.NewValueIsOutOfRangeError("failure kind length", len(kind), 1, maxKindLength)
	}

	return &Attempt{
		id:              kernel.NewUUID(),
		trackingCode:    truncate(strings.TrimSpace(trackingCode), 64),
		operator:        truncate(strings.TrimSpace(operator), 100),
		targetStage:     targetStage,
		expectedVersion: expectedVersion,
		kind:            kind,
		message:         truncate(message, maxMessageLength),
		attemptedAt:     attemptedAt.UTC(),
		isConstructed:   true,
	}, nil
}

func RestoreAttempt(s State) (*Attempt, error) {
	if err := s.ID.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.Kind) == "" {
		return nil, errs.NewValueIsRequiredError("failure kind")
	}
	return &Attempt{
		id:              s.ID,
		trackingCode:    s.TrackingCode,
		operator:        s.Operator,
		targetStage:     s.TargetStage,
		expectedVersion: s.ExpectedVersion,
		kind:            s.Kind,
		message:         s.Message,
		attemptedAt:     s.AttemptedAt.UTC(),
		isConstructed:   true,
	}, nil
}

func (a *Attempt) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAttemptIsNotConstructed
	}
	return nil
}

func (a *Attempt) ID() kernel.UUID {
	return a.id
}

func (a *Attempt) TrackingCode() string {
	return a.trackingCode
}

func (a *Attempt) Operator() string {
	return a.operator
}

func (a *Attempt) TargetStage() stage.Stage {
	return a.targetStage
}

func (a *Attempt) ExpectedVersion() int64 {
	return a.expectedVersion
}

func (a *Attempt) Kind() string {
	return a.kind
}

func (a *Attempt) Message() string {
	return a.message
}

func (a *Attempt) AttemptedAt() time.Time {
	return a.attemptedAt
}

func (a *Attempt) State() State {
	return State{
		ID:              a.id,
		TrackingCode:    a.trackingCode,
		Operator:        a.operator,
		TargetStage:     a.targetStage,
		ExpectedVersion: a.expectedVersion,
		Kind:            a.kind,
		Message:         a.message,
		AttemptedAt:     a.attemptedAt,
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := 0
	for i := range s {
		if i > limit {
			break
		}
		cut = i
	}
	return s[:cut]
}
