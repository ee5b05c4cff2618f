package stage

import (
	"errors"
	"fmt"
)

// ErrIllegalTransition is the sentinel behind every IllegalTransitionError.
var ErrIllegalTransition = errors.New("illegal stage transition")

// IllegalTransitionError names the rejected move. It is not retryable without
// changing the request.
type IllegalTransitionError struct {
	From Stage
	To   Stage
}

func (e *IllegalTransitionError) Error() string {
	if IsTerminal(e.From) {
		return fmt.Sprintf("%s: %s is terminal, cannot move to %s", ErrIllegalTransition, e.From, e.To)
	}
	return fmt.Sprintf("%s: %s -> %s", ErrIllegalTransition, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// forward holds the production moves; cancellation is added for every
// non-terminal stage by IsValidTransition.
var forward = map[Stage][]Stage{
	Intake:         {Processing},
	Processing:     {FabricWork},
	FabricWork:     {QualityCheck},
	QualityCheck:   {QualityPassed, ReworkRequired},
	ReworkRequired: {Processing},
	QualityPassed:  {ReadyToShip},
	ReadyToShip:    {Shipped},
}

// IsTerminal reports whether s has no outgoing transitions.
func IsTerminal(s Stage) bool {
	return s == Shipped || s == Cancelled
}

// IsReworkTarget reports whether entering s means a quality check failed and a
// defect must be recorded.
func IsReworkTarget(s Stage) bool {
	return s == ReworkRequired
}

// IsValidTransition reports whether the catalog contains from -> to.
func IsValidTransition(from, to Stage) bool {
	if from.Validate() != nil || to.Validate() != nil || IsTerminal(from) {
		return false
	}
	if to == Cancelled {
		return true
	}
	for _, next := range forward[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition is IsValidTransition returning an IllegalTransitionError.
func CheckTransition(from, to Stage) error {
	if !IsValidTransition(from, to) {
		return &IllegalTransitionError{From: from, To: to}
	}
	return nil
}

// Transitions lists the legal targets from s, for stations that offer the
// operator only the moves they may make.
func Transitions(from Stage) []Stage {
	if from.Validate() != nil || IsTerminal(from) {
		return nil
	}
	next := make([]Stage, 0, len(forward[from])+1)
	next = append(next, forward[from]...)
	return append(next, Cancelled)
}

// IsReworkCompletion reports whether from -> to closes a rework loop, which
// resolves the parcel's latest open quality issue.
func IsReworkCompletion(from, to Stage) bool {
	return from == ReworkRequired && to == Processing
}
