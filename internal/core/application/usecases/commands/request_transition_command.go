package commands

import (
	"errors"
	"strings"

	"warehouse/internal/core/domain/model/history"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/stage"
	"warehouse/internal/core/domain/services"
	"warehouse/internal/pkg/errs"
	"warehouse/internal/pkg/guard"
)

var ErrRequestTransitionCommandIsNotConstructed = errors.New(
	"RequestTransitionCommand must be created via NewRequestTransitionCommand constructor",
)

// TransitionRequest is the raw input of a station asking to move a parcel.
type TransitionRequest struct {
	TrackingCode    string
	ExpectedVersion int64
	TargetStage     string
	Operator        string
	Note            string

	// Defect is required when the target is ReworkRequired and rejected otherwise.
	Defect *services.Defect

	// Resolution describes the rework when leaving ReworkRequired. The note is
	// used when it is empty.
	Resolution string

	Change *history.FieldChange
}

// RequestTransitionCommand asks to move one parcel to a target stage, given
// the version the station last read.
//
// Example:
//
//	cmd, err := NewRequestTransitionCommand(TransitionRequest{
//	    TrackingCode:    "SF-2024-000131",
//	    ExpectedVersion: 4,
//	    TargetStage:     "QualityPassed",
//	    Operator:        "qc-lead-3",
//	})
type RequestTransitionCommand struct { //nolint:recvcheck //using for validation
	raw             TransitionRequest
	trackingCode    kernel.TrackingCode
	expectedVersion int64
	target          stage.Stage
	operator        kernel.OperatorID
	note            string
	defect          *services.Defect
	resolution      string
	change          *history.FieldChange

	guard guard.ConstructorGuard
}

func NewRequestTransitionCommand(req TransitionRequest) (RequestTransitionCommand, error) {
	cmd := RequestTransitionCommand{
		raw:        req,
		note:       strings.TrimSpace(req.Note),
		resolution: strings.TrimSpace(req.Resolution),
		change:     req.Change,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTrackingCode(req.TrackingCode),
		cmd.setExpectedVersion(req.ExpectedVersion),
		cmd.setTarget(req.TargetStage),
		cmd.setOperator(req.Operator),
	); err != nil {
		return RequestTransitionCommand{}, err
	}
	if err := cmd.setDefect(req.Defect); err != nil {
		return RequestTransitionCommand{}, err
	}

	return cmd, nil
}

func (c RequestTransitionCommand) Validate() error {
	return c.guard.Validate(ErrRequestTransitionCommandIsNotConstructed)
}

func (c RequestTransitionCommand) TrackingCode() kernel.TrackingCode {
	return c.trackingCode
}

func (c RequestTransitionCommand) ExpectedVersion() int64 {
	return c.expectedVersion
}

func (c RequestTransitionCommand) Target() stage.Stage {
	return c.target
}

func (c RequestTransitionCommand) Operator() kernel.OperatorID {
	return c.operator
}

func (c RequestTransitionCommand) Note() string {
	return c.note
}

func (c RequestTransitionCommand) Defect() *services.Defect {
	return c.defect
}

// Resolution falls back to the note when no explicit resolution was given.
func (c RequestTransitionCommand) Resolution() string {
	if c.resolution != "" {
		return c.resolution
	}
	return c.note
}

func (c RequestTransitionCommand) Change() *history.FieldChange {
	return c.change
}

// Request returns the raw input the command was built from.
func (c RequestTransitionCommand) Request() TransitionRequest {
	return c.raw
}

func (c *RequestTransitionCommand) setTrackingCode(raw string) error {
	code, err := kernel.NewTrackingCode(raw)
	if err != nil {
		return err
	}
	c.trackingCode = code
	return nil
}

func (c *RequestTransitionCommand) setExpectedVersion(v int64) error {
	if v < 1 {
		return errs.NewValueIsOutOfRangeError("expected version", v, 1, "unbounded")
	}
	c.expectedVersion = v
	return nil
}

func (c *RequestTransitionCommand) setTarget(raw string) error {
	target, err := stage.Parse(raw)
	if err != nil {
		return err
	}
	c.target = target
	return nil
}

func (c *RequestTransitionCommand) setOperator(raw string) error {
	operator, err := kernel.NewOperatorID(raw)
	if err != nil {
		return err
	}
	c.operator = operator
	return nil
}

func (c *RequestTransitionCommand) setDefect(defect *services.Defect) error {
	rework := stage.IsReworkTarget(c.target)
	switch {
	case rework && defect == nil:
		return errs.NewValueIsRequiredError("quality defect for " + c.target.String())
	case !rework && defect != nil:
		return errs.NewValueIsInvalidErrorWithCause("quality defect",
			errors.New("a defect can only be reported when moving to "+stage.ReworkRequired.String()))
	case defect != nil:
		d := *defect
		c.defect = &d
	}
	return nil
}
