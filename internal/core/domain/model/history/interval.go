package history

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/stage"
	"warehouse/internal/pkg/errs"
)

const (
	maxNoteLength      = 500
	maxFieldNameLength = 64
	maxFieldValueLen   = 255
)

var (
	ErrIntervalIsNotConstructed = errors.New("Interval must be created via OpenInterval or RestoreInterval constructor")

	// ErrOpenIntervalExists means a second interval was about to be opened for
	// a parcel that already has one. It always indicates a bug.
	ErrOpenIntervalExists = errors.New("parcel already has an open stage interval")

	// ErrNoOpenInterval means the parcel has no interval to close. It always
	// indicates a bug or a corrupted history.
	ErrNoOpenInterval = errors.New("parcel has no open stage interval")

	ErrIntervalAlreadyClosed = errors.New("stage interval is already closed")
)

// FieldChange is an optional old/new value pair attached to the interval a
// transition opens, for stations that edit a parcel attribute while moving it.
type FieldChange struct {
	Field string
	Old   string
	New   string
}

func (c FieldChange) Validate() error {
	field := strings.TrimSpace(c.Field)
	if field == "" {
		return errs.NewValueIsRequiredError("changed field name")
	}
	if len(field) > maxFieldNameLength {
		return errs.NewValueIsOutOfRangeError("changed field name length", len(field), 1, maxFieldNameLength)
	}
	if len(c.Old) > maxFieldValueLen || len(c.New) > maxFieldValueLen {
		return errs.NewValueIsOutOfRangeError("changed field value length", max(len(c.Old), len(c.New)), 0, maxFieldValueLen)
	}
	return nil
}

// Interval is one stay of a parcel in one stage.
type Interval struct {
	id           kernel.UUID
	trackingCode kernel.TrackingCode
	sequence     int64
	stage        stage.Stage
	operator     kernel.OperatorID
	enteredAt    time.Time
	exitedAt     *time.Time
	duration     *time.Duration
	note         string
	change       *FieldChange
	clamped      bool

	isConstructed bool
}

// State is the persisted form of an interval.
type State struct {
	ID           kernel.UUID
	TrackingCode kernel.TrackingCode
	Sequence     int64
	Stage        stage.Stage
	Operator     kernel.OperatorID
	EnteredAt    time.Time
	ExitedAt     *time.Time
	Duration     *time.Duration
	Note         string
	Change       *FieldChange
	Clamped      bool
}

// OpenInterval starts a stay in s at the given time. sequence is the parcel
// version the stay starts at; it orders intervals that share an entry time.
func OpenInterval(
	trackingCode kernel.TrackingCode,
	sequence int64,
	s stage.Stage,
	operator kernel.OperatorID,
	enteredAt time.Time,
	note string,
	change *FieldChange,
) (*Interval, error) {
	note = strings.TrimSpace(note)

	var problems []error
	problems = append(problems,
		trackingCode.Validate(),
		s.Validate(),
		operator.Validate(),
		validateSequence(sequence),
		validateNote(note),
	)
	if change != nil {
		problems = append(problems, change.Validate())
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	var changeCopy *FieldChange
	if change != nil {
		c := *change
		c.Field = strings.TrimSpace(c.Field)
		changeCopy = &c
	}

	return &Interval{
		id:            kernel.NewUUID(),
		trackingCode:  trackingCode,
		sequence:      sequence,
		stage:         s,
		operator:      operator,
		enteredAt:     enteredAt.UTC(),
		note:          note,
		change:        changeCopy,
		isConstructed: true,
	}, nil
}

// RestoreInterval rebuilds an interval from storage.
func RestoreInterval(s State) (*Interval, error) {
	problems := []error{
		s.ID.Validate(),
		s.TrackingCode.Validate(),
		s.Stage.Validate(),
		s.Operator.Validate(),
		validateSequence(s.Sequence),
	}
	if (s.ExitedAt == nil) != (s.Duration == nil) {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("interval",
			fmt.Errorf("exit time and duration must both be set or both be empty")))
	}
	if s.Duration != nil && *s.Duration < 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("interval duration", *s.Duration, 0, "unbounded"))
	}
	if s.Change != nil {
		problems = append(problems, s.Change.Validate())
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	i := &Interval{
		id:            s.ID,
		trackingCode:  s.TrackingCode,
		sequence:      s.Sequence,
		stage:         s.Stage,
		operator:      s.Operator,
		enteredAt:     s.EnteredAt.UTC(),
		note:          s.Note,
		clamped:       s.Clamped,
		isConstructed: true,
	}
	if s.ExitedAt != nil {
		exit := s.ExitedAt.UTC()
		d := *s.Duration
		i.exitedAt = &exit
		i.duration = &d
	}
	if s.Change != nil {
		c := *s.Change
		i.change = &c
	}
	return i, nil
}

func (i *Interval) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrIntervalIsNotConstructed
	}
	return nil
}

// Close ends the stay at exitedAt. A negative duration caused by clock skew
// between stations is stored as zero and reported through clamped.
func (i *Interval) Close(exitedAt time.Time) (clamped bool, err error) {
	if err = i.Validate(); err != nil {
		return false, err
	}
	if !i.IsOpen() {
		return false, fmt.Errorf("%w: %s in %s", ErrIntervalAlreadyClosed, i.trackingCode, i.stage)
	}

	exit := exitedAt.UTC()
	d := exit.Sub(i.enteredAt)
	if d < 0 {
		d = 0
		clamped = true
	}

	i.exitedAt = &exit
	i.duration = &d
	i.clamped = clamped
	return clamped, nil
}

func (i *Interval) IsOpen() bool {
	return i.exitedAt == nil
}

func (i *Interval) ID() kernel.UUID {
	return i.id
}

func (i *Interval) TrackingCode() kernel.TrackingCode {
	return i.trackingCode
}

func (i *Interval) Sequence() int64 {
	return i.sequence
}

func (i *Interval) Stage() stage.Stage {
	return i.stage
}

func (i *Interval) Operator() kernel.OperatorID {
	return i.operator
}

func (i *Interval) EnteredAt() time.Time {
	return i.enteredAt
}

// ExitedAt is nil while the interval is open.
func (i *Interval) ExitedAt() *time.Time {
	if i.exitedAt == nil {
		return nil
	}
	t := *i.exitedAt
	return &t
}

// Duration is nil while the interval is open.
func (i *Interval) Duration() *time.Duration {
	if i.duration == nil {
		return nil
	}
	d := *i.duration
	return &d
}

func (i *Interval) Note() string {
	return i.note
}

func (i *Interval) Change() *FieldChange {
	if i.change == nil {
		return nil
	}
	c := *i.change
	return &c
}

func (i *Interval) Clamped() bool {
	return i.clamped
}

func (i *Interval) State() State {
	return State{
		ID:           i.id,
		TrackingCode: i.trackingCode,
		Sequence:     i.sequence,
		Stage:        i.stage,
		Operator:     i.operator,
		EnteredAt:    i.enteredAt,
		ExitedAt:     i.ExitedAt(),
		Duration:     i.Duration(),
		Note:         i.note,
		Change:       i.Change(),
		Clamped:      i.clamped,
	}
}

func validateSequence(sequence int64) error {
	if sequence < 1 {
		return errs.NewValueIsOutOfRangeError("interval sequence", sequence, 1, "unbounded")
	}
	return nil
}

func validateNote(note string) error {
	if len(note) > maxNoteLength {
		return errs.NewValueIsOutOfRangeError("note length", len(note), 0, maxNoteLength)
	}
	return nil
}
