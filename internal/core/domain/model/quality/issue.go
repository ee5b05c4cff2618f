package quality

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const (
	maxDescriptionLength = 1000
	maxResolutionLength  = 1000
)

var (
	ErrIssueIsNotConstructed = errors.New("Issue must be created via NewIssue or RestoreIssue constructor")

	// ErrNoUnresolvedIssue is returned when rework is finished for a parcel
	// that has no open quality issue.
	ErrNoUnresolvedIssue = errors.New("parcel has no unresolved quality issue")

	ErrIssueAlreadyResolved = errors.New("quality issue is already resolved")
)

// Issue is a defect reported when a parcel failed quality check.
type Issue struct {
	id            kernel.UUID
	trackingCode  kernel.TrackingCode
	parcelVersion int64
	issueType     IssueType
	severity      Severity
	description   string
	cost          decimal.Decimal
	reportedBy    kernel.OperatorID
	reportedAt    time.Time
	resolvedBy    *kernel.OperatorID
	resolvedAt    *time.Time
	resolution    string

	isConstructed bool
}

// State is the persisted form of an issue.
type State struct {
	ID            kernel.UUID
	TrackingCode  kernel.TrackingCode
	ParcelVersion int64
	IssueType     IssueType
	Severity      Severity
	Description   string
	Cost          decimal.Decimal
	ReportedBy    kernel.OperatorID
	ReportedAt    time.Time
	ResolvedBy    *kernel.OperatorID
	ResolvedAt    *time.Time
	Resolution    string
}

// NewIssue reports an unresolved defect. parcelVersion is the parcel version
// the failed check was made against. Cost is the estimated rework cost and
// may be zero.
//
// Example:
//
//	issue, err := quality.NewIssue(code, 4, quality.IssueTypeSeamDefect, quality.SeverityMajor,
//	    "hood seam open on left side", decimal.RequireFromString("3.50"), inspector, now)
func NewIssue(
	trackingCode kernel.TrackingCode,
	parcelVersion int64,
	issueType IssueType,
	severity Severity,
	description string,
	cost decimal.Decimal,
	reportedBy kernel.OperatorID,
	reportedAt time.Time,
) (*Issue, error) {
	description = strings.TrimSpace(description)
	if err := errors.Join(
		trackingCode.Validate(),
		validateParcelVersion(parcelVersion),
		issueType.Validate(),
		severity.Validate(),
		validateDescription(description),
		validateCost(cost),
		reportedBy.Validate(),
	); err != nil {
		return nil, err
	}

	return &Issue{
		id:            kernel.NewUUID(),
		trackingCode:  trackingCode,
		parcelVersion: parcelVersion,
		issueType:     issueType,
		severity:      severity,
		description:   description,
		cost:          cost,
		reportedBy:    reportedBy,
		reportedAt:    reportedAt.UTC(),
		isConstructed: true,
	}, nil
}

func RestoreIssue(s State) (*Issue, error) {
	problems := []error{
		s.ID.Validate(),
		s.TrackingCode.Validate(),
		validateParcelVersion(s.ParcelVersion),
		s.IssueType.Validate(),
		s.Severity.Validate(),
		validateDescription(s.Description),
		validateCost(s.Cost),
		s.ReportedBy.Validate(),
	}
	if (s.ResolvedBy == nil) != (s.ResolvedAt == nil) {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("quality issue",
			fmt.Errorf("resolver and resolution time must both be set or both be empty")))
	}
	if s.ResolvedBy != nil {
		problems = append(problems, s.ResolvedBy.Validate())
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	i := &Issue{
		id:            s.ID,
		trackingCode:  s.TrackingCode,
		parcelVersion: s.ParcelVersion,
		issueType:     s.IssueType,
		severity:      s.Severity,
		description:   s.Description,
		cost:          s.Cost,
		reportedBy:    s.ReportedBy,
		reportedAt:    s.ReportedAt.UTC(),
		resolution:    s.Resolution,
		isConstructed: true,
	}
	if s.ResolvedBy != nil {
		resolver := *s.ResolvedBy
		at := s.ResolvedAt.UTC()
		i.resolvedBy = &resolver
		i.resolvedAt = &at
	}
	return i, nil
}

func (i *Issue) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrIssueIsNotConstructed
	}
	return nil
}

// Resolve marks the issue as fixed by resolver. The resolution text may be empty.
func (i *Issue) Resolve(resolver kernel.OperatorID, resolution string, at time.Time) error {
	if err := i.Validate(); err != nil {
		return err
	}
	if i.IsResolved() {
		return fmt.Errorf("%w: %s", ErrIssueAlreadyResolved, i.id)
	}
	resolution = strings.TrimSpace(resolution)
	if err := errors.Join(resolver.Validate(), validateResolution(resolution)); err != nil {
		return err
	}

	resolvedAt := at.UTC()
	i.resolvedBy = &resolver
	i.resolvedAt = &resolvedAt
	i.resolution = resolution
	return nil
}

func (i *Issue) IsResolved() bool {
	return i.resolvedAt != nil
}

func (i *Issue) ID() kernel.UUID {
	return i.id
}

func (i *Issue) TrackingCode() kernel.TrackingCode {
	return i.trackingCode
}

func (i *Issue) ParcelVersion() int64 {
	return i.parcelVersion
}

func (i *Issue) IssueType() IssueType {
	return i.issueType
}

func (i *Issue) Severity() Severity {
	return i.severity
}

func (i *Issue) Description() string {
	return i.description
}

func (i *Issue) Cost() decimal.Decimal {
	return i.cost
}

func (i *Issue) ReportedBy() kernel.OperatorID {
	return i.reportedBy
}

func (i *Issue) ReportedAt() time.Time {
	return i.reportedAt
}

func (i *Issue) ResolvedBy() *kernel.OperatorID {
	if i.resolvedBy == nil {
		return nil
	}
	r := *i.resolvedBy
	return &r
}

func (i *Issue) ResolvedAt() *time.Time {
	if i.resolvedAt == nil {
		return nil
	}
	t := *i.resolvedAt
	return &t
}

func (i *Issue) Resolution() string {
	return i.resolution
}

func (i *Issue) State() State {
	return State{
		ID:            i.id,
		TrackingCode:  i.trackingCode,
		ParcelVersion: i.parcelVersion,
		IssueType:     i.issueType,
		Severity:      i.severity,
		Description:   i.description,
		Cost:          i.cost,
		ReportedBy:    i.reportedBy,
		ReportedAt:    i.reportedAt,
		ResolvedBy:    i.ResolvedBy(),
		ResolvedAt:    i.ResolvedAt(),
		Resolution:    i.resolution,
	}
}

func validateParcelVersion(v int64) error {
	if v < 1 {
		return errs.NewValueIsOutOfRangeError("parcel version", v, 1, "unbounded")
	}
	return nil
}

func validateDescription(description string) error {
	if description == "" {
		return errs.NewValueIsRequiredError("issue description")
	}
	if len(description) > maxDescriptionLength {
		return errs.NewValueIsOutOfRangeError("issue description length", len(description), 1, maxDescriptionLength)
	}
	return nil
}

func validateResolution(resolution string) error {
	if len(resolution) > maxResolutionLength {
		return errs.NewValueIsOutOfRangeError("resolution length", len(resolution), 0, maxResolutionLength)
	}
	return nil
}

func validateCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return errs.NewValueIsOutOfRangeError("issue cost", cost.String(), "0", "unbounded")
	}
	return nil
}
