package parcel

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
	// InitialVersion is the version of a freshly registered parcel.
	InitialVersion int64 = 1

	maxItemCount      = 10000
	maxOrderRefLength = 64
	maxCustomerLength = 128
)

var (
	// ErrParcelIsNotConstructed is returned when a Parcel was not created via NewParcel or RestoreParcel.
	ErrParcelIsNotConstructed = errors.New("Parcel must be created via NewParcel or RestoreParcel constructor")

	// ErrReworkLimitReached is returned when a failed quality check would start
	// more rework cycles than the configured policy allows.
	ErrReworkLimitReached = errors.New("rework cycle limit reached")
)

// Parcel is the aggregate root of the package ledger.
//
// Invariants:
//   - trackingCode is valid and never changes
//   - stage is always a member of the stage catalog
//   - version starts at InitialVersion and grows by exactly one per applied transition
//   - reworkCount counts every entry into ReworkRequired
//
// Fields are private; all mutation goes through ApplyTransition.
type Parcel struct {
	trackingCode  kernel.TrackingCode
	orderRef      string
	customerRef   string
	itemCount     int
	priority      Priority
	stage         stage.Stage
	version       int64
	reworkCount   int
	createdBy     kernel.OperatorID
	lastUpdatedBy kernel.OperatorID
	createdAt     time.Time
	updatedAt     time.Time
	isConstructed bool
}

// State is the full persisted state of a parcel, used by repositories to
// rebuild the aggregate through RestoreParcel.
type State struct {
	TrackingCode  kernel.TrackingCode
	OrderRef      string
	CustomerRef   string
	ItemCount     int
	Priority      Priority
	Stage         stage.Stage
	Version       int64
	ReworkCount   int
	CreatedBy     kernel.OperatorID
	LastUpdatedBy kernel.OperatorID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewParcel registers a parcel at intake. The parcel starts in stage Intake
// with version 1, created and last updated by the intake operator.
//
// Example:
//
//	code, _ := kernel.NewTrackingCode("SF-2024-000131")
//	p, err := parcel.NewParcel(code, "ORD-5512", "Kunde GmbH", 12, parcel.PriorityExpress, operator, time.Now())
//	if err != nil {
//	    return err
//	}
func NewParcel(
	trackingCode kernel.TrackingCode,
	orderRef string,
	customerRef string,
	itemCount int,
	priority Priority,
	createdBy kernel.OperatorID,
	at time.Time,
) (*Parcel, error) {
	p := &Parcel{
		stage:         stage.Intake,
		version:       InitialVersion,
		createdAt:     at.UTC(),
		updatedAt:     at.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		p.setTrackingCode(trackingCode),
		p.setOrderRef(orderRef),
		p.setCustomerRef(customerRef),
		p.setItemCount(itemCount),
		p.setPriority(priority),
		p.setCreatedBy(createdBy),
	); err != nil {
		return nil, err
	}
	p.lastUpdatedBy = createdBy

	return p, nil
}

// RestoreParcel rebuilds a parcel from persisted state, re-checking every invariant.
func RestoreParcel(s State) (*Parcel, error) {
	p := &Parcel{
		reworkCount:   s.ReworkCount,
		createdAt:     s.CreatedAt.UTC(),
		updatedAt:     s.UpdatedAt.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		p.setTrackingCode(s.TrackingCode),
		p.setOrderRef(s.OrderRef),
		p.setCustomerRef(s.CustomerRef),
		p.setItemCount(s.ItemCount),
		p.setPriority(s.Priority),
		p.setCreatedBy(s.CreatedBy),
		s.LastUpdatedBy.Validate(),
		s.Stage.Validate(),
		validateVersion(s.Version),
	); err != nil {
		return nil, err
	}
	if s.ReworkCount < 0 {
		return nil, errs.NewValueIsOutOfRangeError("rework count", s.ReworkCount, 0, "unbounded")
	}

	p.stage = s.Stage
	p.version = s.Version
	p.lastUpdatedBy = s.LastUpdatedBy

	return p, nil
}

// Validate ensures the parcel was built by one of the constructors.
func (p *Parcel) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrParcelIsNotConstructed
	}
	return nil
}

func (p *Parcel) TrackingCode() kernel.TrackingCode {
	return p.trackingCode
}

func (p *Parcel) OrderRef() string {
	return p.orderRef
}

func (p *Parcel) CustomerRef() string {
	return p.customerRef
}

func (p *Parcel) ItemCount() int {
	return p.itemCount
}

func (p *Parcel) Priority() Priority {
	return p.priority
}

func (p *Parcel) Stage() stage.Stage {
	return p.stage
}

func (p *Parcel) Version() int64 {
	return p.version
}

func (p *Parcel) ReworkCount() int {
	return p.reworkCount
}

func (p *Parcel) CreatedBy() kernel.OperatorID {
	return p.createdBy
}

func (p *Parcel) LastUpdatedBy() kernel.OperatorID {
	return p.lastUpdatedBy
}

func (p *Parcel) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Parcel) UpdatedAt() time.Time {
	return p.updatedAt
}

// State returns a copy of the parcel's persisted state.
func (p *Parcel) State() State {
	return State{
		TrackingCode:  p.trackingCode,
		OrderRef:      p.orderRef,
		CustomerRef:   p.customerRef,
		ItemCount:     p.itemCount,
		Priority:      p.priority,
		Stage:         p.stage,
		Version:       p.version,
		ReworkCount:   p.reworkCount,
		CreatedBy:     p.createdBy,
		LastUpdatedBy: p.lastUpdatedBy,
		CreatedAt:     p.createdAt,
		UpdatedAt:     p.updatedAt,
	}
}

// CheckTransition validates a requested move without applying it: first the
// optimistic-lock version, then the stage catalog.
//
// Returns:
//   - *errs.VersionConflictError when expectedVersion is stale
//   - *stage.IllegalTransitionError when the catalog has no such move
func (p *Parcel) CheckTransition(expectedVersion int64, target stage.Stage) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if expectedVersion != p.version {
		return errs.NewVersionConflictError("parcel", p.trackingCode.String(), expectedVersion, p.version)
	}
	return stage.CheckTransition(p.stage, target)
}

// CheckReworkAllowance enforces the rework cycle policy for a move into target.
// maxCycles of zero or less means unbounded.
func (p *Parcel) CheckReworkAllowance(target stage.Stage, maxCycles int) error {
	if !stage.IsReworkTarget(target) || maxCycles <= 0 {
		return nil
	}
	if p.reworkCount >= maxCycles {
		return fmt.Errorf("%w: parcel %s already went through %d of %d rework cycles",
			ErrReworkLimitReached, p.trackingCode, p.reworkCount, maxCycles)
	}
	return nil
}

// ApplyTransition moves the parcel to target on behalf of operator.
//
// The move is re-validated (version, then catalog) before any field changes,
// so a rejected call leaves the parcel untouched. On success the stage,
// last-updated operator and timestamp change and the version grows by one.
func (p *Parcel) ApplyTransition(expectedVersion int64, target stage.Stage, operator kernel.OperatorID, at time.Time) error {
	if err := p.CheckTransition(expectedVersion, target); err != nil {
		return err
	}
	if err := operator.Validate(); err != nil {
		return err
	}

	p.stage = target
	p.version++
	p.lastUpdatedBy = operator
	p.updatedAt = at.UTC()
	if stage.IsReworkTarget(target) {
		p.reworkCount++
	}
	return nil
}

func (p *Parcel) setTrackingCode(code kernel.TrackingCode) error {
	if err := code.Validate(); err != nil {
		return err
	}
	p.trackingCode = code
	return nil
}

func (p *Parcel) setOrderRef(orderRef string) error {
	orderRef = strings.TrimSpace(orderRef)
	if orderRef == "" {
		return errs.NewValueIsRequiredError("order reference")
	}
	if len(orderRef) > maxOrderRefLength {
		return errs.NewValueIsOutOfRangeError("order reference length", len(orderRef), 1, maxOrderRefLength)
	}
	p.orderRef = orderRef
	return nil
}

func (p *Parcel) setCustomerRef(customerRef string) error {
	customerRef = strings.TrimSpace(customerRef)
	if customerRef == "" {
		return errs.NewValueIsRequiredError("customer reference")
	}
	if len(customerRef) > maxCustomerLength {
		return errs.NewValueIsOutOfRangeError("customer reference length", len(customerRef), 1, maxCustomerLength)
	}
	p.customerRef = customerRef
	return nil
}

func (p *Parcel) setItemCount(itemCount int) error {
	if itemCount < 1 || itemCount > maxItemCount {
		return errs.NewValueIsOutOfRangeError("item count", itemCount, 1, maxItemCount)
	}
	p.itemCount = itemCount
	return nil
}

func (p *Parcel) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	p.priority = priority
	return nil
}

func (p *Parcel) setCreatedBy(operator kernel.OperatorID) error {
	if err := operator.Validate(); err != nil {
		return err
	}
	p.createdBy = operator
	return nil
}

func validateVersion(version int64) error {
	if version < InitialVersion {
		return errs.NewValueIsOutOfRangeError("version", version, InitialVersion, "unbounded")
	}
	return nil
}
