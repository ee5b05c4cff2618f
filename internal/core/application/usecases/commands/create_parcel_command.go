package commands

import (
	"errors"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/parcel"
	"warehouse/internal/pkg/errs"
	"warehouse/internal/pkg/guard"
)

var ErrCreateParcelCommandIsNotConstructed = errors.New(
	"CreateParcelCommand must be created via NewCreateParcelCommand constructor",
)

// CreateParcelCommand registers a parcel at intake.
//
// Example:
//
//	cmd, err := NewCreateParcelCommand("SF-2024-000131", "ORD-5512", "Kunde GmbH", 12, "Express", "badge-0001")
//	if err != nil {
//	    return fmt.Errorf("invalid intake data: %w", err)
//	}
//	p, err := handler.Handle(ctx, cmd)
type CreateParcelCommand struct { //nolint:recvcheck //using for validation
	trackingCode kernel.TrackingCode
	orderRef     string
	customerRef  string
	itemCount    int
	priority     parcel.Priority
	operator     kernel.OperatorID

	guard guard.ConstructorGuard
}

// NewCreateParcelCommand parses raw intake input. Attribute rules beyond
// identity and enum parsing are enforced by the Parcel aggregate.
func NewCreateParcelCommand(
	trackingCode string,
	orderRef string,
	customerRef string,
	itemCount int,
	priority string,
	operator string,
) (CreateParcelCommand, error) {
	cmd := CreateParcelCommand{
		orderRef:    orderRef,
		customerRef: customerRef,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTrackingCode(trackingCode),
		cmd.setItemCount(itemCount),
		cmd.setPriority(priority),
		cmd.setOperator(operator),
	); err != nil {
		return CreateParcelCommand{}, err
	}

	return cmd, nil
}

func (c CreateParcelCommand) Validate() error {
	return c.guard.Validate(ErrCreateParcelCommandIsNotConstructed)
}

func (c CreateParcelCommand) TrackingCode() kernel.TrackingCode {
	return c.trackingCode
}

func (c CreateParcelCommand) OrderRef() string {
	return c.orderRef
}

func (c CreateParcelCommand) CustomerRef() string {
	return c.customerRef
}

func (c CreateParcelCommand) ItemCount() int {
	return c.itemCount
}

func (c CreateParcelCommand) Priority() parcel.Priority {
	return c.priority
}

func (c CreateParcelCommand) Operator() kernel.OperatorID {
	return c.operator
}

func (c *CreateParcelCommand) setTrackingCode(raw string) error {
	code, err := kernel.NewTrackingCode(raw)
	if err != nil {
		return err
	}
	c.trackingCode = code
	return nil
}

func (c *CreateParcelCommand) setItemCount(itemCount int) error {
	if itemCount <= 0 {
		return errs.NewValueIsOutOfRangeError("item count", itemCount, 1, "unbounded")
	}
	c.itemCount = itemCount
	return nil
}

func (c *CreateParcelCommand) setPriority(raw string) error {
	priority, err := parcel.ParsePriority(raw)
	if err != nil {
		return err
	}
	c.priority = priority
	return nil
}

func (c *CreateParcelCommand) setOperator(raw string) error {
	operator, err := kernel.NewOperatorID(raw)
	if err != nil {
		return err
	}
	c.operator = operator
	return nil
}
