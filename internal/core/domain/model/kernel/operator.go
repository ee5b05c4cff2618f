package kernel

import (
	"strings"

	"warehouse/internal/pkg/errs"
)

const maxOperatorIDLength = 100

// ErrOperatorIDIsNotConstructed is returned when validating a zero-value OperatorID.
var ErrOperatorIDIsNotConstructed = errs.NewValueIsRequiredError("operator must be created via NewOperatorID")

// OperatorID is the identity of whoever touched a parcel at a station. The
// warehouse core does not authenticate; it records whatever identity the
// station's login collaborator (RFID badge, manual login) resolved.
type OperatorID struct {
	value string
}

func NewOperatorID(raw string) (OperatorID, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return OperatorID{}, errs.NewValueIsRequiredError("operator")
	}
	if len(value) > maxOperatorIDLength {
		return OperatorID{}, errs.NewValueIsOutOfRangeError("operator length", len(value), 1, maxOperatorIDLength)
	}
	return OperatorID{value: value}, nil
}

// MustOperatorID panics on invalid input. Intended for tests and fixtures.
func MustOperatorID(raw string) OperatorID {
	id, err := NewOperatorID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

func (o OperatorID) String() string {
	return o.value
}

func (o OperatorID) IsEqual(other OperatorID) bool {
	return o.value == other.value
}

func (o OperatorID) Validate() error {
	if o.value == "" {
		return ErrOperatorIDIsNotConstructed
	}
	return nil
}
