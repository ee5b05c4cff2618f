package kernel

import (
	"fmt"
	"regexp"
	"strings"

	"warehouse/internal/pkg/errs"
)

const maxTrackingCodeLength = 64

var (
	// ErrTrackingCodeIsNotConstructed is returned when validating a zero-value TrackingCode.
	ErrTrackingCodeIsNotConstructed = errs.NewValueIsRequiredError("tracking code must be created via NewTrackingCode")

	trackingCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// TrackingCode is the globally unique identity printed on a parcel's QR label.
// It is assigned once at intake and never changes.
//
// Accepted codes are 1 to 64 characters of letters, digits, '-' and '_'.
// Surrounding whitespace, which hand scanners tend to append, is trimmed.
//
// Example:
//
//	code, err := kernel.NewTrackingCode("SF-2024-000131")
//	if err != nil {
//	    return err
//	}
type TrackingCode struct {
	value string
}

// NewTrackingCode validates and normalizes a scanned tracking code.
func NewTrackingCode(raw string) (TrackingCode, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return TrackingCode{}, errs.NewValueIsRequiredError("tracking code")
	}
	if len(value) > maxTrackingCodeLength {
		return TrackingCode{}, errs.NewValueIsOutOfRangeError("tracking code length", len(value), 1, maxTrackingCodeLength)
	}
	if !trackingCodePattern.MatchString(value) {
		return TrackingCode{}, errs.NewValueIsInvalidErrorWithCause(
			"tracking code",
			fmt.Errorf("%q contains characters other than letters, digits, '-' and '_'", value),
		)
	}
	return TrackingCode{value: value}, nil
}

// MustTrackingCode is NewTrackingCode for literals known to be valid; it panics otherwise.
func MustTrackingCode(raw string) TrackingCode {
	code, err := NewTrackingCode(raw)
	if err != nil {
		panic(err)
	}
	return code
}

func (c TrackingCode) String() string {
	return c.value
}

func (c TrackingCode) IsEqual(other TrackingCode) bool {
	return c.value == other.value
}

func (c TrackingCode) Validate() error {
	if c.value == "" {
		return ErrTrackingCodeIsNotConstructed
	}
	return nil
}
