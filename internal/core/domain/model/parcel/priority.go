package parcel

import (
	"fmt"

	"warehouse/internal/pkg/errs"
)

// Priority is the handling class of a parcel. It is informational for the
// stage engine; the stations decide what to work on first.
type Priority int

const (
	PriorityUnknown Priority = iota
	PriorityLow
	PriorityNormal
	PriorityHigh
	PriorityExpress
	PriorityUrgent
)

var priorityNames = map[Priority]string{
	PriorityLow:     "Low",
	PriorityNormal:  "Normal",
	PriorityHigh:    "High",
	PriorityExpress: "Express",
	PriorityUrgent:  "Urgent",
}

// ParsePriority resolves a priority by name. An empty name means Normal, the
// intake default.
func ParsePriority(name string) (Priority, error) {
	if name == "" {
		return PriorityNormal, nil
	}
	for p, n := range priorityNames {
		if n == name {
			return p, nil
		}
	}
	return PriorityUnknown, errs.NewValueIsInvalidErrorWithCause("priority", fmt.Errorf("%q is not a known priority", name))
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "Unknown"
}

func (p Priority) Validate() error {
	if _, ok := priorityNames[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("priority", fmt.Errorf("%d is not a valid priority", p))
	}
	return nil
}
