package stage

import (
	"fmt"

	"warehouse/internal/pkg/errs"
)

// Stage is one discrete phase of a parcel's physical journey.
type Stage int

const (
	// Unknown is the invalid zero value.
	Unknown Stage = iota
	Intake
	Processing
	FabricWork
	QualityCheck
	QualityPassed
	ReworkRequired
	ReadyToShip
	Shipped
	Cancelled
)

var stageNames = map[Stage]string{
	Intake:         "Intake",
	Processing:     "Processing",
	FabricWork:     "FabricWork",
	QualityCheck:   "QualityCheck",
	QualityPassed:  "QualityPassed",
	ReworkRequired: "ReworkRequired",
	ReadyToShip:    "ReadyToShip",
	Shipped:        "Shipped",
	Cancelled:      "Cancelled",
}

// All returns every valid stage in production order.
func All() []Stage {
	return []Stage{
		Intake, Processing, FabricWork, QualityCheck, QualityPassed,
		ReworkRequired, ReadyToShip, Shipped, Cancelled,
	}
}

// Parse resolves a stage by its exact name, as stored and as sent by stations.
func Parse(name string) (Stage, error) {
	for s, n := range stageNames {
		if n == name {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("stage", fmt.Errorf("%q is not a known stage", name))
}

// String is safe on invalid values and returns "Unknown" for them.
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Validate reports whether s is a member of the catalog.
func (s Stage) Validate() error {
	if _, ok := stageNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("stage", fmt.Errorf("%d is not a valid stage", s))
	}
	return nil
}
