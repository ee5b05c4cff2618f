package quality

import (
	"fmt"

	"warehouse/internal/pkg/errs"
)

// IssueType classifies what went wrong with a parcel's contents.
type IssueType string

const (
	IssueTypePrintDefect    IssueType = "PrintDefect"
	IssueTypeColorDeviation IssueType = "ColorDeviation"
	IssueTypePositionError  IssueType = "PositionError"
	IssueTypeFabricDefect   IssueType = "FabricDefect"
	IssueTypeSoiling        IssueType = "Soiling"
	IssueTypeWrongSize      IssueType = "WrongSize"
	IssueTypeSeamDefect     IssueType = "SeamDefect"
	IssueTypeMotifError     IssueType = "MotifError"
	IssueTypeDamage         IssueType = "Damage"
	IssueTypeOther          IssueType = "Other"
)

// IssueTypes lists the closed set of issue types in display order.
func IssueTypes() []IssueType {
	return []IssueType{
		IssueTypePrintDefect, IssueTypeColorDeviation, IssueTypePositionError,
		IssueTypeFabricDefect, IssueTypeSoiling, IssueTypeWrongSize,
		IssueTypeSeamDefect, IssueTypeMotifError, IssueTypeDamage, IssueTypeOther,
	}
}

func ParseIssueType(name string) (IssueType, error) {
	t := IssueType(name)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

func (t IssueType) String() string {
	return string(t)
}

func (t IssueType) Validate() error {
	for _, known := range IssueTypes() {
		if t == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("issue type", fmt.Errorf("%q is not a known issue type", string(t)))
}

// Severity ranks how badly an issue affects the parcel.
type Severity string

const (
	SeverityMinor    Severity = "Minor"
	SeverityMajor    Severity = "Major"
	SeverityCritical Severity = "Critical"
)

// ParseSeverity resolves a severity by name; an empty name means Major.
func ParseSeverity(name string) (Severity, error) {
	if name == "" {
		return SeverityMajor, nil
	}
	s := Severity(name)
	if err := s.Validate(); err != nil {
		return "", err
	}
	return s, nil
}

func (s Severity) String() string {
	return string(s)
}

func (s Severity) Validate() error {
	switch s {
	case SeverityMinor, SeverityMajor, SeverityCritical:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("severity", fmt.Errorf("%q is not a known severity", string(s)))
	}
}
