package quantity

import (
	"errors"
	"fmt"
)

// Status is the terminal state of one resolution attempt.
type Status string

const (
	StatusResolved  Status = "resolved"
	StatusAmbiguous Status = "ambiguous"
	StatusInvalid   Status = "invalid"
)

var (
	ErrInvalid   = errors.New("invalid input combination")
	ErrAmbiguous = errors.New("no unique solution")
)

// Outcome is the tagged result of Resolve. Values and SolvedFor are only set
// when Status is StatusResolved; Reason is only set otherwise.
type Outcome struct {
	Status    Status
	Values    Values
	SolvedFor []Name
	Reason    string
}

// Resolved builds a successful outcome. Values holds knowns and derived
// quantities alike; solved lists the derived ones.
func Resolved(values Values, solved []Name) Outcome {
	if solved == nil {
		solved = []Name{}
	}
	return Outcome{Status: StatusResolved, Values: values, SolvedFor: solved}
}

// Invalid builds a failed outcome for an impossible or underdetermined input.
func Invalid(reason string) Outcome {
	return Outcome{Status: StatusInvalid, Reason: reason}
}

// Ambiguous builds a failed outcome for inputs with no unique solution.
func Ambiguous(reason string) Outcome {
	return Outcome{Status: StatusAmbiguous, Reason: reason}
}

// OK reports whether the outcome is resolved.
func (o Outcome) OK() bool {
	return o.Status == StatusResolved
}

// Solved reports whether name was derived rather than supplied.
func (o Outcome) Solved(name Name) bool {
	for _, n := range o.SolvedFor {
		if n == name {
			return true
		}
	}
	return false
}

// Err returns nil for resolved outcomes and otherwise an error wrapping
// ErrInvalid or ErrAmbiguous.
func (o Outcome) Err() error {
	switch o.Status {
	case StatusResolved:
		return nil
	case StatusAmbiguous:
		return &ReasonError{Status: o.Status, Reason: o.Reason}
	default:
		return &ReasonError{Status: StatusInvalid, Reason: o.Reason}
	}
}

// ReasonError carries a user facing reason together with the failure class.
type ReasonError struct {
	Status Status
	Reason string
}

func (e *ReasonError) Error() string {
	return e.Reason
}

func (e *ReasonError) Unwrap() error {
	if e.Status == StatusAmbiguous {
		return ErrAmbiguous
	}
	return ErrInvalid
}

// Invalidf formats a reason for an invalid combination.
func Invalidf(format string, args ...any) error {
	return &ReasonError{Status: StatusInvalid, Reason: fmt.Sprintf(format, args...)}
}

// Ambiguousf formats a reason for an ambiguous combination.
func Ambiguousf(format string, args ...any) error {
	return &ReasonError{Status: StatusAmbiguous, Reason: fmt.Sprintf(format, args...)}
}

// FromError converts an error returned by a rule into a failed outcome.
func FromError(err error) Outcome {
	var re *ReasonError
	if errors.As(err, &re) {
		if re.Status == StatusAmbiguous {
			return Ambiguous(re.Reason)
		}
		return Invalid(re.Reason)
	}
	return Invalid(err.Error())
}
