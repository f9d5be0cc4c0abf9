package calendar

import (
	"errors"
	"fmt"
)

// ErrInvalidDate matches any InvalidDateError or InvalidCopticDateError via errors.Is.
var ErrInvalidDate = errors.New("invalid date")

// InvalidDateError is returned for civil dates that do not exist.
type InvalidDateError struct {
	Year   int
	Month  int
	Day    int
	Input  string // set when the date came from a string
	Reason string
}

func (e *InvalidDateError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("invalid date %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("invalid date %d-%02d-%02d: %s", e.Year, e.Month, e.Day, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidDate) succeed.
func (e *InvalidDateError) Is(target error) bool { return target == ErrInvalidDate }

// InvalidCopticDateError is returned when a Coptic month/day pair does not
// exist in the given Coptic year.
type InvalidCopticDateError struct {
	Year   int
	Month  int
	Day    int
	Reason string
}

func (e *InvalidCopticDateError) Error() string {
	return fmt.Sprintf("invalid coptic date %d/%d/%d: %s", e.Day, e.Month, e.Year, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidDate) succeed.
func (e *InvalidCopticDateError) Is(target error) bool { return target == ErrInvalidDate }

// InvariantError is the panic value raised when a conversion produces a
// Coptic date that cannot exist. It means the epoch or leap arithmetic is
// wrong and is never returned as an ordinary error.
type InvariantError struct {
	Input  CivilDate
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("coptic conversion invariant violated for %s: %s", e.Input, e.Detail)
}
