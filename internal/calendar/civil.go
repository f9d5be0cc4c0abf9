// Package calendar converts proleptic Gregorian dates into the Coptic
// liturgical calendar and looks up the fixed-date feasts that fall on them.
//
// Everything in this package is a pure function of its inputs. There is no
// dependency on the current time: callers pass "today" explicitly.
package calendar

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Supported civil years. Dates outside this span are rejected rather than
// left to overflow in day arithmetic.
const (
	MinCivilYear = -100_000_000
	MaxCivilYear = 100_000_000
)

// CivilDate is a calendar date in the proleptic Gregorian calendar.
// It carries no time of day and no location.
type CivilDate civil.Date

// NewCivilDate returns a validated civil date.
func NewCivilDate(year int, month time.Month, day int) (CivilDate, error) {
	d := CivilDate{Year: year, Month: month, Day: day}
	if err := d.Validate(); err != nil {
		return CivilDate{}, err
	}
	return d, nil
}

// ParseCivilDate parses a date in YYYY-MM-DD format.
func ParseCivilDate(s string) (CivilDate, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return CivilDate{}, &InvalidDateError{Input: s, Reason: "expected YYYY-MM-DD"}
	}
	return CivilDate(d), nil
}

// FromTime returns the calendar date of t as seen in t's own location.
func FromTime(t time.Time) CivilDate {
	return CivilDate(civil.DateOf(t))
}

// Validate reports whether the date exists in the civil calendar.
// It never normalizes: February 30 is an error, not March 2.
func (d CivilDate) Validate() error {
	switch {
	case d.Year < MinCivilYear || d.Year > MaxCivilYear:
		return &InvalidDateError{Year: d.Year, Month: int(d.Month), Day: d.Day, Reason: "year out of supported range"}
	case d.Month < time.January || d.Month > time.December:
		return &InvalidDateError{Year: d.Year, Month: int(d.Month), Day: d.Day, Reason: "month out of range"}
	case !d.date().IsValid():
		return &InvalidDateError{Year: d.Year, Month: int(d.Month), Day: d.Day, Reason: "day out of range for month"}
	}
	return nil
}

// Time returns midnight UTC on d.
func (d CivilDate) Time() time.Time {
	return d.date().In(time.UTC)
}

// String formats d as YYYY-MM-DD.
func (d CivilDate) String() string {
	if d.Year < 0 || d.Year > 9999 {
		return fmt.Sprintf("%d-%02d-%02d", d.Year, int(d.Month), d.Day)
	}
	return d.date().String()
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after other.
func (d CivilDate) Compare(other CivilDate) int { return d.date().Compare(other.date()) }

// Before reports whether d is strictly before other.
func (d CivilDate) Before(other CivilDate) bool { return d.date().Before(other.date()) }

// After reports whether d is strictly after other.
func (d CivilDate) After(other CivilDate) bool { return d.date().After(other.date()) }

// Equal reports whether d and other are the same calendar day.
func (d CivilDate) Equal(other CivilDate) bool { return d == other }

// DaysSince returns the whole number of days from other to d.
// The result is negative when d is before other.
func (d CivilDate) DaysSince(other CivilDate) int {
	return d.date().DaysSince(other.date())
}

// AddDays returns the date n days after d (n may be negative).
func (d CivilDate) AddDays(n int) CivilDate {
	return CivilDate(d.date().AddDays(n))
}

func (d CivilDate) date() civil.Date { return civil.Date(d) }

// IsGregorianLeapYear reports whether year has a February 29.
func IsGregorianLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func floorMod(a, b int) int {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}
