package calendar

import "time"

// NewYear returns the civil date on which the Coptic year beginning in
// civilYear starts. It is September 11, or September 12 when the following
// civil year is a Gregorian leap year.
func NewYear(civilYear int) CivilDate {
	day := 11
	if IsGregorianLeapYear(civilYear + 1) {
		day = 12
	}
	return CivilDate{Year: civilYear, Month: time.September, Day: day}
}

// NewYearSource supplies Coptic New Year dates to a Converter.
type NewYearSource interface {
	NewYear(civilYear int) CivilDate
}

// RuleNewYears computes New Year dates from the leap-year rule.
type RuleNewYears struct{}

// NewYear implements NewYearSource.
func (RuleNewYears) NewYear(civilYear int) CivilDate { return NewYear(civilYear) }

// NewYearTable is a precomputed span of New Year dates. It is filled from
// the rule at construction and falls back to the rule for years outside the
// span, so it can never disagree with NewYear.
type NewYearTable struct {
	first int
	dates []CivilDate
}

// NewNewYearTable precomputes New Year dates for civil years first..last inclusive.
// An inverted span yields an empty table that always defers to the rule.
func NewNewYearTable(first, last int) NewYearTable {
	if last < first {
		return NewYearTable{first: first}
	}
	dates := make([]CivilDate, 0, last-first+1)
	for y := first; y <= last; y++ {
		dates = append(dates, NewYear(y))
	}
	return NewYearTable{first: first, dates: dates}
}

// NewYear implements NewYearSource.
func (t NewYearTable) NewYear(civilYear int) CivilDate {
	if i := civilYear - t.first; i >= 0 && i < len(t.dates) {
		return t.dates[i]
	}
	return NewYear(civilYear)
}

// Span returns the first and last civil year held by the table.
// ok is false for an empty table.
func (t NewYearTable) Span() (first, last int, ok bool) {
	if len(t.dates) == 0 {
		return 0, 0, false
	}
	return t.first, t.first + len(t.dates) - 1, true
}
