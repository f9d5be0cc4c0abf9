package calendar

import (
	"errors"
	"fmt"
)

// FeastKind ranks a feast.
type FeastKind string

// Feast kinds.
const (
	KindLord  FeastKind = "lord"
	KindMajor FeastKind = "major"
	KindMinor FeastKind = "minor"
)

// Valid reports whether k is a known kind.
func (k FeastKind) Valid() bool {
	switch k {
	case KindLord, KindMajor, KindMinor:
		return true
	}
	return false
}

// Feast is a commemoration that falls on the same Coptic month and day every year.
type Feast struct {
	Month Month     `json:"month" yaml:"month"`
	Day   int       `json:"day" yaml:"day"`
	Name  string    `json:"name" yaml:"name"`
	Kind  FeastKind `json:"kind" yaml:"kind"`
}

// Validate checks that the feast's day can occur in some Coptic year.
func (f Feast) Validate() error {
	var errs []error
	if !f.Month.Valid() {
		errs = append(errs, fmt.Errorf("month must be between 1 and 13, got %d", f.Month))
	} else if limit := DaysInCopticMonth(copticLeapRest, f.Month); f.Day < 1 || f.Day > limit {
		errs = append(errs, fmt.Errorf("day must be between 1 and %d for %s, got %d", limit, f.Month, f.Day))
	}
	if f.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if !f.Kind.Valid() {
		errs = append(errs, fmt.Errorf("kind must be one of: lord, major, minor; got %q", f.Kind))
	}
	return errors.Join(errs...)
}

// FeastTable is an immutable, ordered list of fixed-date feasts.
// The zero value is an empty table.
type FeastTable struct {
	feasts []Feast
}

// NewFeastTable validates feasts and returns a table holding a copy of them.
// Declaration order is preserved.
func NewFeastTable(feasts []Feast) (FeastTable, error) {
	var errs []error
	for i, f := range feasts {
		if err := f.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("feast %d (%q): %w", i, f.Name, err))
		}
	}
	if len(errs) > 0 {
		return FeastTable{}, errors.Join(errs...)
	}
	return FeastTable{feasts: append([]Feast(nil), feasts...)}, nil
}

// DefaultFeasts returns the fixed-date feasts of the Coptic Orthodox Church.
// Feasts that move with Pascha are not included.
func DefaultFeasts() FeastTable {
	return FeastTable{feasts: []Feast{
		{Month: Thoout, Day: 1, Name: "Coptic New Year (Nayrouz)", Kind: KindMajor},
		{Month: Thoout, Day: 17, Name: "Feast of the Cross", Kind: KindMajor},
		{Month: Kiahk, Day: 29, Name: "Nativity of Christ (Christmas)", Kind: KindLord},
		{Month: Tobi, Day: 6, Name: "Circumcision of Christ", Kind: KindMinor},
		{Month: Tobi, Day: 11, Name: "Theophany (Baptism of Christ)", Kind: KindLord},
		{Month: Tobi, Day: 13, Name: "Wedding at Cana of Galilee", Kind: KindMinor},
		{Month: Tobi, Day: 22, Name: "Departure of St. Antony the Great", Kind: KindMinor},
		{Month: Meshir, Day: 8, Name: "Presentation of Christ in the Temple", Kind: KindMinor},
		{Month: Paremhat, Day: 10, Name: "Feast of the Cross", Kind: KindMinor},
		{Month: Paremhat, Day: 29, Name: "Annunciation", Kind: KindLord},
		{Month: Parmouti, Day: 23, Name: "Martyrdom of St. George", Kind: KindMinor},
		{Month: Parmouti, Day: 30, Name: "Martyrdom of St. Mark the Evangelist", Kind: KindMajor},
		{Month: Pashons, Day: 24, Name: "Entry of the Lord into Egypt", Kind: KindMinor},
		{Month: Epip, Day: 5, Name: "Martyrdom of the Apostles Peter and Paul", Kind: KindMajor},
		{Month: Mesori, Day: 13, Name: "Transfiguration", Kind: KindMinor},
		{Month: Mesori, Day: 16, Name: "Assumption of St. Mary", Kind: KindMajor},
	}}
}

// For returns the names of all feasts on d's month and day, in table order.
// The result is empty, never nil, when nothing matches.
func (t FeastTable) For(d CopticDate) []string {
	names := []string{}
	for _, f := range t.feasts {
		if f.Month == d.Month && f.Day == d.Day {
			names = append(names, f.Name)
		}
	}
	return names
}

// FeastsFor is like For but returns the full entries.
func (t FeastTable) FeastsFor(d CopticDate) []Feast {
	out := []Feast{}
	for _, f := range t.feasts {
		if f.Month == d.Month && f.Day == d.Day {
			out = append(out, f)
		}
	}
	return out
}

// InMonth returns the feasts of month m ordered by day; ties keep table order.
func (t FeastTable) InMonth(m Month) []Feast {
	out := []Feast{}
	for day := 1; day <= DaysInCopticMonth(copticLeapRest, m); day++ {
		for _, f := range t.feasts {
			if f.Month == m && f.Day == day {
				out = append(out, f)
			}
		}
	}
	return out
}

// Entries returns a copy of the table's feasts.
func (t FeastTable) Entries() []Feast {
	return append([]Feast{}, t.feasts...)
}

// Len returns the number of feasts in the table.
func (t FeastTable) Len() int { return len(t.feasts) }

// FeastDaysFor returns the names of the feasts in table that fall on d.
func FeastDaysFor(table FeastTable, d CopticDate) []string {
	return table.For(d)
}
