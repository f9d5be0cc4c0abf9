package calendar

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Offsets between the civil year and the Coptic year (Era of the Martyrs).
const (
	EpochOffsetAfterNewYear  = 283
	EpochOffsetBeforeNewYear = 284
)

// Coptic years whose days all fall inside the supported civil years.
const (
	MinCopticYear = MinCivilYear - EpochOffsetAfterNewYear
	MaxCopticYear = MaxCivilYear - EpochOffsetBeforeNewYear
)

const (
	monthLength    = 30
	regularMonths  = 12
	regularDays    = regularMonths * monthLength
	nesiDays       = 5
	nesiLeapDays   = 6
	copticLeapRest = 3
)

// Month is a Coptic month, 1 (Thoout) through 13 (Nesi).
type Month int

// Coptic months.
const (
	Thoout Month = iota + 1
	Paope
	Hathor
	Kiahk
	Tobi
	Meshir
	Paremhat
	Parmouti
	Pashons
	Paoni
	Epip
	Mesori
	Nesi
)

var monthNames = [...]string{
	"Thoout", "Paope", "Hathor", "Kiahk",
	"Tobi", "Meshir", "Paremhat", "Parmouti",
	"Pashons", "Paoni", "Epip", "Mesori",
	"Nesi",
}

// Valid reports whether m is one of the 13 Coptic months.
func (m Month) Valid() bool { return m >= Thoout && m <= Nesi }

// Name returns the month's name, or "" for an invalid month.
func (m Month) Name() string {
	if !m.Valid() {
		return ""
	}
	return monthNames[m-1]
}

func (m Month) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return m.Name()
}

// ParseMonth accepts a month number ("5") or a case-insensitive name ("tobi").
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if m := Month(n); m.Valid() {
			return m, nil
		}
		return 0, fmt.Errorf("month %d out of range 1..13", n)
	}
	for i, name := range monthNames {
		if strings.EqualFold(name, s) {
			return Month(i + 1), nil
		}
	}
	return 0, fmt.Errorf("unknown coptic month %q", s)
}

// Season groups the Coptic months. The little month stands outside the
// three agricultural seasons.
type Season string

// Seasons.
const (
	SeasonFlood       Season = "Flood season"
	SeasonGrowth      Season = "Growth season"
	SeasonHarvest     Season = "Harvest season"
	SeasonLittleMonth Season = "Little month"
)

// SeasonOf returns the season containing m, or "" for an invalid month.
func SeasonOf(m Month) Season {
	switch {
	case m >= Thoout && m <= Kiahk:
		return SeasonFlood
	case m >= Tobi && m <= Parmouti:
		return SeasonGrowth
	case m >= Pashons && m <= Mesori:
		return SeasonHarvest
	case m == Nesi:
		return SeasonLittleMonth
	default:
		return ""
	}
}

// IsCopticLeapYear reports whether Nesi has six days in Coptic year yc.
func IsCopticLeapYear(yc int) bool {
	return floorMod(yc, 4) == copticLeapRest
}

// DaysInCopticMonth returns the length of month m in Coptic year yc,
// or 0 for an invalid month.
func DaysInCopticMonth(yc int, m Month) int {
	switch {
	case m >= Thoout && m <= Mesori:
		return monthLength
	case m == Nesi:
		if IsCopticLeapYear(yc) {
			return nesiLeapDays
		}
		return nesiDays
	default:
		return 0
	}
}

// CopticDate is a fully resolved date in the Coptic calendar.
type CopticDate struct {
	Year        int    `json:"year"`
	Month       Month  `json:"month"`
	MonthName   string `json:"month_name"`
	Day         int    `json:"day"`
	Season      Season `json:"season"`
	DaysInMonth int    `json:"days_in_month"`
}

// Progress returns how far through the month d is, as a percentage where
// the last day of the month is 100.
func (d CopticDate) Progress() int {
	if d.DaysInMonth == 0 {
		return 0
	}
	return int(math.Round(float64(d.Day) / float64(d.DaysInMonth) * 100))
}

func (d CopticDate) String() string {
	return fmt.Sprintf("%d %s %d", d.Day, d.MonthName, d.Year)
}

// Converter maps civil dates to Coptic dates. The zero value uses the
// New Year rule directly.
type Converter struct {
	NewYears NewYearSource
}

// NewConverter returns a Converter reading New Year dates from src.
// A nil src means the rule.
func NewConverter(src NewYearSource) Converter {
	return Converter{NewYears: src}
}

// ToCoptic converts d using the New Year rule.
func ToCoptic(d CivilDate) (CopticDate, error) {
	return Converter{}.Convert(d)
}

// CopticYear returns the Coptic year containing d. d must be valid.
func (c Converter) CopticYear(d CivilDate) int {
	_, year := c.anchor(d)
	return year
}

// Convert returns the Coptic date for d.
//
// An invalid civil date yields an *InvalidDateError. A result that breaks
// the calendar's own invariants panics with *InvariantError.
func (c Converter) Convert(d CivilDate) (CopticDate, error) {
	if err := d.Validate(); err != nil {
		return CopticDate{}, err
	}

	anchor, year := c.anchor(d)
	elapsed := d.DaysSince(anchor)
	if elapsed < 0 {
		panic(&InvariantError{Input: d, Detail: fmt.Sprintf("date precedes its New Year anchor %s", anchor)})
	}

	var month Month
	var day, length int
	if elapsed < regularDays {
		month = Month(elapsed/monthLength + 1)
		day = elapsed%monthLength + 1
		length = monthLength
	} else {
		month = Nesi
		day = elapsed - (regularDays - 1)
		length = DaysInCopticMonth(year, Nesi)
	}

	if !month.Valid() {
		panic(&InvariantError{Input: d, Detail: fmt.Sprintf("month %d out of range", month)})
	}
	if day < 1 || day > length {
		panic(&InvariantError{Input: d, Detail: fmt.Sprintf("day %d outside 1..%d of %s %d", day, length, month, year)})
	}

	return CopticDate{
		Year:        year,
		Month:       month,
		MonthName:   month.Name(),
		Day:         day,
		Season:      SeasonOf(month),
		DaysInMonth: length,
	}, nil
}

// ToCivil returns the civil date of day/month in Coptic year yc.
func (c Converter) ToCivil(yc int, m Month, day int) (CivilDate, error) {
	if yc < MinCopticYear || yc > MaxCopticYear {
		return CivilDate{}, &InvalidCopticDateError{Year: yc, Month: int(m), Day: day, Reason: "year out of supported range"}
	}
	if !m.Valid() {
		return CivilDate{}, &InvalidCopticDateError{Year: yc, Month: int(m), Day: day, Reason: "month out of range"}
	}
	if day < 1 || day > DaysInCopticMonth(yc, m) {
		return CivilDate{}, &InvalidCopticDateError{Year: yc, Month: int(m), Day: day, Reason: "day out of range for month"}
	}
	start := c.source().NewYear(yc + EpochOffsetAfterNewYear)
	civil := start.AddDays(int(m-1)*monthLength + day - 1)

	// Around Gregorian century years the New Year rule can start the next
	// Coptic year before a sixth day of Nesi is reached.
	if next := c.source().NewYear(yc + EpochOffsetAfterNewYear + 1); !civil.Before(next) {
		return CivilDate{}, &InvalidCopticDateError{Year: yc, Month: int(m), Day: day, Reason: "day does not occur before the next New Year"}
	}
	return civil, nil
}

// ConvertRange converts every civil date from start to end inclusive.
// It returns an empty slice when end is before start.
func (c Converter) ConvertRange(start, end CivilDate) ([]CopticDate, error) {
	if err := start.Validate(); err != nil {
		return nil, err
	}
	if err := end.Validate(); err != nil {
		return nil, err
	}
	n := end.DaysSince(start) + 1
	if n <= 0 {
		return []CopticDate{}, nil
	}
	out := make([]CopticDate, 0, n)
	for d := start; !d.After(end); d = d.AddDays(1) {
		cd, err := c.Convert(d)
		if err != nil {
			return nil, err
		}
		out = append(out, cd)
	}
	return out, nil
}

// anchor returns the New Year date that starts d's Coptic year and the
// Coptic year number. A date equal to this year's New Year belongs to the
// new Coptic year.
func (c Converter) anchor(d CivilDate) (CivilDate, int) {
	src := c.source()
	if ny := src.NewYear(d.Year); !d.Before(ny) {
		return ny, d.Year - EpochOffsetAfterNewYear
	}
	return src.NewYear(d.Year - 1), d.Year - EpochOffsetBeforeNewYear
}

func (c Converter) source() NewYearSource {
	if c.NewYears == nil {
		return RuleNewYears{}
	}
	return c.NewYears
}
