package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestNewCivilDate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   time.Month
		day     int
		wantErr bool
	}{
		{"ordinary date", 2024, time.September, 11, false},
		{"leap day in leap year", 2024, time.February, 29, false},
		{"leap day in common year", 2023, time.February, 29, true},
		{"leap day in 1900", 1900, time.February, 29, true},
		{"leap day in 2000", 2000, time.February, 29, false},
		{"february 30", 2024, time.February, 30, true},
		{"april 31", 2024, time.April, 31, true},
		{"day zero", 2024, time.January, 0, true},
		{"month zero", 2024, 0, 1, true},
		{"month thirteen", 2024, 13, 1, true},
		{"last supported year", MaxCivilYear, time.December, 31, false},
		{"first supported year", MinCivilYear, time.January, 1, false},
		{"year past supported range", MaxCivilYear + 1, time.January, 1, true},
		{"year before supported range", MinCivilYear - 1, time.December, 31, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCivilDate(tt.year, tt.month, tt.day)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewCivilDate(%d, %d, %d) error = %v, wantErr %v", tt.year, tt.month, tt.day, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidDate) {
				t.Errorf("error %v does not match ErrInvalidDate", err)
			}
		})
	}
}

func TestParseCivilDate(t *testing.T) {
	d, err := ParseCivilDate("2024-09-11")
	if err != nil {
		t.Fatalf("ParseCivilDate() error = %v", err)
	}
	if d != (CivilDate{Year: 2024, Month: time.September, Day: 11}) {
		t.Errorf("ParseCivilDate() = %+v", d)
	}

	for _, bad := range []string{"", "2024-9-11", "2024-02-30", "11-09-2024", "not a date"} {
		if _, err := ParseCivilDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseCivilDate(%q) error = %v, want ErrInvalidDate", bad, err)
		}
	}
}

func TestFromTime_UsesOwnLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 2024-09-10 20:00 UTC is already September 11 in Tokyo.
	instant := time.Date(2024, time.September, 10, 20, 0, 0, 0, time.UTC)

	if got := FromTime(instant); got.Day != 10 {
		t.Errorf("FromTime(UTC) day = %d, want 10", got.Day)
	}
	if got := FromTime(instant.In(tokyo)); got.Day != 11 {
		t.Errorf("FromTime(JST) day = %d, want 11", got.Day)
	}
}

func TestCivilDate_Compare(t *testing.T) {
	a := CivilDate{Year: 2024, Month: time.September, Day: 11}
	tests := []struct {
		name  string
		other CivilDate
		want  int
	}{
		{"same day", a, 0},
		{"earlier year later month", CivilDate{Year: 2023, Month: time.December, Day: 31}, 1},
		{"same year earlier month", CivilDate{Year: 2024, Month: time.August, Day: 30}, 1},
		{"same month later day", CivilDate{Year: 2024, Month: time.September, Day: 12}, -1},
		{"next year", CivilDate{Year: 2025, Month: time.January, Day: 1}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Compare(tt.other); got != tt.want {
				t.Errorf("Compare() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCivilDate_DaysSinceMatchesTime(t *testing.T) {
	// Cross-check the integer day arithmetic against time.Time in UTC,
	// which has no DST transitions.
	base := CivilDate{Year: 1900, Month: time.January, Day: 1}
	for d := base; d.Year < 2201; d = d.AddDays(17) {
		want := int(d.Time().Sub(base.Time()).Hours() / 24)
		if got := d.DaysSince(base); got != want {
			t.Fatalf("%s.DaysSince(%s) = %d, want %d", d, base, got, want)
		}
		if FromTime(d.Time()) != d {
			t.Fatalf("round trip through time.Time changed %s", d)
		}
	}
}

func TestCivilDate_AddDays(t *testing.T) {
	tests := []struct {
		from CivilDate
		n    int
		want CivilDate
	}{
		{CivilDate{2024, time.February, 28}, 1, CivilDate{2024, time.February, 29}},
		{CivilDate{2023, time.February, 28}, 1, CivilDate{2023, time.March, 1}},
		{CivilDate{2024, time.December, 31}, 1, CivilDate{2025, time.January, 1}},
		{CivilDate{2025, time.January, 1}, -1, CivilDate{2024, time.December, 31}},
		{CivilDate{1970, time.January, 1}, 0, CivilDate{1970, time.January, 1}},
		{CivilDate{-4, time.March, 1}, -1, CivilDate{-4, time.February, 29}},
		{CivilDate{-1, time.March, 1}, -1, CivilDate{-1, time.February, 28}},
	}

	for _, tt := range tests {
		if got := tt.from.AddDays(tt.n); got != tt.want {
			t.Errorf("%s.AddDays(%d) = %s, want %s", tt.from, tt.n, got, tt.want)
		}
	}
}

func TestIsGregorianLeapYear(t *testing.T) {
	leap := []int{1600, 1996, 2000, 2004, 2024, 2400}
	common := []int{1700, 1800, 1900, 2023, 2025, 2100, 2200, 2300}

	for _, y := range leap {
		if !IsGregorianLeapYear(y) {
			t.Errorf("IsGregorianLeapYear(%d) = false, want true", y)
		}
	}
	for _, y := range common {
		if IsGregorianLeapYear(y) {
			t.Errorf("IsGregorianLeapYear(%d) = true, want false", y)
		}
	}
}
