package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFeasts_NewYearIsNayrouz(t *testing.T) {
	cd := mustCoptic(t, ymd(2024, time.September, 11))
	assert.Contains(t, DefaultFeasts().For(cd), "Coptic New Year (Nayrouz)")
}

func TestDefaultFeasts_Nativity(t *testing.T) {
	cd := mustCoptic(t, ymd(2025, time.January, 7))
	assert.Equal(t, []string{"Nativity of Christ (Christmas)"}, DefaultFeasts().For(cd))
}

func TestDefaultFeasts_Saints(t *testing.T) {
	tests := []struct {
		date CivilDate
		want string
	}{
		{ymd(2025, time.January, 30), "Departure of St. Antony the Great"},
		{ymd(2025, time.May, 1), "Martyrdom of St. George"},
		{ymd(2025, time.May, 8), "Martyrdom of St. Mark the Evangelist"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			entries := DefaultFeasts().FeastsFor(mustCoptic(t, tt.date))
			require.Len(t, entries, 1)
			assert.Equal(t, tt.want, entries[0].Name)
		})
	}
	assert.Equal(t, KindMinor, DefaultFeasts().FeastsFor(mustCoptic(t, ymd(2025, time.January, 30)))[0].Kind)
}

func TestDefaultFeasts_AllValid(t *testing.T) {
	table := DefaultFeasts()
	require.Positive(t, table.Len())

	_, err := NewFeastTable(table.Entries())
	assert.NoError(t, err)
}

func TestFeastTable_ForPreservesDeclarationOrder(t *testing.T) {
	table, err := NewFeastTable([]Feast{
		{Month: Paope, Day: 6, Name: "Second commemoration", Kind: KindMinor},
		{Month: Hathor, Day: 1, Name: "Unrelated", Kind: KindMinor},
		{Month: Paope, Day: 6, Name: "First commemoration", Kind: KindMajor},
	})
	require.NoError(t, err)

	// 2026-10-16 is 6 Paope 1743.
	cd := mustCoptic(t, ymd(2026, time.October, 16))
	require.Equal(t, Paope, cd.Month)
	require.Equal(t, 6, cd.Day)

	assert.Equal(t, []string{"Second commemoration", "First commemoration"}, table.For(cd))
	assert.Equal(t, []string{"Second commemoration", "First commemoration"}, FeastDaysFor(table, cd))

	entries := table.FeastsFor(cd)
	require.Len(t, entries, 2)
	assert.Equal(t, KindMajor, entries[1].Kind)
}

func TestFeastTable_NoMatchIsEmptyNotNil(t *testing.T) {
	cd := mustCoptic(t, ymd(2024, time.September, 20))

	names := DefaultFeasts().For(cd)
	assert.NotNil(t, names)
	assert.Empty(t, names)

	var zero FeastTable
	assert.NotNil(t, zero.For(cd))
	assert.NotNil(t, zero.FeastsFor(cd))
	assert.Equal(t, 0, zero.Len())
}

func TestNewFeastTable_Validation(t *testing.T) {
	tests := []struct {
		name    string
		feast   Feast
		wantErr string
	}{
		{"month zero", Feast{Month: 0, Day: 1, Name: "x", Kind: KindMinor}, "month must be between 1 and 13"},
		{"month fourteen", Feast{Month: 14, Day: 1, Name: "x", Kind: KindMinor}, "month must be between 1 and 13"},
		{"day thirty one", Feast{Month: Tobi, Day: 31, Name: "x", Kind: KindMinor}, "day must be between 1 and 30"},
		{"nesi seven", Feast{Month: Nesi, Day: 7, Name: "x", Kind: KindMinor}, "day must be between 1 and 6"},
		{"missing name", Feast{Month: Tobi, Day: 1, Kind: KindMinor}, "name is required"},
		{"unknown kind", Feast{Month: Tobi, Day: 1, Name: "x", Kind: "great"}, "kind must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFeastTable([]Feast{tt.feast})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := NewFeastTable([]Feast{{Month: Nesi, Day: 6, Name: "Leap day", Kind: KindMinor}})
	assert.NoError(t, err)
}

func TestFeastTable_IsImmutable(t *testing.T) {
	src := []Feast{{Month: Thoout, Day: 1, Name: "Nayrouz", Kind: KindMajor}}
	table, err := NewFeastTable(src)
	require.NoError(t, err)

	src[0].Name = "changed"
	entries := table.Entries()
	entries[0].Name = "changed again"

	assert.Equal(t, "Nayrouz", table.Entries()[0].Name)
}

func TestFeastTable_InMonth(t *testing.T) {
	table, err := NewFeastTable([]Feast{
		{Month: Tobi, Day: 13, Name: "Cana", Kind: KindMinor},
		{Month: Tobi, Day: 6, Name: "Circumcision", Kind: KindMinor},
		{Month: Kiahk, Day: 29, Name: "Nativity", Kind: KindLord},
		{Month: Tobi, Day: 11, Name: "Theophany", Kind: KindLord},
	})
	require.NoError(t, err)

	var names []string
	for _, f := range table.InMonth(Tobi) {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Circumcision", "Theophany", "Cana"}, names)
	assert.Empty(t, table.InMonth(Nesi))
	assert.Empty(t, table.InMonth(0))
}
