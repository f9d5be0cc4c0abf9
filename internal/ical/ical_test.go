package ical

import (
	"bytes"
	"testing"
	"time"

	goical "github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/coptic-calendar-api/internal/calendar"
)

var fixedNow = time.Date(2026, time.October, 16, 9, 30, 0, 0, time.UTC)

func decode(t *testing.T, data []byte) *goical.Calendar {
	t.Helper()
	cal, err := goical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)
	return cal
}

func TestExport_DefaultFeasts(t *testing.T) {
	data, err := Export(calendar.Converter{}, calendar.DefaultFeasts(), 1741, fixedNow)
	require.NoError(t, err)

	cal := decode(t, data)
	events := cal.Events()
	require.Len(t, events, calendar.DefaultFeasts().Len())

	first := events[0]
	summary, err := first.Props.Text(goical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Coptic New Year (Nayrouz)", summary)

	start, err := first.DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.September, 11, 0, 0, 0, 0, time.UTC), start)

	uid, err := first.Props.Text(goical.PropUID)
	require.NoError(t, err)
	assert.Equal(t, "coptic-new-year-nayrouz-1-1-1741@coptic-calendar", uid)

	category, err := first.Props.Text(goical.PropCategories)
	require.NoError(t, err)
	assert.Equal(t, "major", category)
}

func TestExport_ChronologicalAndUnique(t *testing.T) {
	data, err := Export(calendar.Converter{}, calendar.DefaultFeasts(), 1741, fixedNow)
	require.NoError(t, err)

	seen := map[string]bool{}
	var prev time.Time
	for _, e := range decode(t, data).Events() {
		uid, err := e.Props.Text(goical.PropUID)
		require.NoError(t, err)
		assert.False(t, seen[uid], "duplicate UID %s", uid)
		seen[uid] = true

		start, err := e.DateTimeStart(time.UTC)
		require.NoError(t, err)
		assert.False(t, start.Before(prev), "%s out of order", uid)
		prev = start
	}
}

func TestExport_NativityDate(t *testing.T) {
	table, err := calendar.NewFeastTable([]calendar.Feast{
		{Month: calendar.Kiahk, Day: 29, Name: "Nativity of Christ (Christmas)", Kind: calendar.KindLord},
	})
	require.NoError(t, err)

	data, err := Export(calendar.Converter{}, table, 1741, fixedNow)
	require.NoError(t, err)

	events := decode(t, data).Events()
	require.Len(t, events, 1)
	start, err := events[0].DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 7, 0, 0, 0, 0, time.UTC), start)
}

func TestExport_SkipsMissingLeapDay(t *testing.T) {
	table, err := calendar.NewFeastTable([]calendar.Feast{
		{Month: calendar.Nesi, Day: 6, Name: "Leap day", Kind: calendar.KindMinor},
	})
	require.NoError(t, err)

	leap, err := Export(calendar.Converter{}, table, 1739, fixedNow)
	require.NoError(t, err)
	assert.Len(t, decode(t, leap).Events(), 1)

	common, err := Export(calendar.Converter{}, table, 1741, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, emptyCalendar, string(common))
}

func TestUID_FallsBackForNonLatinNames(t *testing.T) {
	f := calendar.Feast{Month: calendar.Tobi, Day: 11, Name: "Ⲡⲓⲱⲙⲥ", Kind: calendar.KindLord}
	assert.Equal(t, "feast-5-11-1741@coptic-calendar", UID(f, 1741))
}
