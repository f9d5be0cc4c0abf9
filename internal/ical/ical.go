// Package ical exports a Coptic year's fixed feasts as an iCalendar feed.
package ical

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	goical "github.com/emersion/go-ical"

	"github.com/zapponejosh/coptic-calendar-api/internal/calendar"
	"github.com/zapponejosh/coptic-calendar-api/internal/slug"
)

const (
	productID = "-//Coptic Calendar API//Feasts//EN"
	uidDomain = "coptic-calendar"
)

// emptyCalendar is returned when no feast falls in the year; the encoder
// refuses a VCALENDAR without components.
const emptyCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + productID + "\r\nEND:VCALENDAR\r\n"

type occurrence struct {
	feast calendar.Feast
	civil calendar.CivilDate
}

// Export renders every feast of table that occurs in Coptic year copticYear
// as an all-day event. Feasts on a day the year lacks (the sixth of Nesi in
// a common year) are skipped. now stamps DTSTAMP.
func Export(conv calendar.Converter, table calendar.FeastTable, copticYear int, now time.Time) ([]byte, error) {
	var occs []occurrence
	for _, f := range table.Entries() {
		civil, err := conv.ToCivil(copticYear, f.Month, f.Day)
		if err != nil {
			continue
		}
		occs = append(occs, occurrence{feast: f, civil: civil})
	}
	if len(occs) == 0 {
		return []byte(emptyCalendar), nil
	}
	sort.SliceStable(occs, func(i, j int) bool { return occs[i].civil.Before(occs[j].civil) })

	cal := goical.NewCalendar()
	cal.Props.SetText(goical.PropVersion, "2.0")
	cal.Props.SetText(goical.PropProductID, productID)
	cal.Props.SetText(goical.PropCalendarScale, "GREGORIAN")
	cal.Props.SetText(goical.PropMethod, "PUBLISH")
	cal.Props.SetText("X-WR-CALNAME", fmt.Sprintf("Coptic feasts %d A.M.", copticYear))

	stamp := now.UTC()
	for _, o := range occs {
		cal.Children = append(cal.Children, event(o, copticYear, stamp).Component)
	}

	var buf bytes.Buffer
	if err := goical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode icalendar: %w", err)
	}
	return buf.Bytes(), nil
}

func event(o occurrence, copticYear int, stamp time.Time) *goical.Event {
	e := goical.NewEvent()
	e.Props.SetText(goical.PropUID, UID(o.feast, copticYear))
	e.Props.SetDateTime(goical.PropDateTimeStamp, stamp)
	e.Props.SetDate(goical.PropDateTimeStart, o.civil.Time())
	e.Props.SetDate(goical.PropDateTimeEnd, o.civil.AddDays(1).Time())
	e.Props.SetText(goical.PropSummary, o.feast.Name)
	e.Props.SetText(goical.PropDescription, fmt.Sprintf("%d %s %d A.M.", o.feast.Day, o.feast.Month, copticYear))
	e.Props.SetText(goical.PropCategories, string(o.feast.Kind))
	e.Props.SetText(goical.PropTransparency, "TRANSPARENT")
	return e
}

// UID is the stable identifier of a feast's event in one Coptic year.
// Month and day are part of it because a name can repeat (two Feasts of
// the Cross).
func UID(f calendar.Feast, copticYear int) string {
	name := slug.From(f.Name)
	if name == "" {
		name = "feast"
	}
	return fmt.Sprintf("%s-%d-%d-%d@%s", name, int(f.Month), f.Day, copticYear, uidDomain)
}
