// Package ics bridges the calendar engine to the iCalendar format.
// It works purely on in-memory values; file and network I/O belong to
// the caller.
package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"tzcal/internal/calendar"
)

// Export renders a calendar as a VCALENDAR with one VEVENT per stored
// event. Timestamps are emitted as absolute (UTC) values, so the
// export survives zone re-basing unchanged; the event's visibility
// maps onto the CLASS property.
func Export(c *calendar.Calendar) *ical.Calendar {
	out := ical.NewCalendar()
	out.SetMethod(ical.MethodPublish)
	out.SetXWRCalName(c.Name())
	out.SetXWRTimezone(c.Zone().String())

	now := time.Now()
	for _, e := range c.Events() {
		ve := out.AddEvent(e.ID.String())
		ve.SetDtStampTime(now)
		ve.SetStartAt(e.Start)
		ve.SetEndAt(e.EffectiveEnd())
		ve.SetSummary(e.Name)
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		// Raw property name, as the library's CLASS constant is not
		// present in all releases.
		ve.SetProperty(ical.ComponentProperty("CLASS"), e.Status.String())
	}
	return out
}
