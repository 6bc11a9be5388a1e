package ics

import (
	"bytes"
	"errors"
	"fmt"

	ical "github.com/arran4/golang-ical"

	"tzcal/internal/calendar"
	"tzcal/internal/event"
	appLog "tzcal/internal/log"
	"tzcal/internal/timeutil"
)

// ImportInto parses an ICS payload and inserts its VEVENTs into the
// calendar. Each event is rebuilt through the event builder in the
// calendar's zone and inserted through AddSingle, so the usual range
// and conflict rules apply. A bad VEVENT is recorded and skipped; the
// rest of the payload still imports. Returns the number of events
// added plus the per-event errors.
func ImportInto(c *calendar.Calendar, body []byte) (int, []error) {
	if len(body) == 0 {
		return 0, []error{errors.New("empty ICS body")}
	}

	parsed, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return 0, []error{err}
	}

	added := 0
	var errs []error
	for _, ve := range parsed.Events() {
		ev, perr := buildEvent(c, ve)
		if perr == nil {
			perr = c.AddSingle(ev, false)
		}
		if perr != nil {
			appLog.Error("ics import: event skipped", perr, "calendar", c.Name())
			errs = append(errs, perr)
			continue
		}
		added++
	}

	appLog.Info("ics import completed", "calendar", c.Name(), "added", added, "skipped", len(errs))
	return added, errs
}

// buildEvent converts one VEVENT into an engine event via the builder.
// Instants round-trip through the engine's minute-precision wire shape
// in the calendar's zone.
func buildEvent(c *calendar.Calendar, ve *ical.VEvent) (*event.Event, error) {
	summary := ve.GetProperty(ical.ComponentPropertySummary)
	if summary == nil || summary.Value == "" {
		return nil, errors.New("missing SUMMARY")
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return nil, fmt.Errorf("bad DTSTART: %w", err)
	}

	b := event.NewBuilder(summary.Value, timeutil.Format(start, c.Zone()), c.Zone())

	if end, err := ve.GetEndAt(); err == nil && !end.IsZero() {
		b.End(timeutil.Format(end, c.Zone()))
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		b.Location(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		b.Description(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentProperty("CLASS")); p != nil {
		if st, err := event.ParseStatus(p.Value); err == nil {
			b.Status(st)
		}
	}

	return b.Build()
}
