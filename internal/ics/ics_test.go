package ics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"tzcal/internal/calendar"
	"tzcal/internal/event"
)

func newTestCalendar(t *testing.T, name string) *calendar.Calendar {
	t.Helper()
	return calendar.New(name, time.UTC)
}

func addEvent(t *testing.T, c *calendar.Calendar, name, start, end string) *event.Event {
	t.Helper()
	b := event.NewBuilder(name, start, c.Zone())
	if end != "" {
		b.End(end)
	}
	ev, err := b.Build()
	if err != nil {
		t.Fatalf("Build(%s): %v", name, err)
	}
	if err := c.AddSingle(ev, true); err != nil {
		t.Fatalf("AddSingle(%s): %v", name, err)
	}
	return ev
}

// crlf rewrites test fixtures into proper iCalendar line endings.
func crlf(s string) string {
	return strings.ReplaceAll(strings.TrimLeft(s, "\n"), "\n", "\r\n")
}

func TestExportSerializesEvents(t *testing.T) {
	c := newTestCalendar(t, "Work")
	ev := addEvent(t, c, "design review", "2025-04-07T10:00", "2025-04-07T11:00")
	ev.Location = "room 4"
	ev.Status = event.Private

	body := Export(c).Serialize()

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"SUMMARY:design review",
		"LOCATION:room 4",
		"CLASS:PRIVATE",
		"UID:" + ev.ID.String(),
		"X-WR-CALNAME:Work",
		"END:VCALENDAR",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("serialized export is missing %q", want)
		}
	}
}

func TestExportOmitsEmptyOptionalProperties(t *testing.T) {
	c := newTestCalendar(t, "Work")
	addEvent(t, c, "standup", "2025-04-07T10:00", "2025-04-07T10:15")

	body := Export(c).Serialize()
	if strings.Contains(body, "LOCATION:") || strings.Contains(body, "DESCRIPTION:") {
		t.Error("export emitted LOCATION/DESCRIPTION for an event without them")
	}
	if !strings.Contains(body, "CLASS:PUBLIC") {
		t.Error("default visibility should serialize as CLASS:PUBLIC")
	}
}

func TestImportRoundTrip(t *testing.T) {
	src := newTestCalendar(t, "Work")
	orig := addEvent(t, src, "design review", "2025-04-07T10:00", "2025-04-07T11:00")
	orig.Location = "room 4"
	orig.Description = "api surface"
	orig.Status = event.Private
	addEvent(t, src, "standup", "2025-04-08T09:00", "2025-04-08T09:15")

	body := []byte(Export(src).Serialize())

	dst := newTestCalendar(t, "Copy")
	added, errs := ImportInto(dst, body)
	if len(errs) != 0 {
		t.Fatalf("ImportInto() errors = %v", errs)
	}
	if added != 2 {
		t.Fatalf("ImportInto() added = %d, want 2", added)
	}

	events := dst.Events()
	if len(events) != 2 {
		t.Fatalf("target holds %d events, want 2", len(events))
	}
	got := events[0]
	if got.Name != "design review" || got.Location != "room 4" || got.Description != "api surface" {
		t.Errorf("imported event lost properties: %+v", got)
	}
	if got.Status != event.Private {
		t.Errorf("imported status = %v, want Private", got.Status)
	}
	if !got.Start.Equal(orig.Start) || !got.End.Equal(orig.End) {
		t.Errorf("imported span = %v..%v, want %v..%v", got.Start, got.End, orig.Start, orig.End)
	}
	if got.ID == orig.ID {
		t.Error("imported event reused the source identity")
	}
}

func TestImportSkipsBadEvents(t *testing.T) {
	payload := crlf(`
BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//EN
BEGIN:VEVENT
UID:good-1
DTSTAMP:20250401T000000Z
DTSTART:20250407T100000Z
DTEND:20250407T110000Z
SUMMARY:keep me
END:VEVENT
BEGIN:VEVENT
UID:bad-1
DTSTAMP:20250401T000000Z
DTSTART:20250408T100000Z
DTEND:20250408T110000Z
END:VEVENT
END:VCALENDAR
`)

	c := newTestCalendar(t, "Work")
	added, errs := ImportInto(c, []byte(payload))
	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want one SUMMARY error", errs)
	}
	if !strings.Contains(errs[0].Error(), "SUMMARY") {
		t.Errorf("error = %v, want missing SUMMARY", errs[0])
	}
	if len(c.Events()) != 1 || c.Events()[0].Name != "keep me" {
		t.Error("the valid event did not survive the bad sibling")
	}
}

func TestImportRespectsConflictRules(t *testing.T) {
	c := newTestCalendar(t, "Work")
	addEvent(t, c, "blocker", "2025-04-07T10:30", "2025-04-07T11:30")

	payload := crlf(`
BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//EN
BEGIN:VEVENT
UID:clash-1
DTSTAMP:20250401T000000Z
DTSTART:20250407T100000Z
DTEND:20250407T110000Z
SUMMARY:clashes
END:VEVENT
END:VCALENDAR
`)

	added, errs := ImportInto(c, []byte(payload))
	if added != 0 {
		t.Errorf("added = %d, want 0", added)
	}
	if len(errs) != 1 || !errors.Is(errs[0], calendar.ErrConflict) {
		t.Errorf("errs = %v, want ErrConflict", errs)
	}
}

func TestImportRejectsEmptyAndGarbageBodies(t *testing.T) {
	c := newTestCalendar(t, "Work")

	if added, errs := ImportInto(c, nil); added != 0 || len(errs) != 1 {
		t.Errorf("empty body: added = %d, errs = %v", added, errs)
	}
	if added, errs := ImportInto(c, []byte("not an ics payload")); added != 0 || len(errs) != 1 {
		t.Errorf("garbage body: added = %d, errs = %v", added, errs)
	}
}
