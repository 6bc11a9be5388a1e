// Package calendar implements the scheduling engine: per-calendar
// event storage with conflict detection, recurrence expansion,
// range/point search, three-granularity edits, cross-calendar copies,
// and the multi-calendar manager with zone re-basing.
//
// The engine is single-threaded by design. No operation blocks or
// performs I/O; callers sharing a Manager across goroutines must
// serialize access themselves.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tzcal/internal/event"
	"tzcal/internal/timeutil"
)

// Availability is the answer to a point-in-time status query.
type Availability int

const (
	Available Availability = iota
	Busy
)

func (a Availability) String() string {
	if a == Busy {
		return "BUSY"
	}
	return "AVAILABLE"
}

// Calendar owns an ordered event collection plus its secondary index.
// The two are kept in sync by every mutating operation: an event in
// the slice is always reachable through both index maps, and the index
// holds no entry for an event outside the slice.
//
// All date strings are interpreted as wall-clock values in the
// calendar's zone.
type Calendar struct {
	name   string
	loc    *time.Location
	events []*event.Event
	index  eventIndex

	// UI cursor; engine state only, no scheduling meaning.
	curYear  int
	curMonth time.Month
	curDay   int

	// Installed by the owning Manager to fan out cursor changes.
	onCursorChange func(name string, year int, month time.Month)
}

// New creates an empty calendar whose date strings are read in loc.
// The cursor starts at the current local date.
func New(name string, loc *time.Location) *Calendar {
	now := time.Now().In(loc)
	return &Calendar{
		name:     name,
		loc:      loc,
		index:    newEventIndex(),
		curYear:  now.Year(),
		curMonth: now.Month(),
		curDay:   now.Day(),
	}
}

func (c *Calendar) Name() string {
	return c.name
}

// Zone is the calendar's current time zone.
func (c *Calendar) Zone() *time.Location {
	return c.loc
}

// Events returns a copy of the event list in insertion order.
func (c *Calendar) Events() []*event.Event {
	out := make([]*event.Event, len(c.events))
	copy(out, c.events)
	return out
}

// AddSingle inserts one event. An event without an end becomes an
// all-day span (local midnight through 23:59:59.999999999 of the same
// local day) before validation. An end before the start is
// ErrInvalidRange; any overlap with a stored event is ErrConflict.
// Either failure leaves the calendar untouched.
//
// autoDecline is accepted for call-site parity with the command
// layer; conflicting events are rejected regardless of its value.
func (c *Calendar) AddSingle(ev *event.Event, autoDecline bool) error {
	if ev.End.IsZero() {
		ev.Start = timeutil.StartOfDay(ev.Start, c.loc)
		ev.End = timeutil.EndOfDay(ev.Start, c.loc)
	}

	if ev.End.Before(ev.Start) {
		return fmt.Errorf("%w: end %s before start %s", ErrInvalidRange,
			timeutil.Format(ev.End, c.loc), timeutil.Format(ev.Start, c.loc))
	}
	if conflicting := c.findConflict(ev); conflicting != nil {
		return fmt.Errorf("%w: %q overlaps %q", ErrConflict, ev.Name, conflicting.Name)
	}

	c.events = append(c.events, ev)
	c.index.add(ev)
	return nil
}

// Remove deletes the event stored under (name, start). The start
// string is parsed in the calendar's zone.
func (c *Calendar) Remove(name, startText string) error {
	start, err := timeutil.Parse(startText, c.loc)
	if err != nil {
		return err
	}
	ev := c.index.byKey(name, start)
	if ev == nil {
		return fmt.Errorf("%w: %q at %s", ErrNoMatchingEvent, name, startText)
	}

	for i, e := range c.events {
		if e == ev {
			c.events = append(c.events[:i], c.events[i+1:]...)
			break
		}
	}
	c.index.remove(ev)
	return nil
}

// SearchRange returns every event whose span strictly overlaps
// [from, to): start < to and effective end > from.
func (c *Calendar) SearchRange(fromText, toText string) ([]*event.Event, error) {
	from, err := timeutil.Parse(fromText, c.loc)
	if err != nil {
		return nil, err
	}
	to, err := timeutil.Parse(toText, c.loc)
	if err != nil {
		return nil, err
	}
	return c.eventsInRange(from, to), nil
}

// SearchOn returns the events overlapping the local day that begins
// at dateText: [point, point + 1 local day).
func (c *Calendar) SearchOn(dateText string) ([]*event.Event, error) {
	from, err := timeutil.Parse(dateText, c.loc)
	if err != nil {
		return nil, err
	}
	to := timeutil.AddDays(from, 1, c.loc)
	return c.eventsInRange(from, to), nil
}

// StatusOn reports Busy iff some event's [start, end] span contains
// the given point, inclusive on both ends.
func (c *Calendar) StatusOn(dateTimeText string) (Availability, error) {
	at, err := timeutil.Parse(dateTimeText, c.loc)
	if err != nil {
		return Available, err
	}
	for _, e := range c.events {
		if !at.Before(e.Start) && !at.After(e.EffectiveEnd()) {
			return Busy, nil
		}
	}
	return Available, nil
}

// EditExact mutates the single event stored under (name, start). A
// non-empty endText acts as a filter: it must equal the stored end or
// the edit fails with ErrNoMatchingEvent.
func (c *Calendar) EditExact(property, name, startText, endText, newValue string) error {
	start, err := timeutil.Parse(startText, c.loc)
	if err != nil {
		return err
	}
	target := c.index.byKey(name, start)
	if target == nil {
		return fmt.Errorf("%w: %q at %s", ErrNoMatchingEvent, name, startText)
	}
	if endText != "" {
		end, err := timeutil.Parse(endText, c.loc)
		if err != nil {
			return err
		}
		if !target.End.Equal(end) {
			return fmt.Errorf("%w: end time does not match", ErrNoMatchingEvent)
		}
	}
	return c.applyEdit(target, property, newValue)
}

// EditFrom mutates every event with the given name whose start is at
// or after the floor. ErrNoMatchingEvent if none qualified.
func (c *Calendar) EditFrom(property, name, startFloorText, newValue string) error {
	floor, err := timeutil.Parse(startFloorText, c.loc)
	if err != nil {
		return err
	}
	found := false
	for _, e := range c.index.eventsByName(name) {
		if e.Start.Before(floor) {
			continue
		}
		if err := c.applyEdit(e, property, newValue); err != nil {
			return err
		}
		found = true
	}
	if !found {
		return fmt.Errorf("%w: %q starting from %s", ErrNoMatchingEvent, name, startFloorText)
	}
	return nil
}

// EditAll mutates every event with the given name, unconditionally.
// ErrNoMatchingEvent if the name is unknown.
func (c *Calendar) EditAll(property, name, newValue string) error {
	candidates := c.index.eventsByName(name)
	if len(candidates) == 0 {
		return fmt.Errorf("%w: %q", ErrNoMatchingEvent, name)
	}
	for _, e := range candidates {
		if err := c.applyEdit(e, property, newValue); err != nil {
			return err
		}
	}
	return nil
}

// applyEdit mutates one property in place and reindexes when the
// (name, start) key changed.
func (c *Calendar) applyEdit(ev *event.Event, property, newValue string) error {
	old := ev.Clone()

	switch strings.ToLower(strings.TrimSpace(property)) {
	case "name", "eventname":
		if strings.TrimSpace(newValue) == "" {
			return fmt.Errorf("%w: event name cannot be empty", ErrInvalidPropertyValue)
		}
		ev.Name = newValue
	case "location":
		ev.Location = newValue
	case "description":
		ev.Description = newValue
	case "status":
		st, err := event.ParseStatus(newValue)
		if err != nil {
			return fmt.Errorf("%w: status %q", ErrInvalidPropertyValue, newValue)
		}
		ev.Status = st
	case "start", "startdatetime":
		start, err := timeutil.Parse(newValue, c.loc)
		if err != nil {
			return err
		}
		if !ev.End.IsZero() && start.After(ev.End) {
			return fmt.Errorf("%w: start would follow end", ErrInvalidRange)
		}
		ev.Start = start
	case "end", "enddatetime":
		end, err := timeutil.Parse(newValue, c.loc)
		if err != nil {
			return err
		}
		if end.Before(ev.Start) {
			return fmt.Errorf("%w: end would precede start", ErrInvalidRange)
		}
		ev.End = end
	default:
		return fmt.Errorf("%w: unknown property %q", ErrInvalidPropertyValue, property)
	}

	if old.Name != ev.Name || !old.Start.Equal(ev.Start) {
		c.index.reindex(old, ev)
	}
	return nil
}

// CopySingle copies the event stored under (name, sourceStart) into
// target at targetStart, preserving the source duration,
// location, description and status. targetStart is parsed in the
// target's zone and the copy is authored there; insertion goes
// through the target's AddSingle, so its conflict rules apply.
func (c *Calendar) CopySingle(name, sourceStartText string, target *Calendar, targetStartText string) error {
	sourceStart, err := timeutil.Parse(sourceStartText, c.loc)
	if err != nil {
		return err
	}
	src := c.index.byKey(name, sourceStart)
	if src == nil {
		return fmt.Errorf("%w: %q at %s", ErrNoMatchingEvent, name, sourceStartText)
	}

	duration := src.EffectiveEnd().Sub(src.Start)

	targetStart, err := timeutil.Parse(targetStartText, target.loc)
	if err != nil {
		return err
	}

	copied := src.Clone()
	copied.ID = uuid.New()
	copied.Start = targetStart
	copied.End = targetStart.Add(duration)
	copied.Zone = target.loc
	return target.AddSingle(copied, false)
}

// CopyOnDay copies every event overlapping the source local day onto
// the target calendar, shifted by the whole-day difference between the
// two local days (each computed in its own zone). Copies are inserted
// sequentially; the first conflict stops the batch and earlier copies
// remain in the target.
func (c *Calendar) CopyOnDay(sourceDayText string, target *Calendar, targetDayText string) error {
	sourceDay, err := timeutil.Parse(sourceDayText, c.loc)
	if err != nil {
		return err
	}
	dayStart := timeutil.StartOfDay(sourceDay, c.loc)
	dayEnd := timeutil.EndOfDay(sourceDay, c.loc)
	matching := c.eventsInRange(dayStart, dayEnd)

	targetDay, err := timeutil.Parse(targetDayText, target.loc)
	if err != nil {
		return err
	}
	dayDiff := timeutil.DayDiff(dayStart, c.loc, targetDay, target.loc)

	return c.copyShifted(matching, target, dayDiff)
}

// CopyBetween copies every event whose start falls in [from, to]
// inclusive, anchored so that from's local day maps to targetBase's
// local day in the target zone.
func (c *Calendar) CopyBetween(fromText, toText string, target *Calendar, targetBaseText string) error {
	from, err := timeutil.Parse(fromText, c.loc)
	if err != nil {
		return err
	}
	to, err := timeutil.Parse(toText, c.loc)
	if err != nil {
		return err
	}

	var matching []*event.Event
	for _, e := range c.events {
		if !e.Start.Before(from) && !e.Start.After(to) {
			matching = append(matching, e)
		}
	}

	targetBase, err := timeutil.Parse(targetBaseText, target.loc)
	if err != nil {
		return err
	}
	dayDiff := timeutil.DayDiff(from, c.loc, targetBase, target.loc)

	return c.copyShifted(matching, target, dayDiff)
}

// copyShifted inserts copies of the given events into target, each
// shifted by dayDiff local calendar days in the source zone and
// re-expressed in the target zone.
func (c *Calendar) copyShifted(events []*event.Event, target *Calendar, dayDiff int) error {
	for _, src := range events {
		copied := src.Clone()
		copied.ID = uuid.New()
		copied.Start = timeutil.AddDays(src.Start, dayDiff, c.loc)
		copied.End = timeutil.AddDays(src.EffectiveEnd(), dayDiff, c.loc)
		copied.Zone = target.loc
		if err := target.AddSingle(copied, false); err != nil {
			return err
		}
	}
	return nil
}

// SetCurrentMonth moves the UI cursor and notifies listeners.
func (c *Calendar) SetCurrentMonth(m time.Month) {
	c.curMonth = m
	c.notifyCursor()
}

// SetCurrentYear moves the UI cursor and notifies listeners.
func (c *Calendar) SetCurrentYear(y int) {
	c.curYear = y
	c.notifyCursor()
}

func (c *Calendar) SetCurrentDay(d int) {
	c.curDay = d
}

func (c *Calendar) CurrentMonth() time.Month { return c.curMonth }
func (c *Calendar) CurrentYear() int         { return c.curYear }
func (c *Calendar) CurrentDay() int          { return c.curDay }

func (c *Calendar) notifyCursor() {
	if c.onCursorChange != nil {
		c.onCursorChange(c.name, c.curYear, c.curMonth)
	}
}

// findConflict returns the first stored event overlapping ev, or nil.
func (c *Calendar) findConflict(ev *event.Event) *event.Event {
	for _, existing := range c.events {
		if existing.ConflictsWith(ev) {
			return existing
		}
	}
	return nil
}

func (c *Calendar) eventsInRange(from, to time.Time) []*event.Event {
	var matching []*event.Event
	for _, e := range c.events {
		if e.Start.Before(to) && e.EffectiveEnd().After(from) {
			matching = append(matching, e)
		}
	}
	return matching
}
