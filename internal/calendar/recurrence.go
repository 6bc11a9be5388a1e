package calendar

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"tzcal/internal/event"
	"tzcal/internal/timeutil"
)

// weekdayCodes maps the single-letter weekday codes used by the
// command layer (Mon=M ... Sun=U) onto recurrence-rule weekdays.
var weekdayCodes = map[rune]rrule.Weekday{
	'M': rrule.MO,
	'T': rrule.TU,
	'W': rrule.WE,
	'R': rrule.TH,
	'F': rrule.FR,
	'S': rrule.SA,
	'U': rrule.SU,
}

// parseWeekdays converts a weekday-code string into a deduplicated
// weekday set. Unrecognized letters are ignored; rejecting them is the
// command layer's job.
func parseWeekdays(weekdays string) []rrule.Weekday {
	seen := make(map[rrule.Weekday]bool)
	var days []rrule.Weekday
	for _, ch := range weekdays {
		day, ok := weekdayCodes[ch]
		if !ok || seen[day] {
			continue
		}
		seen[day] = true
		days = append(days, day)
	}
	return days
}

// AddRecurring expands the base event onto the selected weekdays for
// count consecutive weeks and inserts every occurrence. Each selected
// weekday contributes one occurrence per week, starting at the
// next-or-same instance of that weekday after the base start, keeping
// the base's local time of day. count < 1 is
// ErrInvalidRecurrenceCount; an empty effective weekday set yields
// zero occurrences and no error.
//
// The expansion is transactional: every occurrence is conflict-checked
// against the stored events and against the rest of the batch before
// anything is inserted, so a conflict leaves the calendar unchanged.
func (c *Calendar) AddRecurring(base *event.Event, weekdays string, count int) error {
	if count < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidRecurrenceCount, count)
	}
	days := parseWeekdays(weekdays)
	if len(days) == 0 {
		return nil
	}

	baseStart, baseEnd, err := c.recurrenceBounds(base)
	if err != nil {
		return err
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   baseStart,
		Byweekday: days,
		// count weeks, one occurrence per selected weekday per week.
		Count: count * len(days),
	})
	if err != nil {
		return err
	}

	return c.insertOccurrences(base, r.All(), baseStart, baseEnd, time.Time{})
}

// AddRecurringUntil expands the base event onto the selected weekdays
// week after week for as long as some weekday still lands on or before
// the until date. A date-only until means the end of that local day.
// An occurrence whose end would pass the until date has its end
// clamped to it. Transactional like AddRecurring.
func (c *Calendar) AddRecurringUntil(base *event.Event, weekdays, untilText string) error {
	until, err := timeutil.ParseUntil(untilText, c.loc)
	if err != nil {
		return err
	}
	days := parseWeekdays(weekdays)
	if len(days) == 0 {
		return nil
	}

	baseStart, baseEnd, err := c.recurrenceBounds(base)
	if err != nil {
		return err
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   baseStart,
		Byweekday: days,
		Until:     until,
	})
	if err != nil {
		return err
	}

	return c.insertOccurrences(base, r.All(), baseStart, baseEnd, until)
}

// recurrenceBounds normalizes the base event's span into the
// calendar's zone. A base with no end spans until the end of its
// start's local day.
func (c *Calendar) recurrenceBounds(base *event.Event) (start, end time.Time, err error) {
	start = base.Start.In(c.loc)
	if base.End.IsZero() {
		end = timeutil.EndOfDay(start, c.loc)
	} else {
		end = base.End.In(c.loc)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: base end precedes base start", ErrInvalidRange)
	}
	return start, end, nil
}

// insertOccurrences materializes one event per occurrence start,
// conflict-checks the whole batch, then commits it. A non-zero clamp
// caps occurrence ends.
func (c *Calendar) insertOccurrences(base *event.Event, starts []time.Time, baseStart, baseEnd time.Time, clamp time.Time) error {
	// The occurrence end keeps the base's local time of day plus the
	// base's start-to-end day offset.
	dayOffset := timeutil.DayDiff(baseStart, c.loc, baseEnd, c.loc)
	endLocal := baseEnd.In(c.loc)

	batch := make([]*event.Event, 0, len(starts))
	for _, occStart := range starts {
		endDay := timeutil.AddDays(occStart, dayOffset, c.loc)
		occEnd := time.Date(endDay.Year(), endDay.Month(), endDay.Day(),
			endLocal.Hour(), endLocal.Minute(), endLocal.Second(), endLocal.Nanosecond(), c.loc)
		if !clamp.IsZero() && occEnd.After(clamp) {
			occEnd = clamp
		}

		occ := &event.Event{
			ID:          uuid.New(),
			Name:        base.Name,
			Start:       occStart,
			End:         occEnd,
			Location:    base.Location,
			Description: base.Description,
			Status:      base.Status,
			Zone:        c.loc,
		}

		if conflicting := c.findConflict(occ); conflicting != nil {
			return fmt.Errorf("%w: occurrence at %s overlaps %q", ErrConflict,
				timeutil.Format(occStart, c.loc), conflicting.Name)
		}
		for _, prior := range batch {
			if prior.ConflictsWith(occ) {
				return fmt.Errorf("%w: occurrence at %s overlaps the series itself", ErrConflict,
					timeutil.Format(occStart, c.loc))
			}
		}
		batch = append(batch, occ)
	}

	for _, occ := range batch {
		c.events = append(c.events, occ)
		c.index.add(occ)
	}
	return nil
}
