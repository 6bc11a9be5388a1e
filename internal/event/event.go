// Package event defines the calendar event value and its builder.
package event

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tzcal/internal/timeutil"
)

// Status is an event's visibility.
type Status int

const (
	Public Status = iota
	Private
)

// ErrUnknownStatus reports a visibility literal that is neither
// "public" nor "private".
var ErrUnknownStatus = errors.New("unknown status")

func (s Status) String() string {
	if s == Private {
		return "PRIVATE"
	}
	return "PUBLIC"
}

// ParseStatus reads a visibility literal, case-insensitively.
func ParseStatus(text string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "PUBLIC":
		return Public, nil
	case "PRIVATE":
		return Private, nil
	default:
		return Public, fmt.Errorf("%w: %q", ErrUnknownStatus, text)
	}
}

// Event is one calendar entry. Start is always set; End may be the
// zero value only before the owning calendar stores the event (the
// calendar synthesizes an all-day span on insert). Zone records the
// zone the event was authored in and drives display formatting; the
// instants themselves are absolute.
//
// Events are mutated in place by calendar edit operations. Name and
// Start form the calendar's lookup key, so any change to them must go
// through a reindex.
type Event struct {
	ID uuid.UUID

	Name  string
	Start time.Time
	End   time.Time

	Location    string
	Description string
	Status      Status

	Zone *time.Location
}

// EffectiveEnd is End, or Start for an event with no end yet. It is
// the upper bound of the event's span in conflict and range tests.
func (e *Event) EffectiveEnd() time.Time {
	if e.End.IsZero() {
		return e.Start
	}
	return e.End
}

// ConflictsWith reports whether the two events' spans strictly
// overlap. Touching endpoints (one event ending exactly when another
// starts) do not conflict. The test is symmetric.
func (e *Event) ConflictsWith(other *Event) bool {
	if other == nil {
		return false
	}
	return e.Start.Before(other.EffectiveEnd()) && e.EffectiveEnd().After(other.Start)
}

// Clone returns a value copy sharing the same ID. Edit operations
// snapshot the old key state this way before mutating.
func (e *Event) Clone() *Event {
	c := *e
	return &c
}

// String renders the event in its authoring zone.
func (e *Event) String() string {
	loc := e.Zone
	if loc == nil {
		loc = time.UTC
	}
	return fmt.Sprintf("Event: %s | Start: %s | End: %s | Location: %s | Status: %s",
		e.Name,
		timeutil.Format(e.Start, loc),
		timeutil.Format(e.EffectiveEnd(), loc),
		e.Location,
		e.Status)
}
