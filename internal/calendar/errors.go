package calendar

import "errors"

// Failure kinds returned by calendar and manager operations. Every
// operation either completes or returns one of these with no partial
// mutation; callers discriminate with errors.Is.
var (
	ErrInvalidRange           = errors.New("event end precedes start")
	ErrConflict               = errors.New("conflicting event")
	ErrInvalidRecurrenceCount = errors.New("recurrence count must be >= 1")
	ErrNoMatchingEvent        = errors.New("no matching event")
	ErrInvalidPropertyValue   = errors.New("invalid property value")
	ErrCalendarNotFound       = errors.New("calendar not found")
	ErrDuplicateCalendarName  = errors.New("calendar name already exists")
	ErrInvalidZone            = errors.New("invalid time zone")
)
