// Package timeutil holds the date-time parsing, formatting and
// day-boundary helpers shared by the calendar engine. Every function
// takes an explicit *time.Location; there is no package default zone.
package timeutil

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrMalformedDateTime reports a date/time string that does not match
// "YYYY-MM-DD" or "YYYY-MM-DDThh:mm", or names an impossible calendar
// value.
var ErrMalformedDateTime = errors.New("malformed date/time")

// Layout is the wire shape for date-times: 24-hour clock, minute
// precision, no zone designator.
const Layout = "2006-01-02T15:04"

const dateLayout = "2006-01-02"

var (
	dateShape     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateTimeShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}$`)
)

// Parse reads either "YYYY-MM-DD" (time defaults to 00:00) or
// "YYYY-MM-DDThh:mm" as a wall-clock value in loc and returns the
// corresponding instant.
func Parse(text string, loc *time.Location) (time.Time, error) {
	return parse(text, loc, "00:00")
}

// ParseUntil is Parse, except that a date-only value means the end of
// that local day (23:59). Used for recurrence until-dates.
func ParseUntil(text string, loc *time.Location) (time.Time, error) {
	return parse(text, loc, "23:59")
}

func parse(text string, loc *time.Location, defaultTime string) (time.Time, error) {
	switch {
	case dateShape.MatchString(text):
		text += "T" + defaultTime
	case dateTimeShape.MatchString(text):
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDateTime, text)
	}

	// The shape is right; ParseInLocation still rejects impossible
	// values such as month 13 or minute 71.
	t, err := time.ParseInLocation(Layout, text, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDateTime, text)
	}
	return t, nil
}

// Format renders an instant as "YYYY-MM-DDThh:mm" wall-clock in loc.
func Format(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(Layout)
}

// StartOfDay truncates t to 00:00:00.000000000 of its local day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay extends t to 23:59:59.999999999 of its local day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 23, 59, 59, 999999999, loc)
}

// AddDays shifts t by n local calendar days in loc, preserving the
// wall-clock time of day across DST transitions.
func AddDays(t time.Time, n int, loc *time.Location) time.Time {
	return t.In(loc).AddDate(0, 0, n)
}

// DayDiff returns the signed number of calendar days from a's local
// date in locA to b's local date in locB.
func DayDiff(a time.Time, locA *time.Location, b time.Time, locB *time.Location) int {
	la := a.In(locA)
	lb := b.In(locB)
	da := time.Date(la.Year(), la.Month(), la.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(lb.Year(), lb.Month(), lb.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da) / (24 * time.Hour))
}
