package event

import (
	"time"

	"github.com/google/uuid"

	"tzcal/internal/timeutil"
)

// Builder assembles an Event from raw date strings. Parsing is
// deferred to Build so a bad string never produces a half-built
// value. The zone is explicit; callers thread the configured default
// through rather than relying on process state.
type Builder struct {
	name        string
	startText   string
	endText     string
	location    string
	description string
	status      Status
	loc         *time.Location
}

// NewBuilder starts an event named name beginning at startText
// ("YYYY-MM-DD" or "YYYY-MM-DDThh:mm"), interpreted in loc.
func NewBuilder(name, startText string, loc *time.Location) *Builder {
	return &Builder{name: name, startText: startText, loc: loc}
}

// End sets the end date string, parsed in the builder's zone.
func (b *Builder) End(text string) *Builder {
	b.endText = text
	return b
}

func (b *Builder) Location(s string) *Builder {
	b.location = s
	return b
}

func (b *Builder) Description(s string) *Builder {
	b.description = s
	return b
}

func (b *Builder) Status(s Status) *Builder {
	b.status = s
	return b
}

// Build parses the date strings and returns the finished event with a
// fresh identity. A string that fails to parse yields
// timeutil.ErrMalformedDateTime and no event.
func (b *Builder) Build() (*Event, error) {
	loc := b.loc
	if loc == nil {
		loc = time.UTC
	}

	start, err := timeutil.Parse(b.startText, loc)
	if err != nil {
		return nil, err
	}

	var end time.Time
	if b.endText != "" {
		end, err = timeutil.Parse(b.endText, loc)
		if err != nil {
			return nil, err
		}
	}

	return &Event{
		ID:          uuid.New(),
		Name:        b.name,
		Start:       start,
		End:         end,
		Location:    b.location,
		Description: b.description,
		Status:      b.status,
		Zone:        loc,
	}, nil
}
