package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Observer receives engine notifications. Implementations are
// registered on a Manager; the engine never depends on what consumes
// them (console view, GUI, tests).
type Observer interface {
	// CalendarAdded fires after a calendar is created.
	CalendarAdded(name string)
	// CursorChanged fires when a calendar's UI cursor moves to a new
	// month or year.
	CursorChanged(calendar string, year int, month time.Month)
}

// Manager owns a named collection of calendars, keyed by lowercased
// name, plus the "current calendar" selection. If current is set it
// always refers to a calendar still present in the map.
type Manager struct {
	calendars map[string]*Calendar
	current   *Calendar
	observers []Observer
}

func NewManager() *Manager {
	return &Manager{calendars: make(map[string]*Calendar)}
}

// Subscribe registers an observer. Zero or more may be registered;
// notifications fan out in registration order.
func (m *Manager) Subscribe(o Observer) {
	m.observers = append(m.observers, o)
}

// Create adds a calendar with a unique (case-insensitive) name and an
// IANA zone identifier, makes it current, and notifies observers.
// Unknown zones are ErrInvalidZone, name collisions
// ErrDuplicateCalendarName.
func (m *Manager) Create(name, zone string) (*Calendar, error) {
	key := strings.ToLower(name)
	if _, exists := m.calendars[key]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateCalendarName, name)
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidZone, zone)
	}

	cal := New(name, loc)
	cal.onCursorChange = m.cursorChanged
	m.calendars[key] = cal
	m.current = cal

	for _, o := range m.observers {
		o.CalendarAdded(name)
	}
	return cal, nil
}

// Get resolves a calendar by name, case-insensitively.
func (m *Manager) Get(name string) (*Calendar, error) {
	cal, ok := m.calendars[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCalendarNotFound, name)
	}
	return cal, nil
}

// Use switches the current calendar.
func (m *Manager) Use(name string) error {
	cal, err := m.Get(name)
	if err != nil {
		return err
	}
	m.current = cal
	return nil
}

// Current returns the current calendar, or nil if none is selected.
func (m *Manager) Current() *Calendar {
	return m.current
}

func (m *Manager) Count() int {
	return len(m.calendars)
}

// Names lists the calendars' display names.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.calendars))
	for _, cal := range m.calendars {
		names = append(names, cal.name)
	}
	return names
}

// Remove deletes a calendar and reports whether one was removed.
// Removing the current calendar clears the selection.
func (m *Manager) Remove(name string) bool {
	key := strings.ToLower(name)
	cal, ok := m.calendars[key]
	if !ok {
		return false
	}
	delete(m.calendars, key)
	if m.current == cal {
		m.current = nil
	}
	return true
}

// Rename changes a calendar's name, re-keying the map. The new name
// must be non-empty and not collide case-insensitively.
func (m *Manager) Rename(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("%w: calendar name cannot be empty", ErrInvalidPropertyValue)
	}
	oldKey := strings.ToLower(oldName)
	newKey := strings.ToLower(newName)

	cal, ok := m.calendars[oldKey]
	if !ok {
		return fmt.Errorf("%w: %q", ErrCalendarNotFound, oldName)
	}
	if newKey != oldKey {
		if _, exists := m.calendars[newKey]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateCalendarName, newName)
		}
	}

	delete(m.calendars, oldKey)
	cal.name = newName
	m.calendars[newKey] = cal
	return nil
}

// SetZone replaces a calendar's time zone and re-bases every stored
// event onto it. Re-basing preserves each event's absolute start and
// end instants (and therefore its duration) exactly; only the zone the
// event is displayed in changes. This holds for synthesized all-day
// spans as well, whose boundaries keep the old zone's local midnight
// and end of day as instants.
func (m *Manager) SetZone(name, zone string) error {
	cal, err := m.Get(name)
	if err != nil {
		return err
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidZone, zone)
	}

	cal.loc = loc
	for _, e := range cal.events {
		e.Zone = loc
	}
	return nil
}

func (m *Manager) cursorChanged(calendar string, year int, month time.Month) {
	for _, o := range m.observers {
		o.CursorChanged(calendar, year, month)
	}
}
