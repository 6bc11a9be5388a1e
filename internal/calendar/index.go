package calendar

import (
	"strconv"
	"strings"
	"time"

	"tzcal/internal/event"
)

// eventIndex keeps two secondary maps over a calendar's event slice:
// an exact (lowercased name, start instant) key and a per-name list in
// insertion order. Both reference the same *event.Event values the
// calendar owns; the index never copies event data.
//
// The start key deliberately excludes the end time. Two events sharing
// name and start overwrite each other in byStartKey; the name list
// keeps both. See DESIGN.md.
type eventIndex struct {
	byStartKey map[string]*event.Event
	byName     map[string][]*event.Event
}

func newEventIndex() eventIndex {
	return eventIndex{
		byStartKey: make(map[string]*event.Event),
		byName:     make(map[string][]*event.Event),
	}
}

// startKey builds the exact-match key: lowercased name + "|" + start
// epoch nanoseconds.
func startKey(name string, start time.Time) string {
	return strings.ToLower(name) + "|" + strconv.FormatInt(start.UnixNano(), 10)
}

func (ix *eventIndex) add(ev *event.Event) {
	ix.byStartKey[startKey(ev.Name, ev.Start)] = ev

	nameKey := strings.ToLower(ev.Name)
	ix.byName[nameKey] = append(ix.byName[nameKey], ev)
}

// remove drops the event from both maps. The name-list removal is by
// identity, so an event that lost the byStartKey slot to a later
// duplicate still leaves the list correctly.
func (ix *eventIndex) remove(ev *event.Event) {
	key := startKey(ev.Name, ev.Start)
	if cur, ok := ix.byStartKey[key]; ok && cur == ev {
		delete(ix.byStartKey, key)
	}

	nameKey := strings.ToLower(ev.Name)
	list := ix.byName[nameKey]
	for i, e := range list {
		if e == ev {
			ix.byName[nameKey] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(ix.byName[nameKey]) == 0 {
		delete(ix.byName, nameKey)
	}
}

// byKey returns the event stored under (name, start), or nil.
func (ix *eventIndex) byKey(name string, start time.Time) *event.Event {
	return ix.byStartKey[startKey(name, start)]
}

// eventsByName returns a copy of the name list (case-insensitive).
func (ix *eventIndex) eventsByName(name string) []*event.Event {
	list := ix.byName[strings.ToLower(name)]
	if len(list) == 0 {
		return nil
	}
	out := make([]*event.Event, len(list))
	copy(out, list)
	return out
}

// reindex swaps an event's entries after a key-changing edit: the old
// key state is removed, the current state added.
func (ix *eventIndex) reindex(old, updated *event.Event) {
	key := startKey(old.Name, old.Start)
	if cur, ok := ix.byStartKey[key]; ok && cur == updated {
		delete(ix.byStartKey, key)
	}

	nameKey := strings.ToLower(old.Name)
	list := ix.byName[nameKey]
	for i, e := range list {
		if e == updated {
			ix.byName[nameKey] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(ix.byName[nameKey]) == 0 {
		delete(ix.byName, nameKey)
	}

	ix.add(updated)
}
