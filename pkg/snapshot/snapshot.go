// Package snapshot merges provider updates into immutable snapshots. Each
// update replaces only its own source's slot; a snapshot is never mutated
// after it is published.
package snapshot

import (
	"sort"
	"time"

	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
)

// Entry is one source's slot in a snapshot.
type Entry struct {
	Value   providers.Value
	Seq     uint64
	Updated time.Time

	// Stale is set when the source's latest emission was an error. Value is
	// then the last good reading.
	Stale bool
}

// Snapshot is an immutable view of every present source. Absent sources
// have no entry.
type Snapshot struct {
	version uint64
	entries map[string]Entry
}

// Empty returns a snapshot with every source absent.
func Empty() *Snapshot {
	return &Snapshot{entries: map[string]Entry{}}
}

// Version increases by one for every published snapshot.
func (s *Snapshot) Version() uint64 {
	if s == nil {
		return 0
	}
	return s.version
}

// Get returns the value of the named source.
func (s *Snapshot) Get(source string) (providers.Value, bool) {
	e, ok := s.Entry(source)
	return e.Value, ok
}

// Entry returns the named source's slot.
func (s *Snapshot) Entry(source string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	e, ok := s.entries[source]
	return e, ok
}

// Sources returns the names of present sources in sorted order.
func (s *Snapshot) Sources() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of present sources.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Lookup returns the first value of variant T, scanning sources in name
// order. Mappers use it so that any source of the right kind feeds them.
func Lookup[T providers.Value](s *Snapshot) (T, bool) {
	var zero T
	for _, name := range s.Sources() {
		if v, ok := s.entries[name].Value.(T); ok {
			return v, true
		}
	}
	return zero, false
}

// LookupEntry is Lookup that also returns the slot metadata.
func LookupEntry[T providers.Value](s *Snapshot) (T, Entry, bool) {
	var zero T
	for _, name := range s.Sources() {
		e := s.entries[name]
		if v, ok := e.Value.(T); ok {
			return v, e, true
		}
	}
	return zero, Entry{}, false
}

// with returns a copy of s with one slot replaced or removed.
func (s *Snapshot) with(source string, e Entry, present bool) *Snapshot {
	next := &Snapshot{
		version: s.version + 1,
		entries: make(map[string]Entry, len(s.entries)+1),
	}
	for k, v := range s.entries {
		next.entries[k] = v
	}
	if present {
		next.entries[source] = e
	} else {
		delete(next.entries, source)
	}
	return next
}
