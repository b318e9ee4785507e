// Package eventlog keeps a bounded, de-duplicated record of simulation
// occurrences for display and search.
package eventlog

import (
	"strings"
	"sync"
)

// Category classifies a log entry, derived from the originating event kind.
type Category string

const (
	CategoryDeparture    Category = "departure"
	CategoryArrival      Category = "arrival"
	CategoryCancellation Category = "flight-cancelled"
	CategorySystem       Category = "system"
)

// Entry is one simulation event. VirtualTime is seconds since timeline
// start, not wall-clock time.
type Entry struct {
	ID          string   `json:"id"`
	Category    Category `json:"category"`
	Message     string   `json:"message"`
	VirtualTime float64  `json:"virtualTime"`
	AirportID   string   `json:"airportId,omitempty"`
	FlightID    string   `json:"flightId,omitempty"`
	OrderID     string   `json:"orderId,omitempty"`
}

// Log is a bounded ring buffer, newest first. Append de-duplicates by entry
// id; filtering and search are pure read-side projections.
type Log struct {
	mu      sync.RWMutex
	maxSize int
	entries []Entry
	seen    map[string]bool
}

func NewLog(maxSize int) *Log {
	if maxSize <= 0 {
		maxSize = 50
	}
	return &Log{
		maxSize: maxSize,
		entries: make([]Entry, 0, maxSize),
		seen:    make(map[string]bool),
	}
}

// Append inserts the entry at the head unless its id was already recorded.
// Returns true when the entry was added.
func (l *Log) Append(entry Entry) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.ID != "" && l.seen[entry.ID] {
		return false
	}
	l.seen[entry.ID] = true

	l.entries = append([]Entry{entry}, l.entries...)
	if len(l.entries) > l.maxSize {
		for _, trimmed := range l.entries[l.maxSize:] {
			delete(l.seen, trimmed.ID)
		}
		l.entries = l.entries[:l.maxSize]
	}
	return true
}

// Entries returns a copy of the buffer, newest first.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Filter returns entries whose category is in the given set. An empty set
// returns everything.
func (l *Log) Filter(categories ...Category) []Entry {
	if len(categories) == 0 {
		return l.Entries()
	}
	wanted := make(map[Category]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []Entry
	for _, e := range l.entries {
		if wanted[e.Category] {
			out = append(out, e)
		}
	}
	return out
}

// Search returns entries matching the query case-insensitively across
// message, airport id and flight id.
func (l *Log) Search(query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return l.Entries()
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []Entry
	for _, e := range l.entries {
		if strings.Contains(strings.ToLower(e.Message), q) ||
			strings.Contains(strings.ToLower(e.AirportID), q) ||
			strings.Contains(strings.ToLower(e.FlightID), q) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the current number of retained entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear drops all entries and dedup bookkeeping.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
	l.seen = make(map[string]bool)
}
