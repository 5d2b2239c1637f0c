// Package clock supplies wall-clock reads. Day-boundary and regeneration
// logic take a Clock so tests can move time by hand.
package clock

import (
	"sync"
	"time"
)

const dayLayout = "2006-01-02"

type Clock interface {
	Now() time.Time
}

// System reads the real wall clock in UTC.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Manual is a goroutine-safe clock that only moves when told to.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.now
}

func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = t
}

func (m *Manual) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = m.now.Add(d)

	return m.now
}

// Day returns the calendar day of t in loc as YYYY-MM-DD.
func Day(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	return t.In(loc).Format(dayLayout)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return Day(a, loc) == Day(b, loc)
}
