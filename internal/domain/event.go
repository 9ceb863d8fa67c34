package domain

import (
	"errors"
	"time"
)

var ErrEventNotFound = errors.New("calendar event not found")

type CalendarEvent struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
}

// Overlaps reports whether two events share any span of time.
// Touching boundaries (one ends exactly when the other starts) do not
// count as an overlap.
func (e CalendarEvent) Overlaps(o CalendarEvent) bool {
	return e.Start.Before(o.End) && o.Start.Before(e.End)
}

// Duration returns the event length, zero for malformed ranges.
func (e CalendarEvent) Duration() time.Duration {
	if e.End.Before(e.Start) {
		return 0
	}
	return e.End.Sub(e.Start)
}
