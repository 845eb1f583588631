package service

import "time"

// Event is a calendar entry.
type Event struct {
	// Start is the event start, or midnight of the day for all-day events.
	Start time.Time

	// AllDay is true when the event has a date but no time.
	AllDay bool

	Summary string
}
