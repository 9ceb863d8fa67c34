package domain

import "time"

// DailyBrief summarizes the day ahead for the login notification.
type DailyBrief struct {
	Date       string  `json:"date"`
	EventCount int     `json:"event_count"`
	FirstEvent string  `json:"first_event,omitempty"`
	LastEvent  string  `json:"last_event,omitempty"`
	BusyHours  float64 `json:"busy_hours"`
}

// Conflict is a pair of events that overlap in time.
type Conflict struct {
	First   CalendarEvent `json:"first"`
	Second  CalendarEvent `json:"second"`
	Overlap time.Duration `json:"overlap_ns"`
}

// Suggestion proposes a free slot between scheduled events.
type Suggestion struct {
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type FriendUpdate struct {
	FriendName string    `json:"friend_name"`
	Summary    string    `json:"summary"`
	At         time.Time `json:"at"`
}

// LoginPayload is the aggregate returned on login. Degraded marks the
// fallback payload produced when the session is missing or a dependency
// failed, so callers can tell "no notifications" from "service failed".
type LoginPayload struct {
	Brief         *DailyBrief    `json:"brief"`
	Conflicts     []Conflict     `json:"conflicts"`
	Suggestions   []Suggestion   `json:"suggestions"`
	FriendUpdates []FriendUpdate `json:"friend_updates"`
	Degraded      bool           `json:"degraded"`
}

// EmptyLoginPayload is the all-empty degraded fallback.
func EmptyLoginPayload() LoginPayload {
	return LoginPayload{
		Conflicts:     []Conflict{},
		Suggestions:   []Suggestion{},
		FriendUpdates: []FriendUpdate{},
		Degraded:      true,
	}
}
