package model

import "strings"

// EventStatus is the lifecycle status of an event
type EventStatus string

const (
	StatusLive      EventStatus = "LIVE"
	StatusUpcoming  EventStatus = "UPCOMING"
	StatusCompleted EventStatus = "COMPLETED"
)

// Event is a hackathon, challenge or bootcamp listed in the catalog
type Event struct {
	ID           ID          `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Status       EventStatus `json:"status"`
	Type         string      `json:"type"`
	PrizePool    string      `json:"prize_pool"`
	Participants string      `json:"participants"`
	Location     string      `json:"location"`
	StartDate    Timestamp   `json:"start_date"`
	EndDate      Timestamp   `json:"end_date"`
	TeamSize     string      `json:"team_size"`
	Tags         []string    `json:"tags"`
}

// IsLive returns true if the event is currently running
func (e *Event) IsLive() bool {
	return strings.EqualFold(string(e.Status), string(StatusLive))
}

// CalendarEntry is a user's bookmark of an event, joined to the event
type CalendarEntry struct {
	ID      ID        `json:"id,omitempty"`
	UserID  string    `json:"user_id"`
	EventID ID        `json:"event_id"`
	AddedAt Timestamp `json:"added_at"`
	Event   Event     `json:"events"`
}

// TeamInfo is optional team data attached to an event registration
type TeamInfo struct {
	TeamName string   `json:"team_name,omitempty"`
	Members  []string `json:"members,omitempty"`
}

// Registration is a user's sign-up for an event
type Registration struct {
	ID           ID        `json:"id,omitempty"`
	EventID      ID        `json:"event_id"`
	UserID       string    `json:"user_id"`
	TeamInfo     *TeamInfo `json:"team_info"`
	RegisteredAt Timestamp `json:"registered_at"`
	Event        *Event    `json:"events,omitempty"`
}
