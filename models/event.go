package models

import "time"

type Event struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Sport       string    `json:"sport"`
	Date        time.Time `json:"date"`
	EventType   *string   `json:"event_type,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Status      *string   `json:"status,omitempty"`

	// Descriptive match fields. No invariant ties scores to status.
	HomeTeamID *int `json:"home_team_id,omitempty"`
	AwayTeamID *int `json:"away_team_id,omitempty"`
	HomeScore  *int `json:"home_score,omitempty"`
	AwayScore  *int `json:"away_score,omitempty"`

	CreatedBy int       `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`

	Creator *User `json:"creator,omitempty"`

	// Set on student event listings only: the calling user's registration.
	Participation *EventParticipant `json:"participation,omitempty"`
}

// Upcoming reports whether the event has not started yet relative to now.
func (e *Event) Upcoming(now time.Time) bool {
	return !e.Date.Before(now)
}
