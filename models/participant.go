package models

import "time"

// EventParticipant is a student's registration for an event. At most one
// row may exist per (event, user) pair.
type EventParticipant struct {
	ID       int       `json:"id"`
	EventID  int       `json:"event_id"`
	UserID   int       `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}
