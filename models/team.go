package models

import "time"

type Team struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Sport      string    `json:"sport"`
	Department *string   `json:"department,omitempty"`
	CreatedBy  int       `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`

	Creator     *User  `json:"creator,omitempty"`
	Members     []User `json:"members,omitempty"`
	MemberCount int    `json:"member_count"`
}
