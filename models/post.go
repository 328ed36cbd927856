package models

import "time"

// Post is a feed entry. Posts authored by ADMIN users double as
// announcements.
type Post struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"image_url,omitempty"`
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Author *User `json:"author,omitempty"`
}
