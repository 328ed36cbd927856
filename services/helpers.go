package services

import "github.com/campus-sports/intramural-portal/models"

func sanitizeUser(u *models.User) {
	if u == nil {
		return
	}
	u.PasswordHash = ""
}

func sanitizeUsers(users []models.User) {
	for i := range users {
		users[i].PasswordHash = ""
	}
}

func sanitizePosts(posts []models.Post) {
	for i := range posts {
		sanitizeUser(posts[i].Author)
	}
}

func sanitizeEvents(events []models.Event) {
	for i := range events {
		sanitizeUser(events[i].Creator)
	}
}
