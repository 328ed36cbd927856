package models

type DashboardStats struct {
	TotalStudents int `json:"total_students"`
	TotalTeams    int `json:"total_teams"`
	TotalEvents   int `json:"total_events"`
	TotalPosts    int `json:"total_posts"`
}

type TeamDistribution struct {
	Name    string `json:"name"`
	Members int    `json:"members"`
}

type AdminDashboard struct {
	Stats            DashboardStats     `json:"stats"`
	LatestPosts      []Post             `json:"latest_posts"`
	RecentEvents     []Event            `json:"recent_events"`
	TeamDistribution []TeamDistribution `json:"team_distribution"`
}

type StudentDashboard struct {
	Student     *User   `json:"student"`
	Posts       []Post  `json:"posts"`
	Events      []Event `json:"events"`
	TeamMembers []User  `json:"team_members"`
}
