package model

// StatsSummary is the public platform-wide metrics payload.
type StatsSummary struct {
	TotalEvents    int `json:"total_events"`
	TotalAttendees int `json:"total_attendees"`
	TotalBags      int `json:"total_bags"`
	TotalHours     int `json:"total_hours"`
}

type TeamLeaderboardEntry struct {
	TeamID          string `json:"team_id"`
	TeamName        string `json:"team_name"`
	BagsCollected   int    `json:"bags_collected"`
	EventsCompleted int    `json:"events_completed"`
}
