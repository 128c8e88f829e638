package model

import "time"

type Event struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description,omitempty"`
	PartnerID           string    `json:"partner_id,omitempty"`
	EventDate           time.Time `json:"event_date"`
	DurationHours       int       `json:"duration_hours"`
	StreetAddress       string    `json:"street_address,omitempty"`
	City                string    `json:"city,omitempty"`
	Region              string    `json:"region,omitempty"`
	Country             string    `json:"country,omitempty"`
	Latitude            float64   `json:"latitude,omitempty"`
	Longitude           float64   `json:"longitude,omitempty"`
	MaxParticipants     int       `json:"max_participants,omitempty"`
	IsPublic            bool      `json:"is_public"`
	Status              string    `json:"status"` // "active", "completed", "canceled"
	Version             int       `json:"version"`
	CreatedByUserID     string    `json:"created_by_user_id"`
	CreatedDate         time.Time `json:"created_date"`
	LastUpdatedByUserID string    `json:"last_updated_by_user_id"`
	LastUpdatedDate     time.Time `json:"last_updated_date"`
}

type EventAttendee struct {
	EventID    string    `json:"event_id"`
	UserID     string    `json:"user_id"`
	IsLead     bool      `json:"is_lead"`
	SignUpDate time.Time `json:"sign_up_date"`
}

// EventSummary captures post-event cleanup results reported by the lead.
type EventSummary struct {
	EventID             string    `json:"event_id"`
	ActualAttendeeCount int       `json:"actual_attendee_count"`
	BagsCollected       int       `json:"bags_collected"`
	DurationHours       int       `json:"duration_hours"`
	Notes               string    `json:"notes,omitempty"`
	CreatedByUserID     string    `json:"created_by_user_id"`
	CreatedDate         time.Time `json:"created_date"`
	LastUpdatedByUserID string    `json:"last_updated_by_user_id"`
	LastUpdatedDate     time.Time `json:"last_updated_date"`
}
