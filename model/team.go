package model

import "time"

// Team name is unique across the whole platform. Teams are soft deleted.
type Team struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description,omitempty"`
	IsActive            bool      `json:"is_active"`
	Version             int       `json:"version"`
	CreatedByUserID     string    `json:"created_by_user_id"`
	CreatedDate         time.Time `json:"created_date"`
	LastUpdatedByUserID string    `json:"last_updated_by_user_id"`
	LastUpdatedDate     time.Time `json:"last_updated_date"`
}

type TeamMember struct {
	TeamID     string    `json:"team_id"`
	UserID     string    `json:"user_id"`
	IsLead     bool      `json:"is_lead"`
	JoinedDate time.Time `json:"joined_date"`
}

// TeamPhoto is blob-backed and hard deleted. New photos start in the
// "pending" moderation state and are hidden from public listings until
// approved.
type TeamPhoto struct {
	ID                  string    `json:"id"`
	TeamID              string    `json:"team_id"`
	BlobKey             string    `json:"blob_key"`
	Caption             string    `json:"caption,omitempty"`
	ModerationStatus    string    `json:"moderation_status"` // "pending", "approved", "rejected"
	CreatedByUserID     string    `json:"created_by_user_id"`
	CreatedDate         time.Time `json:"created_date"`
	LastUpdatedByUserID string    `json:"last_updated_by_user_id"`
	LastUpdatedDate     time.Time `json:"last_updated_date"`
}
