package model

import "time"

// Area is an adoptable cleanup area inside a partner community. Areas are
// soft deleted; the name is unique within the owning partner.
type Area struct {
	ID                  string    `json:"id"`
	PartnerID           string    `json:"partner_id"`
	Name                string    `json:"name"`
	Description         string    `json:"description,omitempty"`
	Notes               string    `json:"notes,omitempty"`
	AdoptedByTeamID     string    `json:"adopted_by_team_id,omitempty"`
	IsActive            bool      `json:"is_active"`
	Version             int       `json:"version"`
	CreatedByUserID     string    `json:"created_by_user_id"`
	CreatedDate         time.Time `json:"created_date"`
	LastUpdatedByUserID string    `json:"last_updated_by_user_id"`
	LastUpdatedDate     time.Time `json:"last_updated_date"`
}

// PickupLocation is a bagged-trash pickup point inside an area. Pickup
// locations are hard deleted.
type PickupLocation struct {
	ID                  string    `json:"id"`
	AreaID              string    `json:"area_id"`
	Name                string    `json:"name,omitempty"`
	Latitude            float64   `json:"latitude"`
	Longitude           float64   `json:"longitude"`
	Notes               string    `json:"notes,omitempty"`
	HasBeenPickedUp     bool      `json:"has_been_picked_up"`
	CreatedByUserID     string    `json:"created_by_user_id"`
	CreatedDate         time.Time `json:"created_date"`
	LastUpdatedByUserID string    `json:"last_updated_by_user_id"`
	LastUpdatedDate     time.Time `json:"last_updated_date"`
}
