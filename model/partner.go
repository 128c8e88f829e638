package model

import "time"

// Partner is the organizational tenant (community) that owns areas,
// sponsors, waivers and admin memberships.
type Partner struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Slug                string    `json:"slug"`
	Description         string    `json:"description,omitempty"`
	Website             string    `json:"website,omitempty"`
	ContactEmail        string    `json:"contact_email,omitempty"`
	IsActive            bool      `json:"is_active"`
	Version             int       `json:"version"`
	CreatedByUserID     string    `json:"created_by_user_id"`
	CreatedDate         time.Time `json:"created_date"`
	LastUpdatedByUserID string    `json:"last_updated_by_user_id"`
	LastUpdatedDate     time.Time `json:"last_updated_date"`
}

type PartnerAdmin struct {
	PartnerID string    `json:"partner_id"`
	UserID    string    `json:"user_id"`
	AddedDate time.Time `json:"added_date"`
}

type Sponsor struct {
	ID                  string    `json:"id"`
	PartnerID           string    `json:"partner_id"`
	Name                string    `json:"name"`
	Tier                string    `json:"tier,omitempty"`
	Website             string    `json:"website,omitempty"`
	IsActive            bool      `json:"is_active"`
	Version             int       `json:"version"`
	CreatedByUserID     string    `json:"created_by_user_id"`
	CreatedDate         time.Time `json:"created_date"`
	LastUpdatedByUserID string    `json:"last_updated_by_user_id"`
	LastUpdatedDate     time.Time `json:"last_updated_date"`
}
