package model

import "time"

type Waiver struct {
	ID                  string    `json:"id"`
	PartnerID           string    `json:"partner_id"`
	Name                string    `json:"name"`
	DocumentVersion     string    `json:"document_version"`
	EffectiveDate       time.Time `json:"effective_date"`
	IsActive            bool      `json:"is_active"`
	Version             int       `json:"version"`
	CreatedByUserID     string    `json:"created_by_user_id"`
	CreatedDate         time.Time `json:"created_date"`
	LastUpdatedByUserID string    `json:"last_updated_by_user_id"`
	LastUpdatedDate     time.Time `json:"last_updated_date"`
}

type WaiverSignature struct {
	WaiverID   string    `json:"waiver_id"`
	UserID     string    `json:"user_id"`
	FullName   string    `json:"full_name"`
	SignedDate time.Time `json:"signed_date"`
}
