package model

import "time"

type User struct {
	ID                  string    `json:"id"`
	UserName            string    `json:"user_name"`
	Email               string    `json:"email"`
	City                string    `json:"city,omitempty"`
	Region              string    `json:"region,omitempty"`
	IsSiteAdmin         bool      `json:"is_site_admin"`
	MemberSince         time.Time `json:"member_since"`
	DateAgreedToWaiver  time.Time `json:"date_agreed_to_waiver,omitempty"`
	CreatedByUserID     string    `json:"created_by_user_id"`
	CreatedDate         time.Time `json:"created_date"`
	LastUpdatedByUserID string    `json:"last_updated_by_user_id"`
	LastUpdatedDate     time.Time `json:"last_updated_date"`
}

type UserSearchCriteria struct {
	UserName string `json:"user_name,omitempty"`
	Email    string `json:"email,omitempty"`
	City     string `json:"city,omitempty"`
	Region   string `json:"region,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}
