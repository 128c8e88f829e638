package model

import "time"

// InviteBatch groups a set of outbound email invitations tracked as one
// unit with aggregate send statistics.
type InviteBatch struct {
	ID             string    `json:"id"`
	SentByUserID   string    `json:"sent_by_user_id"`
	TotalCount     int       `json:"total_count"`
	SentCount      int       `json:"sent_count"`
	FailedCount    int       `json:"failed_count"`
	CreatedDate    time.Time `json:"created_date"`
}

type UserInvite struct {
	ID              string    `json:"id"`
	BatchID         string    `json:"batch_id"`
	Email           string    `json:"email"`
	Status          string    `json:"status"` // "sent", "failed", "accepted"
	SentDate        time.Time `json:"sent_date"`
	CreatedByUserID string    `json:"created_by_user_id"`
	CreatedDate     time.Time `json:"created_date"`
}

type InviteBatchRequest struct {
	Emails  []string `json:"emails" binding:"required,min=1,dive,email"`
	Message string   `json:"message,omitempty"`
}
