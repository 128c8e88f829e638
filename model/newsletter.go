package model

import "time"

type NewsletterSubscription struct {
	Email          string    `json:"email"`
	IsActive       bool      `json:"is_active"`
	SubscribedDate time.Time `json:"subscribed_date"`
}

// NewsletterSendRequest is handed to the external send queue; this layer
// only enqueues it.
type NewsletterSendRequest struct {
	Subject     string    `json:"subject"`
	BodyHTML    string    `json:"body_html"`
	RequestedBy string    `json:"requested_by"`
	RequestedAt time.Time `json:"requested_at"`
}
