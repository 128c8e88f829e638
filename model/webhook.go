package model

// IdentityUserPayload is the body the identity provider posts when a user
// signs up or is removed.
type IdentityUserPayload struct {
	SubjectID string `json:"subject_id"`
	UserName  string `json:"user_name"`
	Email     string `json:"email"`
}
