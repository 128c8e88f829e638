package model

import "time"

// CMSPost mirrors the upstream content service's post shape. PublishedAt is
// optional upstream, hence the pointer.
type CMSPost struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Description string     `json:"description"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}
