package model

import (
	"time"
)

// Feed is a content source catalog entry. The catalog is read-only from the
// onboarding workflow's perspective; rows are seeded at startup.
type Feed struct {
	UUID        string    `json:"uuid" db:"uuid"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Language    string    `json:"language" db:"language"`
	Categories  []string  `json:"categories" db:"categories"`
	IconURL     string    `json:"icon_url" db:"icon_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Feed model
func (Feed) TableName() string {
	return "rss_feeds"
}
