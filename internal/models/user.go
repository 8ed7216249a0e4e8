package models

import (
	"time"
)

// User is created on a user's first authenticated action. The identity
// itself lives with the external provider; ExternalID is its opaque
// subject. The active-link count is derived from the links table and is
// never stored here.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ExternalID string    `gorm:"unique;not null;size:255;index" json:"external_id"`
	APIKey     string    `gorm:"unique;index;size:36" json:"api_key"`
	CreatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	Links      []Link    `gorm:"foreignKey:UserID" json:"links,omitempty"`
}
