package models

import (
	"time"
)

// Metadata holds the social-preview fields for one link. The row is
// created in the same transaction as its Link and lives exactly as long.
// Fields are independently nullable; NULL means "nothing extracted and
// nothing set by the owner".
type Metadata struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	LinkID      uint      `gorm:"unique;not null;index" json:"link_id"`
	Title       *string   `gorm:"size:255" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	ImageURL    *string   `gorm:"type:text" json:"image_url"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Metadata) TableName() string {
	return "link_metadata"
}
