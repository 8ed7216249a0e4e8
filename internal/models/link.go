package models

import (
	"time"
)

// Link maps a short code to its destination URL. Short codes are never
// recycled: a soft-deleted row keeps its code reserved so old shares
// cannot be repointed at someone else's destination.
type Link struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserID            uint       `gorm:"not null;index" json:"user_id"`
	User              *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ShortCode         string     `gorm:"unique;not null;size:20;index" json:"short_code"`
	OriginalURL       string     `gorm:"not null;type:text" json:"original_url"`
	CreatedAt         time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	IsActive          bool       `gorm:"default:true;index" json:"is_active"`
	HasCustomMetadata bool       `gorm:"default:false" json:"has_custom_metadata"`

	Metadata *Metadata `gorm:"foreignKey:LinkID" json:"metadata,omitempty"`
	Clicks   []Click   `gorm:"foreignKey:LinkID;constraint:OnDelete:CASCADE" json:"clicks,omitempty"`
}

func (Link) TableName() string {
	return "links"
}

// Expired reports whether the link has an expiry in the past relative to now.
func (l *Link) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}
