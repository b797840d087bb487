package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a comment on a video. ParentID links a reply to the comment it
// answers; nil means top-level. Reply depth is not limited.
type Comment struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	VideoID uint `gorm:"not null;index" json:"video_id"`
	OwnerID uint `gorm:"not null;index" json:"owner_id"`
	Owner   User `gorm:"foreignKey:OwnerID" json:"owner"`

	Content  string `gorm:"type:text;not null" json:"content"`
	ParentID *uint  `gorm:"index" json:"parent_id,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Tweet is a short text post attached to a channel.
type Tweet struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OwnerID uint `gorm:"not null;index" json:"owner_id"`
	Owner   User `gorm:"foreignKey:OwnerID" json:"owner"`

	Content string `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Playlist is an owner-curated ordered collection of videos.
type Playlist struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OwnerID uint `gorm:"not null;index" json:"owner_id"`
	Owner   User `gorm:"foreignKey:OwnerID" json:"owner"`

	Name        string  `gorm:"not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Videos      []Video `gorm:"many2many:playlist_videos" json:"videos,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
