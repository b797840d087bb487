package models

import (
	"time"

	"gorm.io/gorm"
)

// Video represents an uploaded video. Media files live in blob storage; the
// row keeps the public URLs plus the object keys needed for deletion.
type Video struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OwnerID uint `gorm:"not null;index" json:"owner_id"`
	Owner   User `gorm:"foreignKey:OwnerID" json:"owner"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`

	VideoURL     string `gorm:"not null" json:"video_url"`
	VideoKey     string `json:"-"`
	ThumbnailURL string `gorm:"not null" json:"thumbnail"`
	ThumbnailKey string `json:"-"`

	Duration float64 `json:"duration"`
	Views    int64   `gorm:"default:0" json:"views"`

	Category string   `json:"category"`
	Tags     []string `gorm:"serializer:json" json:"tags"`

	IsPublished bool `gorm:"not null;default:true" json:"is_published"`

	// LikesCount is not persisted; computed at query time.
	LikesCount int64 `gorm:"->" json:"likes_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// VideoMetadata is a persisted AI generation result for a transcript.
type VideoMetadata struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Titles      []string `gorm:"serializer:json" json:"titles"`
	Description string   `gorm:"type:text" json:"description"`
	Tags        []string `gorm:"serializer:json" json:"tags"`
	Summary     string   `gorm:"type:text" json:"summary"`
	Moderation  string   `json:"moderation"`

	CreatedAt time.Time `json:"created_at"`
}
