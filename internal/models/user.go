// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account on the platform. A user acts both as a viewer
// and, when other users subscribe to it, as a channel.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique;not null;index" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	FullName string `gorm:"not null" json:"fullname"`
	Password string `gorm:"not null" json:"-"`

	AvatarURL     string `json:"avatar"`
	AvatarKey     string `json:"-"`
	CoverImageURL string `json:"cover_image"`
	CoverImageKey string `json:"-"`

	// RefreshToken holds the single live refresh token for this account.
	// A new login overwrites it, invalidating the previous session.
	RefreshToken string `json:"-"`

	// ResetOTP is the pending password-change one-time code, if any.
	ResetOTP        string     `json:"-"`
	ResetOTPExpires *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Profile is the minimal public projection of a user, embedded in edges,
// channel stats and subscriber listings.
type Profile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullname"`
	Avatar   string `json:"avatar"`
}

// Profile returns the public projection of the user.
func (u *User) Profile() Profile {
	return Profile{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Avatar:   u.AvatarURL,
	}
}

// ChannelProfile is a user viewed as a channel, enriched with subscription
// aggregates relative to the requesting viewer.
type ChannelProfile struct {
	Profile
	CoverImage              string `json:"cover_image"`
	Email                   string `json:"email"`
	SubscribersCount        int64  `json:"subscribers_count"`
	ChannelsSubscribedCount int64  `json:"channels_subscribed_to_count"`
	IsSubscribed            bool   `json:"is_subscribed"`
}

// UserBlock records that blocker has blocked blocked. The pair is unique.
type UserBlock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BlockerID uint      `gorm:"not null;uniqueIndex:idx_blocker_blocked" json:"blocker_id"`
	BlockedID uint      `gorm:"not null;uniqueIndex:idx_blocker_blocked" json:"blocked_id"`
	Blocked   User      `gorm:"foreignKey:BlockedID" json:"blocked"`
	CreatedAt time.Time `json:"created_at"`
}

// WatchHistoryEntry records that a user watched a video. Replays refresh
// WatchedAt rather than appending a second row.
type WatchHistoryEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_history_user_video" json:"user_id"`
	VideoID   uint      `gorm:"not null;uniqueIndex:idx_history_user_video" json:"video_id"`
	Video     Video     `gorm:"foreignKey:VideoID" json:"video"`
	WatchedAt time.Time `json:"watched_at"`
}
