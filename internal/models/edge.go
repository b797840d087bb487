package models

import "time"

// Like links a user to exactly one liked target: a video, a comment or a
// tweet. The unused target references stay nil. Each (user, target) pair is
// unique; duplicate creates are swallowed by ON CONFLICT DO NOTHING.
type Like struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	LikedByID uint `gorm:"not null;uniqueIndex:idx_like_video;uniqueIndex:idx_like_comment;uniqueIndex:idx_like_tweet" json:"liked_by_id"`
	LikedBy   User `gorm:"foreignKey:LikedByID" json:"liked_by"`

	VideoID   *uint    `gorm:"uniqueIndex:idx_like_video" json:"video_id,omitempty"`
	Video     *Video   `gorm:"foreignKey:VideoID" json:"video,omitempty"`
	CommentID *uint    `gorm:"uniqueIndex:idx_like_comment" json:"comment_id,omitempty"`
	Comment   *Comment `gorm:"foreignKey:CommentID" json:"comment,omitempty"`
	TweetID   *uint    `gorm:"uniqueIndex:idx_like_tweet" json:"tweet_id,omitempty"`
	Tweet     *Tweet   `gorm:"foreignKey:TweetID" json:"tweet,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Subscription records that subscriber follows channel. The pair is unique.
type Subscription struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	SubscriberID uint `gorm:"not null;uniqueIndex:idx_sub_channel" json:"subscriber_id"`
	Subscriber   User `gorm:"foreignKey:SubscriberID" json:"subscriber"`
	ChannelID    uint `gorm:"not null;uniqueIndex:idx_sub_channel" json:"channel_id"`
	Channel      User `gorm:"foreignKey:ChannelID" json:"channel"`

	CreatedAt time.Time `json:"created_at"`
}

// WatchLater saves a video on a user's watch-later list. The pair is unique.
type WatchLater struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	UserID  uint  `gorm:"not null;uniqueIndex:idx_watch_later_user_video" json:"user_id"`
	User    User  `gorm:"foreignKey:UserID" json:"user"`
	VideoID uint  `gorm:"not null;uniqueIndex:idx_watch_later_user_video" json:"video_id"`
	Video   Video `gorm:"foreignKey:VideoID" json:"video"`

	CreatedAt time.Time `json:"created_at"`
}
