package repository

import (
	"context"
	"time"

	"viewtube/internal/cache"
	"viewtube/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EdgeRepository persists the user relationship edges: likes, subscriptions,
// watch-later entries and watch history. Every Insert* is atomic via
// ON CONFLICT DO NOTHING and returns the created row, or nil when a
// concurrent duplicate toggle already holds the pair, so the caller's report
// stays truthful.
type EdgeRepository interface {
	InsertVideoLike(ctx context.Context, userID, videoID uint) (*models.Like, error)
	DeleteVideoLike(ctx context.Context, userID, videoID uint) (bool, error)
	InsertCommentLike(ctx context.Context, userID, commentID uint) (*models.Like, error)
	DeleteCommentLike(ctx context.Context, userID, commentID uint) (bool, error)
	InsertTweetLike(ctx context.Context, userID, tweetID uint) (*models.Like, error)
	DeleteTweetLike(ctx context.Context, userID, tweetID uint) (bool, error)

	InsertSubscription(ctx context.Context, subscriberID, channelID uint) (*models.Subscription, error)
	DeleteSubscription(ctx context.Context, subscriberID, channelID uint) (bool, error)

	InsertWatchLater(ctx context.Context, userID, videoID uint) (*models.WatchLater, error)
	DeleteWatchLater(ctx context.Context, userID, videoID uint) (bool, error)

	IsSubscribed(ctx context.Context, subscriberID, channelID uint) (bool, error)
	CountSubscribers(ctx context.Context, channelID uint) (int64, error)
	CountSubscribedTo(ctx context.Context, subscriberID uint) (int64, error)
	ListSubscribers(ctx context.Context, channelID uint) ([]models.Subscription, error)
	ListSubscribedChannels(ctx context.Context, subscriberID uint) ([]models.Subscription, error)

	CountVideoLikes(ctx context.Context, videoID uint) (int64, error)
	TotalLikesForOwner(ctx context.Context, ownerID uint) (int64, error)
	ListLikedVideos(ctx context.Context, userID uint, limit, offset int) ([]models.Like, error)
	LikedCategories(ctx context.Context, userID uint) ([]string, error)

	ListWatchLater(ctx context.Context, userID uint, limit, offset int) ([]models.WatchLater, error)
	IsSaved(ctx context.Context, userID, videoID uint) (bool, error)

	UpsertWatchHistory(ctx context.Context, userID, videoID uint) error
	ListWatchHistory(ctx context.Context, userID uint, limit, offset int) ([]models.WatchHistoryEntry, error)
}

type edgeRepository struct {
	db *gorm.DB
}

// NewEdgeRepository returns a new EdgeRepository implementation.
func NewEdgeRepository(db *gorm.DB) EdgeRepository {
	return &edgeRepository{db: db}
}

// insert creates the edge row unless it already exists. RowsAffected tells
// the two cases apart.
func (r *edgeRepository) insert(ctx context.Context, row interface{}) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *edgeRepository) remove(ctx context.Context, model interface{}, query string, args ...interface{}) (bool, error) {
	res := r.db.WithContext(ctx).Where(query, args...).Delete(model)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *edgeRepository) InsertVideoLike(ctx context.Context, userID, videoID uint) (*models.Like, error) {
	like := models.Like{LikedByID: userID, VideoID: &videoID}
	created, err := r.insert(ctx, &like)
	if err != nil || !created {
		return nil, err
	}
	// The cached video row carries likes_count.
	cache.InvalidateVideo(ctx, videoID)
	return &like, nil
}

func (r *edgeRepository) DeleteVideoLike(ctx context.Context, userID, videoID uint) (bool, error) {
	removed, err := r.remove(ctx, &models.Like{}, "liked_by_id = ? AND video_id = ?", userID, videoID)
	if removed {
		cache.InvalidateVideo(ctx, videoID)
	}
	return removed, err
}

func (r *edgeRepository) InsertCommentLike(ctx context.Context, userID, commentID uint) (*models.Like, error) {
	like := models.Like{LikedByID: userID, CommentID: &commentID}
	created, err := r.insert(ctx, &like)
	if err != nil || !created {
		return nil, err
	}
	return &like, nil
}

func (r *edgeRepository) DeleteCommentLike(ctx context.Context, userID, commentID uint) (bool, error) {
	return r.remove(ctx, &models.Like{}, "liked_by_id = ? AND comment_id = ?", userID, commentID)
}

func (r *edgeRepository) InsertTweetLike(ctx context.Context, userID, tweetID uint) (*models.Like, error) {
	like := models.Like{LikedByID: userID, TweetID: &tweetID}
	created, err := r.insert(ctx, &like)
	if err != nil || !created {
		return nil, err
	}
	return &like, nil
}

func (r *edgeRepository) DeleteTweetLike(ctx context.Context, userID, tweetID uint) (bool, error) {
	return r.remove(ctx, &models.Like{}, "liked_by_id = ? AND tweet_id = ?", userID, tweetID)
}

func (r *edgeRepository) InsertSubscription(ctx context.Context, subscriberID, channelID uint) (*models.Subscription, error) {
	sub := models.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
	created, err := r.insert(ctx, &sub)
	if err != nil || !created {
		return nil, err
	}
	return &sub, nil
}

func (r *edgeRepository) DeleteSubscription(ctx context.Context, subscriberID, channelID uint) (bool, error) {
	return r.remove(ctx, &models.Subscription{}, "subscriber_id = ? AND channel_id = ?", subscriberID, channelID)
}

func (r *edgeRepository) InsertWatchLater(ctx context.Context, userID, videoID uint) (*models.WatchLater, error) {
	entry := models.WatchLater{UserID: userID, VideoID: videoID}
	created, err := r.insert(ctx, &entry)
	if err != nil || !created {
		return nil, err
	}
	return &entry, nil
}

func (r *edgeRepository) DeleteWatchLater(ctx context.Context, userID, videoID uint) (bool, error) {
	return r.remove(ctx, &models.WatchLater{}, "user_id = ? AND video_id = ?", userID, videoID)
}

func (r *edgeRepository) IsSubscribed(ctx context.Context, subscriberID, channelID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *edgeRepository) CountSubscribers(ctx context.Context, channelID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *edgeRepository) CountSubscribedTo(ctx context.Context, subscriberID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *edgeRepository) ListSubscribers(ctx context.Context, channelID uint) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Subscriber").
		Where("channel_id = ?", channelID).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return subs, nil
}

func (r *edgeRepository) ListSubscribedChannels(ctx context.Context, subscriberID uint) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Channel").
		Where("subscriber_id = ?", subscriberID).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return subs, nil
}

func (r *edgeRepository) CountVideoLikes(ctx context.Context, videoID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("video_id = ?", videoID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// TotalLikesForOwner counts likes across all of a channel's videos.
func (r *edgeRepository) TotalLikesForOwner(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Joins("JOIN videos ON videos.id = likes.video_id").
		Where("videos.owner_id = ?", ownerID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *edgeRepository) ListLikedVideos(ctx context.Context, userID uint, limit, offset int) ([]models.Like, error) {
	if limit <= 0 {
		limit = 20
	}
	var likes []models.Like
	err := r.db.WithContext(ctx).
		Preload("Video").
		Preload("Video.Owner").
		Where("liked_by_id = ? AND video_id IS NOT NULL", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&likes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return likes, nil
}

// LikedCategories returns the distinct categories of videos the user liked,
// used as a recommendation signal.
func (r *edgeRepository) LikedCategories(ctx context.Context, userID uint) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Joins("JOIN videos ON videos.id = likes.video_id").
		Where("likes.liked_by_id = ? AND videos.category != ''", userID).
		Distinct().
		Pluck("videos.category", &categories).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}

func (r *edgeRepository) ListWatchLater(ctx context.Context, userID uint, limit, offset int) ([]models.WatchLater, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []models.WatchLater
	err := r.db.WithContext(ctx).
		Preload("Video").
		Preload("Video.Owner").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

func (r *edgeRepository) IsSaved(ctx context.Context, userID, videoID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WatchLater{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// UpsertWatchHistory records a view; replays refresh watched_at in place.
func (r *edgeRepository) UpsertWatchHistory(ctx context.Context, userID, videoID uint) error {
	entry := models.WatchHistoryEntry{
		UserID:    userID,
		VideoID:   videoID,
		WatchedAt: time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"watched_at"}),
	}).Create(&entry).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *edgeRepository) ListWatchHistory(ctx context.Context, userID uint, limit, offset int) ([]models.WatchHistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []models.WatchHistoryEntry
	err := r.db.WithContext(ctx).
		Preload("Video").
		Preload("Video.Owner").
		Where("user_id = ?", userID).
		Order("watched_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}
