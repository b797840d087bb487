package repository

import (
	"context"
	"errors"
	"time"

	"viewtube/internal/cache"
	"viewtube/internal/models"

	"gorm.io/gorm"
)

// VideoFilter narrows and orders a video listing.
type VideoFilter struct {
	Query    string
	Category string
	OwnerID  uint
	SortBy   string // created_at, views, duration
	SortDesc bool
	Limit    int
	Offset   int
	// IncludeUnpublished lists drafts too; only valid for the owner's view.
	IncludeUnpublished bool
}

// VideoRepository defines persistence operations for videos.
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id uint) (*models.Video, error)
	List(ctx context.Context, filter VideoFilter) ([]models.Video, int64, error)
	Update(ctx context.Context, video *models.Video) error
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error

	ListByOwners(ctx context.Context, ownerIDs []uint, limit int) ([]models.Video, error)
	ListByCategories(ctx context.Context, categories []string, limit int) ([]models.Video, error)
	ListRecent(ctx context.Context, since time.Time, limit int) ([]models.Video, error)

	CountByOwner(ctx context.Context, ownerID uint) (int64, error)
	TotalViewsByOwner(ctx context.Context, ownerID uint) (int64, error)
}

type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository returns a new VideoRepository implementation.
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

// withLikesCount selects videos together with their computed like count.
func withLikesCount(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Video{}).
		Select("videos.*, (SELECT COUNT(*) FROM likes WHERE likes.video_id = videos.id) AS likes_count")
}

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Create(video).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// cachedVideo mirrors a loaded video row, including the computed likes count,
// the preloaded owner and the blob keys that json:"-" hides from responses.
// Writes, view increments and like toggles all invalidate the key.
type cachedVideo struct {
	ID           uint       `json:"id"`
	OwnerID      uint       `json:"owner_id"`
	Owner        cachedUser `json:"owner"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	VideoURL     string     `json:"video_url"`
	VideoKey     string     `json:"video_key"`
	ThumbnailURL string     `json:"thumbnail_url"`
	ThumbnailKey string     `json:"thumbnail_key"`
	Duration     float64    `json:"duration"`
	Views        int64      `json:"views"`
	Category     string     `json:"category"`
	Tags         []string   `json:"tags"`
	IsPublished  bool       `json:"is_published"`
	LikesCount   int64      `json:"likes_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func newCachedVideo(v *models.Video) cachedVideo {
	return cachedVideo{
		ID:           v.ID,
		OwnerID:      v.OwnerID,
		Owner:        newCachedUser(&v.Owner),
		Title:        v.Title,
		Description:  v.Description,
		VideoURL:     v.VideoURL,
		VideoKey:     v.VideoKey,
		ThumbnailURL: v.ThumbnailURL,
		ThumbnailKey: v.ThumbnailKey,
		Duration:     v.Duration,
		Views:        v.Views,
		Category:     v.Category,
		Tags:         v.Tags,
		IsPublished:  v.IsPublished,
		LikesCount:   v.LikesCount,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func (c *cachedVideo) asVideo() *models.Video {
	return &models.Video{
		ID:           c.ID,
		OwnerID:      c.OwnerID,
		Owner:        *c.Owner.asUser(),
		Title:        c.Title,
		Description:  c.Description,
		VideoURL:     c.VideoURL,
		VideoKey:     c.VideoKey,
		ThumbnailURL: c.ThumbnailURL,
		ThumbnailKey: c.ThumbnailKey,
		Duration:     c.Duration,
		Views:        c.Views,
		Category:     c.Category,
		Tags:         c.Tags,
		IsPublished:  c.IsPublished,
		LikesCount:   c.LikesCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (r *videoRepository) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	var cached cachedVideo

	err := cache.Aside(ctx, cache.VideoKey(id), &cached, cache.VideoTTL, func() error {
		var video models.Video
		loadErr := withLikesCount(r.db.WithContext(ctx)).
			Preload("Owner").
			Where("videos.id = ?", id).
			First(&video).Error
		if loadErr != nil {
			if errors.Is(loadErr, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Video", id)
			}
			return models.NewInternalError(loadErr)
		}
		cached = newCachedVideo(&video)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return cached.asVideo(), nil
}

func (r *videoRepository) List(ctx context.Context, filter VideoFilter) ([]models.Video, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Video{})

	if !filter.IncludeUnpublished {
		base = base.Where("is_published = ?", true)
	}
	if filter.OwnerID != 0 {
		base = base.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.Category != "" {
		base = base.Where("category = ?", filter.Category)
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		base = base.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	order := "videos.created_at"
	switch filter.SortBy {
	case "views":
		order = "videos.views"
	case "duration":
		order = "videos.duration"
	case "", "created_at":
	default:
		return nil, 0, models.NewValidationError("Unsupported sort field: " + filter.SortBy)
	}
	if filter.SortDesc {
		order += " DESC"
	} else {
		order += " ASC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var videos []models.Video
	err := withLikesCount(base.Session(&gorm.Session{})).
		Preload("Owner").
		Order(order).
		Limit(limit).
		Offset(filter.Offset).
		Find(&videos).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return videos, total, nil
}

func (r *videoRepository) Update(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Save(video).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateVideo(ctx, video.ID)
	return nil
}

func (r *videoRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Video{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateVideo(ctx, id)
	return nil
}

func (r *videoRepository) IncrementViews(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateVideo(ctx, id)
	return nil
}

func (r *videoRepository) ListByOwners(ctx context.Context, ownerIDs []uint, limit int) ([]models.Video, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	var videos []models.Video
	err := withLikesCount(r.db.WithContext(ctx)).
		Preload("Owner").
		Where("videos.owner_id IN ? AND videos.is_published = ?", ownerIDs, true).
		Order("videos.created_at DESC").
		Limit(limit).
		Find(&videos).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return videos, nil
}

func (r *videoRepository) ListByCategories(ctx context.Context, categories []string, limit int) ([]models.Video, error) {
	if len(categories) == 0 {
		return nil, nil
	}
	var videos []models.Video
	err := withLikesCount(r.db.WithContext(ctx)).
		Preload("Owner").
		Where("videos.category IN ? AND videos.is_published = ?", categories, true).
		Order("videos.views DESC").
		Limit(limit).
		Find(&videos).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return videos, nil
}

func (r *videoRepository) ListRecent(ctx context.Context, since time.Time, limit int) ([]models.Video, error) {
	var videos []models.Video
	err := withLikesCount(r.db.WithContext(ctx)).
		Preload("Owner").
		Where("videos.created_at >= ? AND videos.is_published = ?", since, true).
		Order("videos.views DESC").
		Limit(limit).
		Find(&videos).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return videos, nil
}

func (r *videoRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *videoRepository) TotalViewsByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("owner_id = ?", ownerID).
		Select("COALESCE(SUM(views), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return total, nil
}
