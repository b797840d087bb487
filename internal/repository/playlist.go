package repository

import (
	"context"
	"errors"

	"viewtube/internal/models"

	"gorm.io/gorm"
)

// PlaylistRepository defines persistence operations for playlists.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *models.Playlist) error
	GetByID(ctx context.Context, id uint) (*models.Playlist, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Playlist, error)
	Update(ctx context.Context, playlist *models.Playlist) error
	Delete(ctx context.Context, id uint) error
	AddVideo(ctx context.Context, playlist *models.Playlist, video *models.Video) error
	RemoveVideo(ctx context.Context, playlist *models.Playlist, video *models.Video) error
}

type playlistRepository struct {
	db *gorm.DB
}

// NewPlaylistRepository returns a new PlaylistRepository implementation.
func NewPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &playlistRepository{db: db}
}

func (r *playlistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	if err := r.db.WithContext(ctx).Create(playlist).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *playlistRepository) GetByID(ctx context.Context, id uint) (*models.Playlist, error) {
	var playlist models.Playlist
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Videos").
		Preload("Videos.Owner").
		First(&playlist, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Playlist", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &playlist, nil
}

func (r *playlistRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Playlist, error) {
	var playlists []models.Playlist
	err := r.db.WithContext(ctx).
		Preload("Videos").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&playlists).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return playlists, nil
}

func (r *playlistRepository) Update(ctx context.Context, playlist *models.Playlist) error {
	if err := r.db.WithContext(ctx).Save(playlist).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *playlistRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		playlist := models.Playlist{ID: id}
		if err := tx.Model(&playlist).Association("Videos").Clear(); err != nil {
			return err
		}
		return tx.Delete(&playlist).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// AddVideo is idempotent; appending an already linked video is a no-op at the
// join table.
func (r *playlistRepository) AddVideo(ctx context.Context, playlist *models.Playlist, video *models.Video) error {
	err := r.db.WithContext(ctx).Model(playlist).Association("Videos").Append(video)
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *playlistRepository) RemoveVideo(ctx context.Context, playlist *models.Playlist, video *models.Video) error {
	err := r.db.WithContext(ctx).Model(playlist).Association("Videos").Delete(video)
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
