package repository

import (
	"context"
	"errors"

	"viewtube/internal/models"

	"gorm.io/gorm"
)

// MetadataRepository persists AI generation results.
type MetadataRepository interface {
	Create(ctx context.Context, metadata *models.VideoMetadata) error
	GetByID(ctx context.Context, id uint) (*models.VideoMetadata, error)
}

type metadataRepository struct {
	db *gorm.DB
}

// NewMetadataRepository returns a new MetadataRepository implementation.
func NewMetadataRepository(db *gorm.DB) MetadataRepository {
	return &metadataRepository{db: db}
}

func (r *metadataRepository) Create(ctx context.Context, metadata *models.VideoMetadata) error {
	if err := r.db.WithContext(ctx).Create(metadata).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *metadataRepository) GetByID(ctx context.Context, id uint) (*models.VideoMetadata, error) {
	var metadata models.VideoMetadata
	if err := r.db.WithContext(ctx).First(&metadata, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Metadata", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &metadata, nil
}
