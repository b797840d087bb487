package repository

import (
	"context"

	"viewtube/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ModerationRepository persists reports and user blocks.
type ModerationRepository interface {
	CreateReport(ctx context.Context, report *models.Report) error
	ListReports(ctx context.Context, limit, offset int) ([]models.Report, int64, error)

	InsertBlock(ctx context.Context, blockerID, blockedID uint) (bool, error)
	DeleteBlock(ctx context.Context, blockerID, blockedID uint) (bool, error)
	ListBlocked(ctx context.Context, blockerID uint) ([]models.UserBlock, error)
	IsBlocked(ctx context.Context, blockerID, blockedID uint) (bool, error)
}

type moderationRepository struct {
	db *gorm.DB
}

// NewModerationRepository returns a new ModerationRepository implementation.
func NewModerationRepository(db *gorm.DB) ModerationRepository {
	return &moderationRepository{db: db}
}

func (r *moderationRepository) CreateReport(ctx context.Context, report *models.Report) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *moderationRepository) ListReports(ctx context.Context, limit, offset int) ([]models.Report, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Report{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	if limit <= 0 {
		limit = 20
	}

	var reports []models.Report
	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return reports, total, nil
}

func (r *moderationRepository) InsertBlock(ctx context.Context, blockerID, blockedID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserBlock{BlockerID: blockerID, BlockedID: blockedID})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *moderationRepository) DeleteBlock(ctx context.Context, blockerID, blockedID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.UserBlock{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *moderationRepository) ListBlocked(ctx context.Context, blockerID uint) ([]models.UserBlock, error) {
	var blocks []models.UserBlock
	err := r.db.WithContext(ctx).
		Preload("Blocked").
		Where("blocker_id = ?", blockerID).
		Order("created_at DESC").
		Find(&blocks).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return blocks, nil
}

func (r *moderationRepository) IsBlocked(ctx context.Context, blockerID, blockedID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserBlock{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
