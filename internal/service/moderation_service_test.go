package service

import (
	"context"
	"testing"

	"viewtube/internal/models"
	"viewtube/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newModerationService(t *testing.T) (*ModerationService, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t)
	svc := NewModerationService(
		repository.NewModerationRepository(db),
		repository.NewUserRepository(db),
		repository.NewVideoRepository(db),
		repository.NewCommentRepository(db),
	)
	return svc, db
}

func TestReport(t *testing.T) {
	t.Parallel()
	svc, db := newModerationService(t)
	ctx := context.Background()

	reporter := createTestUser(t, db, "reporter")
	offender := createTestUser(t, db, "offender")
	video := createTestVideo(t, db, offender.ID, "bad")
	comment := models.Comment{VideoID: video.ID, OwnerID: offender.ID, Content: "rude"}
	require.NoError(t, db.Create(&comment).Error)

	t.Run("video", func(t *testing.T) {
		report, err := svc.Report(ctx, reporter.ID, models.ReportedTypeVideo, video.ID, "spam")
		require.NoError(t, err)
		assert.Equal(t, models.ReportedTypeVideo, report.ReportedType)
		assert.Equal(t, video.ID, report.ReportedID)
	})

	t.Run("user", func(t *testing.T) {
		_, err := svc.Report(ctx, reporter.ID, models.ReportedTypeUser, offender.ID, "harassment")
		require.NoError(t, err)
	})

	t.Run("comment", func(t *testing.T) {
		_, err := svc.Report(ctx, reporter.ID, models.ReportedTypeComment, comment.ID, "abuse")
		require.NoError(t, err)
	})

	t.Run("empty reason", func(t *testing.T) {
		_, err := svc.Report(ctx, reporter.ID, models.ReportedTypeVideo, video.ID, "  ")
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.StatusCode)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := svc.Report(ctx, reporter.ID, models.ReportedType("playlist"), video.ID, "reason")
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.StatusCode)
	})

	t.Run("missing target", func(t *testing.T) {
		_, err := svc.Report(ctx, reporter.ID, models.ReportedTypeVideo, 9999, "reason")
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 404, appErr.StatusCode)
	})

	reports, total, err := svc.ListReports(ctx, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, reports, 3)
}

func TestReportSurvivesTargetDeletion(t *testing.T) {
	t.Parallel()
	svc, db := newModerationService(t)
	ctx := context.Background()

	reporter := createTestUser(t, db, "reporter")
	offender := createTestUser(t, db, "offender")
	video := createTestVideo(t, db, offender.ID, "ephemeral")

	report, err := svc.Report(ctx, reporter.ID, models.ReportedTypeVideo, video.ID, "spam")
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.Video{}, video.ID).Error)

	var stored models.Report
	require.NoError(t, db.First(&stored, report.ID).Error)
	assert.Equal(t, video.ID, stored.ReportedID)
}

func TestBlockUser(t *testing.T) {
	t.Parallel()
	svc, db := newModerationService(t)
	ctx := context.Background()

	blocker := createTestUser(t, db, "blocker")
	target := createTestUser(t, db, "target")

	t.Run("self block rejected", func(t *testing.T) {
		err := svc.BlockUser(ctx, blocker.ID, blocker.ID)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.StatusCode)
	})

	t.Run("missing target", func(t *testing.T) {
		err := svc.BlockUser(ctx, blocker.ID, 9999)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 404, appErr.StatusCode)
	})

	require.NoError(t, svc.BlockUser(ctx, blocker.ID, target.ID))
	// Blocking twice is a no-op, not an error.
	require.NoError(t, svc.BlockUser(ctx, blocker.ID, target.ID))

	blocked, err := svc.ListBlocked(ctx, blocker.ID)
	require.NoError(t, err)
	require.Len(t, blocked, 1)
	assert.Equal(t, "target", blocked[0].Username)

	require.NoError(t, svc.UnblockUser(ctx, blocker.ID, target.ID))
	// Unblocking an unblocked user is also a no-op.
	require.NoError(t, svc.UnblockUser(ctx, blocker.ID, target.ID))

	blocked, err = svc.ListBlocked(ctx, blocker.ID)
	require.NoError(t, err)
	assert.Empty(t, blocked)
}
