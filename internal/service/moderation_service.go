package service

import (
	"context"
	"strings"

	"viewtube/internal/models"
	"viewtube/internal/repository"
)

// ModerationService implements reports and user blocks.
type ModerationService struct {
	moderationRepo repository.ModerationRepository
	userRepo       repository.UserRepository
	videoRepo      repository.VideoRepository
	commentRepo    repository.CommentRepository
}

// NewModerationService returns a new ModerationService.
func NewModerationService(
	moderationRepo repository.ModerationRepository,
	userRepo repository.UserRepository,
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
) *ModerationService {
	return &ModerationService{
		moderationRepo: moderationRepo,
		userRepo:       userRepo,
		videoRepo:      videoRepo,
		commentRepo:    commentRepo,
	}
}

// Report files a complaint about a video, user or comment. The target must
// exist at filing time; the stored reference is untyped so the report
// survives the target's later deletion.
func (s *ModerationService) Report(ctx context.Context, reporterID uint, reportedType models.ReportedType, reportedID uint, reason string) (*models.Report, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, models.NewValidationError("Report reason is required")
	}
	if !reportedType.Valid() {
		return nil, models.NewValidationError("Reported type must be video, user or comment")
	}

	var err error
	switch reportedType {
	case models.ReportedTypeVideo:
		_, err = s.videoRepo.GetByID(ctx, reportedID)
	case models.ReportedTypeUser:
		_, err = s.userRepo.GetByID(ctx, reportedID)
	case models.ReportedTypeComment:
		_, err = s.commentRepo.GetByID(ctx, reportedID)
	}
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		ReporterID:   reporterID,
		ReportedType: reportedType,
		ReportedID:   reportedID,
		Reason:       reason,
	}
	if err := s.moderationRepo.CreateReport(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// ListReports pages through filed reports, newest first.
func (s *ModerationService) ListReports(ctx context.Context, limit, offset int) ([]models.Report, int64, error) {
	return s.moderationRepo.ListReports(ctx, limit, offset)
}

// BlockUser adds a user to the blocker's block list. Blocking twice is a
// no-op.
func (s *ModerationService) BlockUser(ctx context.Context, blockerID, blockedID uint) error {
	if blockerID == blockedID {
		return models.NewValidationError("You cannot block yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, blockedID); err != nil {
		return err
	}
	_, err := s.moderationRepo.InsertBlock(ctx, blockerID, blockedID)
	return err
}

// UnblockUser removes a user from the block list. Unblocking a user who was
// never blocked is a no-op.
func (s *ModerationService) UnblockUser(ctx context.Context, blockerID, blockedID uint) error {
	_, err := s.moderationRepo.DeleteBlock(ctx, blockerID, blockedID)
	return err
}

// ListBlocked lists the users the blocker has blocked.
func (s *ModerationService) ListBlocked(ctx context.Context, blockerID uint) ([]models.Profile, error) {
	blocks, err := s.moderationRepo.ListBlocked(ctx, blockerID)
	if err != nil {
		return nil, err
	}
	profiles := make([]models.Profile, 0, len(blocks))
	for _, block := range blocks {
		profiles = append(profiles, block.Blocked.Profile())
	}
	return profiles, nil
}
