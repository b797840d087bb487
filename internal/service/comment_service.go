package service

import (
	"context"
	"strings"

	"viewtube/internal/models"
	"viewtube/internal/repository"
)

// CommentService implements threaded comments on videos.
type CommentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
}

// NewCommentService returns a new CommentService.
func NewCommentService(
	commentRepo repository.CommentRepository,
	videoRepo repository.VideoRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
	}
}

// Add creates a top-level comment on a video.
func (s *CommentService) Add(ctx context.Context, videoID, ownerID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}

	if _, err := s.videoRepo.GetByID(ctx, videoID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		VideoID: videoID,
		OwnerID: ownerID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// AddReply creates a reply under an existing comment. The reply lives on the
// same video as its parent; depth is not limited.
func (s *CommentService) AddReply(ctx context.Context, parentID, ownerID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Reply content is required")
	}

	parent, err := s.commentRepo.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}

	reply := &models.Comment{
		VideoID:  parent.VideoID,
		OwnerID:  ownerID,
		Content:  content,
		ParentID: &parent.ID,
	}
	if err := s.commentRepo.Create(ctx, reply); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, reply.ID)
}

// ListByVideo returns top-level comments plus the total count.
func (s *CommentService) ListByVideo(ctx context.Context, videoID uint, limit, offset int) ([]models.Comment, int64, error) {
	if _, err := s.videoRepo.GetByID(ctx, videoID); err != nil {
		return nil, 0, err
	}
	return s.commentRepo.ListByVideo(ctx, videoID, limit, offset)
}

// ListReplies returns the direct replies of a comment, oldest first.
func (s *CommentService) ListReplies(ctx context.Context, parentID uint) ([]models.Comment, error) {
	if _, err := s.commentRepo.GetByID(ctx, parentID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListReplies(ctx, parentID)
}

// Update edits a comment; only the author may do this.
func (s *CommentService) Update(ctx context.Context, commentID, requesterID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.OwnerID != requesterID {
		return nil, models.NewForbiddenError("You can only edit your own comments")
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment. The author may always delete; so may the owner
// of the video the comment sits on.
func (s *CommentService) Delete(ctx context.Context, commentID, requesterID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.OwnerID != requesterID {
		video, err := s.videoRepo.GetByID(ctx, comment.VideoID)
		if err != nil {
			return err
		}
		if video.OwnerID != requesterID {
			return models.NewForbiddenError("You can only delete your own comments")
		}
	}

	return s.commentRepo.Delete(ctx, commentID)
}
