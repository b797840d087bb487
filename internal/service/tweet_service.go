package service

import (
	"context"
	"strings"

	"viewtube/internal/models"
	"viewtube/internal/repository"
)

const maxTweetLen = 500

// TweetService implements short channel posts.
type TweetService struct {
	tweetRepo repository.TweetRepository
	userRepo  repository.UserRepository
}

// NewTweetService returns a new TweetService.
func NewTweetService(tweetRepo repository.TweetRepository, userRepo repository.UserRepository) *TweetService {
	return &TweetService{tweetRepo: tweetRepo, userRepo: userRepo}
}

// Create posts a new tweet for the user.
func (s *TweetService) Create(ctx context.Context, ownerID uint, content string) (*models.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Tweet content is required")
	}
	if len(content) > maxTweetLen {
		return nil, models.NewValidationError("Tweet content too long (max 500 characters)")
	}

	tweet := &models.Tweet{OwnerID: ownerID, Content: content}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, err
	}
	return s.tweetRepo.GetByID(ctx, tweet.ID)
}

// ListByUser lists a user's tweets, newest first.
func (s *TweetService) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Tweet, int64, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, 0, err
	}
	return s.tweetRepo.ListByOwner(ctx, userID, limit, offset)
}

// Update edits a tweet; only the author may do this.
func (s *TweetService) Update(ctx context.Context, tweetID, requesterID uint, content string) (*models.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Tweet content is required")
	}
	if len(content) > maxTweetLen {
		return nil, models.NewValidationError("Tweet content too long (max 500 characters)")
	}

	tweet, err := s.tweetRepo.GetByID(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	if tweet.OwnerID != requesterID {
		return nil, models.NewForbiddenError("You can only edit your own tweets")
	}

	tweet.Content = content
	if err := s.tweetRepo.Update(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

// Delete removes a tweet; only the author may do this.
func (s *TweetService) Delete(ctx context.Context, tweetID, requesterID uint) error {
	tweet, err := s.tweetRepo.GetByID(ctx, tweetID)
	if err != nil {
		return err
	}
	if tweet.OwnerID != requesterID {
		return models.NewForbiddenError("You can only delete your own tweets")
	}
	return s.tweetRepo.Delete(ctx, tweetID)
}
