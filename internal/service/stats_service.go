package service

import (
	"context"
	"log/slog"

	"viewtube/internal/cache"
	"viewtube/internal/middleware"
	"viewtube/internal/models"
	"viewtube/internal/repository"
)

// ChannelStats is the owner-only dashboard aggregate. The four numbers come
// from independent reads, so the snapshot is best effort, not transactional.
type ChannelStats struct {
	TotalVideos      int64          `json:"total_videos"`
	TotalViews       int64          `json:"total_views"`
	TotalSubscribers int64          `json:"total_subscribers"`
	TotalLikes       int64          `json:"total_likes"`
	Channel          models.Profile `json:"channel"`
}

// StatsService aggregates channel dashboards and public channel profiles.
type StatsService struct {
	userRepo  repository.UserRepository
	videoRepo repository.VideoRepository
	edgeRepo  repository.EdgeRepository
}

// NewStatsService returns a new StatsService.
func NewStatsService(
	userRepo repository.UserRepository,
	videoRepo repository.VideoRepository,
	edgeRepo repository.EdgeRepository,
) *StatsService {
	return &StatsService{
		userRepo:  userRepo,
		videoRepo: videoRepo,
		edgeRepo:  edgeRepo,
	}
}

// GetChannelStats returns the dashboard numbers. Only the channel owner may
// read them.
func (s *StatsService) GetChannelStats(ctx context.Context, channelID, requesterID uint) (*ChannelStats, error) {
	if requesterID != channelID {
		return nil, models.NewForbiddenError("You can only view your own channel stats")
	}

	channel, err := s.userRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	totalVideos, err := s.videoRepo.CountByOwner(ctx, channelID)
	if err != nil {
		return nil, err
	}
	totalViews, err := s.videoRepo.TotalViewsByOwner(ctx, channelID)
	if err != nil {
		return nil, err
	}
	totalSubscribers, err := s.edgeRepo.CountSubscribers(ctx, channelID)
	if err != nil {
		return nil, err
	}
	totalLikes, err := s.edgeRepo.TotalLikesForOwner(ctx, channelID)
	if err != nil {
		return nil, err
	}

	return &ChannelStats{
		TotalVideos:      totalVideos,
		TotalViews:       totalViews,
		TotalSubscribers: totalSubscribers,
		TotalLikes:       totalLikes,
		Channel:          channel.Profile(),
	}, nil
}

// GetChannelVideos lists a channel's videos. The owner sees drafts too.
func (s *StatsService) GetChannelVideos(ctx context.Context, channelID, requesterID uint, limit, offset int) ([]models.Video, int64, error) {
	if _, err := s.userRepo.GetByID(ctx, channelID); err != nil {
		return nil, 0, err
	}
	return s.videoRepo.List(ctx, repository.VideoFilter{
		OwnerID:            channelID,
		SortBy:             "created_at",
		SortDesc:           true,
		Limit:              limit,
		Offset:             offset,
		IncludeUnpublished: requesterID == channelID,
	})
}

// GetChannelProfile composes the public channel view for a username:
// profile, subscription counts, and whether the viewer is subscribed.
func (s *StatsService) GetChannelProfile(ctx context.Context, username string, viewerID uint) (*models.ChannelProfile, error) {
	if username == "" {
		return nil, models.NewValidationError("Username is required")
	}

	var profile models.ChannelProfile
	key := cache.ChannelKey(username)

	// The viewer-specific IsSubscribed bit is filled after the cached part.
	err := cache.Aside(ctx, key, &profile, cache.ChannelTTL, func() error {
		user, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if user == nil {
			return models.NewNotFoundError("Channel", username)
		}

		subscribers, err := s.edgeRepo.CountSubscribers(ctx, user.ID)
		if err != nil {
			return err
		}
		subscribedTo, err := s.edgeRepo.CountSubscribedTo(ctx, user.ID)
		if err != nil {
			return err
		}

		profile = models.ChannelProfile{
			Profile:                 user.Profile(),
			CoverImage:              user.CoverImageURL,
			Email:                   user.Email,
			SubscribersCount:        subscribers,
			ChannelsSubscribedCount: subscribedTo,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if viewerID != 0 {
		isSubscribed, err := s.edgeRepo.IsSubscribed(ctx, viewerID, profile.ID)
		if err != nil {
			middleware.Logger.WarnContext(ctx, "Subscription check failed",
				slog.String("channel", username),
				slog.String("error", err.Error()),
			)
		} else {
			profile.IsSubscribed = isSubscribed
		}
	}

	return &profile, nil
}
