// Package service implements the business rules of the application.
package service

import (
	"context"

	"viewtube/internal/models"
	"viewtube/internal/repository"
)

// ToggleKind selects which relationship edge a toggle operates on.
type ToggleKind string

const (
	ToggleVideoLike    ToggleKind = "video_like"
	ToggleCommentLike  ToggleKind = "comment_like"
	ToggleTweetLike    ToggleKind = "tweet_like"
	ToggleSubscription ToggleKind = "subscription"
	ToggleWatchLater   ToggleKind = "watch_later"
)

// ToggleResult reports which direction a toggle went. Edge carries the
// created row when the toggle switched the relationship on and is nil when it
// switched it off.
type ToggleResult struct {
	Action   string      `json:"action"`
	ActorID  uint        `json:"actor_id"`
	TargetID uint        `json:"target_id"`
	Edge     interface{} `json:"edge,omitempty"`
}

// toggleBinding is the per-kind wiring: how to validate the target, how to
// create and delete the edge, and the verbs reported for each direction.
type toggleBinding struct {
	validate func(ctx context.Context, actorID, targetID uint) error
	insert   func(ctx context.Context, actorID, targetID uint) (interface{}, error)
	remove   func(ctx context.Context, actorID, targetID uint) (bool, error)
	onVerb   string
	offVerb  string
}

// edgeInsert adapts a typed repository insert to the binding signature. A nil
// row pointer must become a nil interface so Toggle can test for it directly.
func edgeInsert[E any](fn func(context.Context, uint, uint) (*E, error)) func(context.Context, uint, uint) (interface{}, error) {
	return func(ctx context.Context, actorID, targetID uint) (interface{}, error) {
		edge, err := fn(ctx, actorID, targetID)
		if err != nil || edge == nil {
			return nil, err
		}
		return edge, nil
	}
}

// ToggleService flips relationship edges: likes, subscriptions and
// watch-later saves. All kinds share one toggle algorithm; only the binding
// differs.
type ToggleService struct {
	edgeRepo    repository.EdgeRepository
	userRepo    repository.UserRepository
	videoRepo   repository.VideoRepository
	commentRepo repository.CommentRepository
	tweetRepo   repository.TweetRepository

	bindings map[ToggleKind]toggleBinding
}

// NewToggleService wires the per-kind bindings.
func NewToggleService(
	edgeRepo repository.EdgeRepository,
	userRepo repository.UserRepository,
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
	tweetRepo repository.TweetRepository,
) *ToggleService {
	s := &ToggleService{
		edgeRepo:    edgeRepo,
		userRepo:    userRepo,
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		tweetRepo:   tweetRepo,
	}

	s.bindings = map[ToggleKind]toggleBinding{
		ToggleVideoLike: {
			validate: s.videoExists,
			insert:   edgeInsert(edgeRepo.InsertVideoLike),
			remove:   edgeRepo.DeleteVideoLike,
			onVerb:   "liked",
			offVerb:  "unliked",
		},
		ToggleCommentLike: {
			validate: s.commentExists,
			insert:   edgeInsert(edgeRepo.InsertCommentLike),
			remove:   edgeRepo.DeleteCommentLike,
			onVerb:   "liked",
			offVerb:  "unliked",
		},
		ToggleTweetLike: {
			validate: s.tweetExists,
			insert:   edgeInsert(edgeRepo.InsertTweetLike),
			remove:   edgeRepo.DeleteTweetLike,
			onVerb:   "liked",
			offVerb:  "unliked",
		},
		ToggleSubscription: {
			validate: s.channelSubscribable,
			insert:   edgeInsert(edgeRepo.InsertSubscription),
			remove:   edgeRepo.DeleteSubscription,
			onVerb:   "subscribed",
			offVerb:  "unsubscribed",
		},
		ToggleWatchLater: {
			validate: s.videoExists,
			insert:   edgeInsert(edgeRepo.InsertWatchLater),
			remove:   edgeRepo.DeleteWatchLater,
			onVerb:   "saved",
			offVerb:  "removed",
		},
	}

	return s
}

// Toggle flips the edge for (actor, target) and reports which way it went.
// Removing first and inserting only on a miss keeps the result truthful when
// two toggles race: exactly one of them wins each direction.
func (s *ToggleService) Toggle(ctx context.Context, kind ToggleKind, actorID, targetID uint) (*ToggleResult, error) {
	binding, ok := s.bindings[kind]
	if !ok {
		return nil, models.NewValidationError("Unknown toggle kind")
	}

	if err := binding.validate(ctx, actorID, targetID); err != nil {
		return nil, err
	}

	removed, err := binding.remove(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	if removed {
		return &ToggleResult{Action: binding.offVerb, ActorID: actorID, TargetID: targetID}, nil
	}

	edge, err := binding.insert(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	// A nil edge means a concurrent toggle created it between our remove and
	// insert. The edge exists either way, so the on verb matches the final
	// state; only the winning insert gets the row back.
	return &ToggleResult{Action: binding.onVerb, ActorID: actorID, TargetID: targetID, Edge: edge}, nil
}

func (s *ToggleService) videoExists(ctx context.Context, _ uint, videoID uint) error {
	_, err := s.videoRepo.GetByID(ctx, videoID)
	return err
}

func (s *ToggleService) commentExists(ctx context.Context, _ uint, commentID uint) error {
	_, err := s.commentRepo.GetByID(ctx, commentID)
	return err
}

func (s *ToggleService) tweetExists(ctx context.Context, _ uint, tweetID uint) error {
	_, err := s.tweetRepo.GetByID(ctx, tweetID)
	return err
}

func (s *ToggleService) channelSubscribable(ctx context.Context, actorID, channelID uint) error {
	if actorID == channelID {
		return models.NewValidationError("You cannot subscribe to your own channel")
	}
	_, err := s.userRepo.GetByID(ctx, channelID)
	return err
}

// GetLikedVideos lists the videos the user has liked, newest like first.
func (s *ToggleService) GetLikedVideos(ctx context.Context, userID uint, limit, offset int) ([]models.Video, error) {
	likes, err := s.edgeRepo.ListLikedVideos(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	videos := make([]models.Video, 0, len(likes))
	for _, like := range likes {
		if like.Video != nil {
			videos = append(videos, *like.Video)
		}
	}
	return videos, nil
}

// GetSubscribers lists a channel's subscribers as public profiles.
func (s *ToggleService) GetSubscribers(ctx context.Context, channelID uint) ([]models.Profile, error) {
	if _, err := s.userRepo.GetByID(ctx, channelID); err != nil {
		return nil, err
	}
	subs, err := s.edgeRepo.ListSubscribers(ctx, channelID)
	if err != nil {
		return nil, err
	}
	profiles := make([]models.Profile, 0, len(subs))
	for _, sub := range subs {
		profiles = append(profiles, sub.Subscriber.Profile())
	}
	return profiles, nil
}

// GetSubscribedChannels lists the channels a user follows. Only the
// subscriber may read their own list.
func (s *ToggleService) GetSubscribedChannels(ctx context.Context, requesterID, subscriberID uint) ([]models.Profile, error) {
	if requesterID != subscriberID {
		return nil, models.NewForbiddenError("You can only view your own subscriptions")
	}
	subs, err := s.edgeRepo.ListSubscribedChannels(ctx, subscriberID)
	if err != nil {
		return nil, err
	}
	profiles := make([]models.Profile, 0, len(subs))
	for _, sub := range subs {
		profiles = append(profiles, sub.Channel.Profile())
	}
	return profiles, nil
}

// GetWatchLater lists the user's saved videos.
func (s *ToggleService) GetWatchLater(ctx context.Context, userID uint, limit, offset int) ([]models.Video, error) {
	entries, err := s.edgeRepo.ListWatchLater(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	videos := make([]models.Video, 0, len(entries))
	for _, entry := range entries {
		videos = append(videos, entry.Video)
	}
	return videos, nil
}

// IsSaved reports whether the user has the video on their watch-later list.
func (s *ToggleService) IsSaved(ctx context.Context, userID, videoID uint) (bool, error) {
	return s.edgeRepo.IsSaved(ctx, userID, videoID)
}
