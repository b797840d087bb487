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

func newToggleService(t *testing.T) (*ToggleService, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t)
	svc := NewToggleService(
		repository.NewEdgeRepository(db),
		repository.NewUserRepository(db),
		repository.NewVideoRepository(db),
		repository.NewCommentRepository(db),
		repository.NewTweetRepository(db),
	)
	return svc, db
}

func TestTogglePairsFlipBothWays(t *testing.T) {
	t.Parallel()
	svc, db := newToggleService(t)
	ctx := context.Background()

	actor := createTestUser(t, db, "actor")
	channel := createTestUser(t, db, "channel")
	video := createTestVideo(t, db, channel.ID, "clip")
	comment := models.Comment{VideoID: video.ID, OwnerID: channel.ID, Content: "first"}
	require.NoError(t, db.Create(&comment).Error)
	tweet := models.Tweet{OwnerID: channel.ID, Content: "hello"}
	require.NoError(t, db.Create(&tweet).Error)

	tests := []struct {
		kind     ToggleKind
		targetID uint
		onVerb   string
		offVerb  string
	}{
		{ToggleVideoLike, video.ID, "liked", "unliked"},
		{ToggleCommentLike, comment.ID, "liked", "unliked"},
		{ToggleTweetLike, tweet.ID, "liked", "unliked"},
		{ToggleSubscription, channel.ID, "subscribed", "unsubscribed"},
		{ToggleWatchLater, video.ID, "saved", "removed"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			first, err := svc.Toggle(ctx, tt.kind, actor.ID, tt.targetID)
			require.NoError(t, err)
			assert.Equal(t, tt.onVerb, first.Action)
			assert.NotNil(t, first.Edge)

			second, err := svc.Toggle(ctx, tt.kind, actor.ID, tt.targetID)
			require.NoError(t, err)
			assert.Equal(t, tt.offVerb, second.Action)
			assert.Nil(t, second.Edge)

			third, err := svc.Toggle(ctx, tt.kind, actor.ID, tt.targetID)
			require.NoError(t, err)
			assert.Equal(t, tt.onVerb, third.Action)
			assert.NotNil(t, third.Edge)
		})
	}
}

func TestToggleReturnsCreatedEdge(t *testing.T) {
	t.Parallel()
	svc, db := newToggleService(t)
	ctx := context.Background()

	fan := createTestUser(t, db, "edgefan")
	creator := createTestUser(t, db, "edgemaker")
	video := createTestVideo(t, db, creator.ID, "edgeclip")

	result, err := svc.Toggle(ctx, ToggleVideoLike, fan.ID, video.ID)
	require.NoError(t, err)

	like, ok := result.Edge.(*models.Like)
	require.True(t, ok)
	assert.NotZero(t, like.ID)
	assert.Equal(t, fan.ID, like.LikedByID)
	require.NotNil(t, like.VideoID)
	assert.Equal(t, video.ID, *like.VideoID)

	// Switching the relationship off carries no edge.
	undo, err := svc.Toggle(ctx, ToggleVideoLike, fan.ID, video.ID)
	require.NoError(t, err)
	assert.Equal(t, "unliked", undo.Action)
	assert.Nil(t, undo.Edge)

	sub, err := svc.Toggle(ctx, ToggleSubscription, fan.ID, creator.ID)
	require.NoError(t, err)
	edge, ok := sub.Edge.(*models.Subscription)
	require.True(t, ok)
	assert.Equal(t, fan.ID, edge.SubscriberID)
	assert.Equal(t, creator.ID, edge.ChannelID)
}

func TestToggleUnknownKind(t *testing.T) {
	t.Parallel()
	svc, db := newToggleService(t)
	user := createTestUser(t, db, "u")

	_, err := svc.Toggle(context.Background(), ToggleKind("bogus"), user.ID, 1)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestToggleMissingTarget(t *testing.T) {
	t.Parallel()
	svc, db := newToggleService(t)
	user := createTestUser(t, db, "u")

	_, err := svc.Toggle(context.Background(), ToggleVideoLike, user.ID, 9999)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestToggleSelfSubscribe(t *testing.T) {
	t.Parallel()
	svc, db := newToggleService(t)
	user := createTestUser(t, db, "selfie")

	_, err := svc.Toggle(context.Background(), ToggleSubscription, user.ID, user.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestGetLikedVideos(t *testing.T) {
	t.Parallel()
	svc, db := newToggleService(t)
	ctx := context.Background()

	fan := createTestUser(t, db, "fan")
	creator := createTestUser(t, db, "creator")
	first := createTestVideo(t, db, creator.ID, "first")
	second := createTestVideo(t, db, creator.ID, "second")

	_, err := svc.Toggle(ctx, ToggleVideoLike, fan.ID, first.ID)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, ToggleVideoLike, fan.ID, second.ID)
	require.NoError(t, err)

	videos, err := svc.GetLikedVideos(ctx, fan.ID, 20, 0)
	require.NoError(t, err)
	assert.Len(t, videos, 2)

	// Unliking removes the entry from the listing.
	_, err = svc.Toggle(ctx, ToggleVideoLike, fan.ID, first.ID)
	require.NoError(t, err)
	videos, err = svc.GetLikedVideos(ctx, fan.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, second.ID, videos[0].ID)
}

func TestGetSubscribedChannelsAuthorization(t *testing.T) {
	t.Parallel()
	svc, db := newToggleService(t)
	ctx := context.Background()

	subscriber := createTestUser(t, db, "watcher")
	channel := createTestUser(t, db, "streamer")
	stranger := createTestUser(t, db, "stranger")

	_, err := svc.Toggle(ctx, ToggleSubscription, subscriber.ID, channel.ID)
	require.NoError(t, err)

	channels, err := svc.GetSubscribedChannels(ctx, subscriber.ID, subscriber.ID)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, "streamer", channels[0].Username)

	_, err = svc.GetSubscribedChannels(ctx, stranger.ID, subscriber.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.StatusCode)
}

func TestWatchLaterRoundTrip(t *testing.T) {
	t.Parallel()
	svc, db := newToggleService(t)
	ctx := context.Background()

	user := createTestUser(t, db, "saver")
	creator := createTestUser(t, db, "maker")
	video := createTestVideo(t, db, creator.ID, "saveme")

	saved, err := svc.IsSaved(ctx, user.ID, video.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	_, err = svc.Toggle(ctx, ToggleWatchLater, user.ID, video.ID)
	require.NoError(t, err)

	saved, err = svc.IsSaved(ctx, user.ID, video.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	videos, err := svc.GetWatchLater(ctx, user.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, video.ID, videos[0].ID)
}
