package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"viewtube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type toggleResponse struct {
	Action   string          `json:"action"`
	TargetID uint            `json:"target_id"`
	Edge     json.RawMessage `json:"edge"`
}

func TestToggleVideoLikeEndpoint(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)
	owner := createServerUser(t, db, "owner")
	createServerUser(t, db, "fan")
	video := createServerVideo(t, db, owner.ID, "likeable")
	token := loginUser(t, app, "fan")

	target := fmt.Sprintf("/api/v1/likes/toggle/v/%d", video.ID)

	req := authedRequest(http.MethodPost, target, token, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result toggleResponse
	decodeEnvelope(t, resp, &result)
	assert.Equal(t, "liked", result.Action)
	assert.Equal(t, video.ID, result.TargetID)

	// Creating the like returns the row itself.
	require.NotEmpty(t, result.Edge)
	var like models.Like
	require.NoError(t, json.Unmarshal(result.Edge, &like))
	assert.NotZero(t, like.ID)
	require.NotNil(t, like.VideoID)
	assert.Equal(t, video.ID, *like.VideoID)

	req = authedRequest(http.MethodPost, target, token, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	var undone toggleResponse
	decodeEnvelope(t, resp, &undone)
	assert.Equal(t, "unliked", undone.Action)
	assert.Empty(t, undone.Edge)

	var count int64
	require.NoError(t, db.Model(&models.Like{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestToggleLikeMissingTarget(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)
	createServerUser(t, db, "fan")
	token := loginUser(t, app, "fan")

	req := authedRequest(http.MethodPost, "/api/v1/likes/toggle/v/9999", token, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLikedVideosEndpoint(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)
	owner := createServerUser(t, db, "owner")
	createServerUser(t, db, "fan")
	first := createServerVideo(t, db, owner.ID, "first")
	second := createServerVideo(t, db, owner.ID, "second")
	token := loginUser(t, app, "fan")

	for _, video := range []models.Video{first, second} {
		req := authedRequest(http.MethodPost,
			fmt.Sprintf("/api/v1/likes/toggle/v/%d", video.ID), token, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	req := authedRequest(http.MethodGet, "/api/v1/likes/videos", token, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var videos []models.Video
	decodeEnvelope(t, resp, &videos)
	assert.Len(t, videos, 2)
}

func TestToggleSubscriptionEndpoint(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)
	channel := createServerUser(t, db, "channel")
	createServerUser(t, db, "viewer")
	token := loginUser(t, app, "viewer")

	target := fmt.Sprintf("/api/v1/subscriptions/channel/%d", channel.ID)

	req := authedRequest(http.MethodPost, target, token, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result toggleResponse
	decodeEnvelope(t, resp, &result)
	assert.Equal(t, "subscribed", result.Action)

	req = authedRequest(http.MethodPost, target, token, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	decodeEnvelope(t, resp, &result)
	assert.Equal(t, "unsubscribed", result.Action)
}

func TestSelfSubscribeRejected(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)
	self := createServerUser(t, db, "narcissist")
	token := loginUser(t, app, "narcissist")

	req := authedRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/subscriptions/channel/%d", self.ID), token, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChannelSubscribersEndpoint(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)
	channel := createServerUser(t, db, "channel")
	fan1 := createServerUser(t, db, "fan1")
	fan2 := createServerUser(t, db, "fan2")
	require.NoError(t, db.Create(&models.Subscription{SubscriberID: fan1.ID, ChannelID: channel.ID}).Error)
	require.NoError(t, db.Create(&models.Subscription{SubscriberID: fan2.ID, ChannelID: channel.ID}).Error)

	token := loginUser(t, app, "channel")
	req := authedRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/subscriptions/subscribers/%d", channel.ID), token, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var subscribers []models.Profile
	decodeEnvelope(t, resp, &subscribers)
	assert.Len(t, subscribers, 2)
}

func TestSubscribedChannelsPrivacy(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)
	channel := createServerUser(t, db, "channel")
	viewer := createServerUser(t, db, "viewer")
	createServerUser(t, db, "snoop")
	require.NoError(t, db.Create(&models.Subscription{SubscriberID: viewer.ID, ChannelID: channel.ID}).Error)

	target := fmt.Sprintf("/api/v1/subscriptions/subscribed/%d", viewer.ID)

	// Only the subscriber may read their own subscription list.
	req := authedRequest(http.MethodGet, target, loginUser(t, app, "snoop"), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = authedRequest(http.MethodGet, target, loginUser(t, app, "viewer"), nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var channels []models.Profile
	decodeEnvelope(t, resp, &channels)
	assert.Len(t, channels, 1)
}

func TestWatchLaterEndpoints(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)
	owner := createServerUser(t, db, "owner")
	createServerUser(t, db, "viewer")
	video := createServerVideo(t, db, owner.ID, "later")
	token := loginUser(t, app, "viewer")

	statusTarget := fmt.Sprintf("/api/v1/watchlater/status/%d", video.ID)

	req := authedRequest(http.MethodGet, statusTarget, token, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var status struct {
		Saved bool `json:"saved"`
	}
	decodeEnvelope(t, resp, &status)
	assert.False(t, status.Saved)

	req = authedRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/watchlater/toggle/%d", video.ID), token, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = authedRequest(http.MethodGet, statusTarget, token, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	decodeEnvelope(t, resp, &status)
	assert.True(t, status.Saved)

	req = authedRequest(http.MethodGet, "/api/v1/watchlater/", token, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)

	var videos []models.Video
	decodeEnvelope(t, resp, &videos)
	require.Len(t, videos, 1)
	assert.Equal(t, video.ID, videos[0].ID)
}

func TestToggleRequiresAuth(t *testing.T) {
	t.Parallel()
	app, _, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/likes/toggle/v/1", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
