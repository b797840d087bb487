package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"viewtube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFullAPIFlow walks a creator and a viewer through the whole product
// surface over real HTTP: register, publish, watch, comment, like, subscribe,
// playlist, tweet, dashboard, recommendations.
func TestFullAPIFlow(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)

	// Register the creator through the API; the viewer is seeded directly.
	body, contentType := multipartBody(t,
		map[string]string{
			"username": "creator",
			"email":    "creator@example.com",
			"fullname": "The Creator",
			"password": "password123",
		},
		map[string]string{"avatar": "avatar.png"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var creator models.User
	decodeEnvelope(t, resp, &creator)

	_ = createServerUser(t, db, "viewer")
	creatorToken := loginUser(t, app, "creator")
	viewerToken := loginUser(t, app, "viewer")

	// Creator publishes a video.
	body, contentType = multipartBody(t,
		map[string]string{
			"title":       "Flow Video",
			"description": "end to end",
			"category":    "education",
			"tags":        "flow,testing",
			"duration":    "120",
		},
		map[string]string{"videoFile": "flow.mp4", "thumbnail": "flow.jpg"},
	)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/videos/", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+creatorToken)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var video models.Video
	decodeEnvelope(t, resp, &video)

	// Viewer watches it, which records a view and watch history.
	req = authedRequest(http.MethodGet, fmt.Sprintf("/api/v1/videos/%d", video.ID), viewerToken, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req = authedRequest(http.MethodGet, "/api/v1/users/history", viewerToken, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var history []models.WatchHistoryEntry
	decodeEnvelope(t, resp, &history)
	require.Len(t, history, 1)
	assert.Equal(t, video.ID, history[0].VideoID)

	// Viewer comments, likes the video, and subscribes to the channel.
	req = authedRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/comments/video/%d", video.ID), viewerToken,
		jsonBody(t, map[string]string{"content": "nice one"}))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req = authedRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/likes/toggle/v/%d", video.ID), viewerToken, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req = authedRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/subscriptions/channel/%d", creator.ID), viewerToken, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Viewer curates a playlist with the video.
	req = authedRequest(http.MethodPost, "/api/v1/playlists/", viewerToken,
		jsonBody(t, map[string]string{"name": "Favorites", "description": "keepers"}))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var playlist models.Playlist
	decodeEnvelope(t, resp, &playlist)

	req = authedRequest(http.MethodPatch,
		fmt.Sprintf("/api/v1/playlists/add/%d/%d", video.ID, playlist.ID), viewerToken, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Creator posts a tweet.
	req = authedRequest(http.MethodPost, "/api/v1/tweets/", creatorToken,
		jsonBody(t, map[string]string{"content": "new video is up"}))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Creator checks the dashboard.
	req = authedRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/dashboard/stats/%d", creator.ID), creatorToken, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats struct {
		TotalVideos      int64 `json:"total_videos"`
		TotalViews       int64 `json:"total_views"`
		TotalSubscribers int64 `json:"total_subscribers"`
		TotalLikes       int64 `json:"total_likes"`
	}
	decodeEnvelope(t, resp, &stats)
	assert.Equal(t, int64(1), stats.TotalVideos)
	assert.Equal(t, int64(1), stats.TotalViews)
	assert.Equal(t, int64(1), stats.TotalSubscribers)
	assert.Equal(t, int64(1), stats.TotalLikes)

	// Recommendations for the viewer draw from published videos.
	extra := createServerVideo(t, db, creator.ID, "another one")
	require.NoError(t, db.Model(&models.Video{}).
		Where("id IN ?", []uint{video.ID, extra.ID}).
		Update("created_at", time.Now().Add(-24*time.Hour)).Error)

	req = authedRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/recommendations/?videoId=%d", video.ID), viewerToken, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var recommended []models.Video
	decodeEnvelope(t, resp, &recommended)
	require.NotEmpty(t, recommended)
	for _, r := range recommended {
		assert.NotEqual(t, video.ID, r.ID)
	}
}

func TestModerationEndpoints(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)
	createServerUser(t, db, "reporter")
	troll := createServerUser(t, db, "troll")
	video := createServerVideo(t, db, troll.ID, "offensive")
	token := loginUser(t, app, "reporter")

	req := authedRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/moderation/report/%d", video.ID), token,
		jsonBody(t, map[string]string{"type": "video", "reason": "spam"}))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var report models.Report
	decodeEnvelope(t, resp, &report)
	assert.Equal(t, video.ID, report.ReportedID)
	assert.Equal(t, models.ReportedTypeVideo, report.ReportedType)

	t.Run("empty reason", func(t *testing.T) {
		req := authedRequest(http.MethodPost,
			fmt.Sprintf("/api/v1/moderation/report/%d", video.ID), token,
			jsonBody(t, map[string]string{"type": "video", "reason": "  "}))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("list reports", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/api/v1/moderation/reports", token, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var data struct {
			Reports []models.Report `json:"reports"`
			Total   int64           `json:"total"`
		}
		decodeEnvelope(t, resp, &data)
		assert.Equal(t, int64(1), data.Total)
	})

	t.Run("block and unblock", func(t *testing.T) {
		blockTarget := fmt.Sprintf("/api/v1/moderation/block/%d", troll.ID)

		req := authedRequest(http.MethodPost, blockTarget, token, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		req = authedRequest(http.MethodGet, "/api/v1/moderation/blocked", token, nil)
		resp, err = app.Test(req, -1)
		require.NoError(t, err)

		var blocked []models.Profile
		decodeEnvelope(t, resp, &blocked)
		require.Len(t, blocked, 1)
		assert.Equal(t, "troll", blocked[0].Username)

		req = authedRequest(http.MethodDelete, blockTarget, token, nil)
		resp, err = app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestAIEndpoints(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)
	createServerUser(t, db, "producer")
	token := loginUser(t, app, "producer")

	t.Run("metadata", func(t *testing.T) {
		req := authedRequest(http.MethodPost, "/api/v1/ai/metadata", token,
			jsonBody(t, map[string]string{"transcript": "today we learn about things"}))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var metadata models.VideoMetadata
		decodeEnvelope(t, resp, &metadata)
		assert.NotZero(t, metadata.ID)
	})

	t.Run("metadata empty transcript", func(t *testing.T) {
		req := authedRequest(http.MethodPost, "/api/v1/ai/metadata", token,
			jsonBody(t, map[string]string{"transcript": "  "}))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("summarize", func(t *testing.T) {
		req := authedRequest(http.MethodPost, "/api/v1/ai/summarize", token,
			jsonBody(t, map[string]string{"transcript": "a long transcript"}))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var data struct {
			Summary string `json:"summary"`
		}
		decodeEnvelope(t, resp, &data)
		assert.Equal(t, "stub summary", data.Summary)
	})

	t.Run("tts", func(t *testing.T) {
		req := authedRequest(http.MethodPost, "/api/v1/ai/tts", token,
			jsonBody(t, map[string]string{"text": "hello"}))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var data struct {
			File string `json:"file"`
		}
		decodeEnvelope(t, resp, &data)
		assert.Equal(t, "/tmp/tts/stub.wav", data.File)
	})
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	app, _, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
