package server

import (
	"fmt"
	"net/http"
	"testing"

	"viewtube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommentEndpoint(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)
	owner := createServerUser(t, db, "owner")
	createServerUser(t, db, "commenter")
	video := createServerVideo(t, db, owner.ID, "discussed")
	token := loginUser(t, app, "commenter")

	req := authedRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/comments/video/%d", video.ID), token,
		jsonBody(t, map[string]string{"content": "great video"}))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var comment models.Comment
	decodeEnvelope(t, resp, &comment)
	assert.Equal(t, "great video", comment.Content)
	assert.Equal(t, "commenter", comment.Owner.Username)

	t.Run("empty content", func(t *testing.T) {
		req := authedRequest(http.MethodPost,
			fmt.Sprintf("/api/v1/comments/video/%d", video.ID), token,
			jsonBody(t, map[string]string{"content": "   "}))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing video", func(t *testing.T) {
		req := authedRequest(http.MethodPost, "/api/v1/comments/video/9999", token,
			jsonBody(t, map[string]string{"content": "orphan"}))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestCommentThreadEndpoints(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)
	owner := createServerUser(t, db, "owner")
	createServerUser(t, db, "talker")
	video := createServerVideo(t, db, owner.ID, "threaded")
	token := loginUser(t, app, "talker")

	req := authedRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/comments/video/%d", video.ID), token,
		jsonBody(t, map[string]string{"content": "top level"}))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var parent models.Comment
	decodeEnvelope(t, resp, &parent)

	req = authedRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/comments/reply/%d", parent.ID), token,
		jsonBody(t, map[string]string{"content": "a reply"}))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var reply models.Comment
	decodeEnvelope(t, resp, &reply)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, parent.ID, *reply.ParentID)
	assert.Equal(t, video.ID, reply.VideoID)

	// Listing the video returns top-level comments only.
	req = authedRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/comments/video/%d", video.ID), token, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)

	var listing struct {
		Comments []models.Comment `json:"comments"`
		Total    int64            `json:"total"`
	}
	decodeEnvelope(t, resp, &listing)
	assert.Equal(t, int64(1), listing.Total)

	req = authedRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/comments/replies/%d", parent.ID), token, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)

	var replies []models.Comment
	decodeEnvelope(t, resp, &replies)
	require.Len(t, replies, 1)
	assert.Equal(t, "a reply", replies[0].Content)
}

func TestUpdateCommentEndpointAuthorOnly(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)
	owner := createServerUser(t, db, "owner")
	author := createServerUser(t, db, "author")
	createServerUser(t, db, "intruder")
	video := createServerVideo(t, db, owner.ID, "edited")

	comment := models.Comment{VideoID: video.ID, OwnerID: author.ID, Content: "original"}
	require.NoError(t, db.Create(&comment).Error)

	target := fmt.Sprintf("/api/v1/comments/%d", comment.ID)

	req := authedRequest(http.MethodPatch, target, loginUser(t, app, "intruder"),
		jsonBody(t, map[string]string{"content": "hijacked"}))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = authedRequest(http.MethodPatch, target, loginUser(t, app, "author"),
		jsonBody(t, map[string]string{"content": "revised"}))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Comment
	decodeEnvelope(t, resp, &updated)
	assert.Equal(t, "revised", updated.Content)
}

func TestDeleteCommentEndpoint(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)
	owner := createServerUser(t, db, "owner")
	author := createServerUser(t, db, "author")
	video := createServerVideo(t, db, owner.ID, "moderated")

	comment := models.Comment{VideoID: video.ID, OwnerID: author.ID, Content: "removable"}
	require.NoError(t, db.Create(&comment).Error)

	// The video owner may remove comments on their own video.
	req := authedRequest(http.MethodDelete,
		fmt.Sprintf("/api/v1/comments/%d", comment.ID), loginUser(t, app, "owner"), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Where("id = ?", comment.ID).Count(&count).Error)
	assert.Zero(t, count)
}
