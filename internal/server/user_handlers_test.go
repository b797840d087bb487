package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"viewtube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEndpoint(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)

	body, contentType := multipartBody(t,
		map[string]string{
			"username": "newbie",
			"email":    "newbie@example.com",
			"fullname": "New Bie",
			"password": "password123",
		},
		map[string]string{"avatar": "avatar.png"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var user models.User
	decodeEnvelope(t, resp, &user)
	assert.Equal(t, "newbie", user.Username)

	var stored models.User
	require.NoError(t, db.Where("username = ?", "newbie").First(&stored).Error)
	assert.NotEqual(t, "password123", stored.Password)
}

func TestRegisterEndpointMissingAvatar(t *testing.T) {
	t.Parallel()
	app, _, _ := newTestApp(t)

	body, contentType := multipartBody(t,
		map[string]string{
			"username": "noavatar",
			"email":    "noavatar@example.com",
			"fullname": "No Avatar",
			"password": "password123",
		},
		nil,
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginEndpointSetsCookies(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)
	createServerUser(t, db, "cookieuser")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login",
		jsonBody(t, map[string]string{"username": "cookieuser", "password": "password123"}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var names []string
	for _, cookie := range resp.Cookies() {
		names = append(names, cookie.Name)
	}
	assert.Contains(t, names, "accessToken")
	assert.Contains(t, names, "refreshToken")
}

func TestLoginEndpointBadPassword(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)
	createServerUser(t, db, "victim")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login",
		jsonBody(t, map[string]string{"username": "victim", "password": "wrongpass1"}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCurrentUserRequiresAuth(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)
	createServerUser(t, db, "authed")

	t.Run("no token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/api/v1/users/current-user", "not-a-jwt", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("bearer token", func(t *testing.T) {
		token := loginUser(t, app, "authed")
		req := authedRequest(http.MethodGet, "/api/v1/users/current-user", token, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var user models.User
		decodeEnvelope(t, resp, &user)
		assert.Equal(t, "authed", user.Username)
	})
}

func TestRefreshTokenEndpoint(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)
	user := createServerUser(t, db, "refresher")

	loginUser(t, app, "refresher")

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.NotEmpty(t, stored.RefreshToken)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token",
		jsonBody(t, map[string]string{"refresh_token": stored.RefreshToken}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The presented token was rotated out.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token",
		jsonBody(t, map[string]string{"refresh_token": stored.RefreshToken}))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPasswordChangeEndpoints(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)
	user := createServerUser(t, db, "rotator")
	token := loginUser(t, app, "rotator")

	req := authedRequest(http.MethodPost, "/api/v1/users/request-password-change", token,
		jsonBody(t, map[string]string{"old_password": "password123"}))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.Len(t, stored.ResetOTP, 6)

	req = authedRequest(http.MethodPost, "/api/v1/users/verify-password-otp", token,
		jsonBody(t, map[string]string{"otp": stored.ResetOTP, "new_password": "freshpass1"}))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Login works only with the new credential.
	badReq := httptest.NewRequest(http.MethodPost, "/api/v1/users/login",
		jsonBody(t, map[string]string{"username": "rotator", "password": "password123"}))
	badReq.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(badReq, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	goodReq := httptest.NewRequest(http.MethodPost, "/api/v1/users/login",
		jsonBody(t, map[string]string{"username": "rotator", "password": "freshpass1"}))
	goodReq.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(goodReq, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChannelProfileEndpoint(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)
	channel := createServerUser(t, db, "streamer")
	follower := createServerUser(t, db, "follower")

	require.NoError(t, db.Create(&models.Subscription{
		SubscriberID: follower.ID, ChannelID: channel.ID,
	}).Error)

	t.Run("anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/c/streamer", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var profile models.ChannelProfile
		decodeEnvelope(t, resp, &profile)
		assert.Equal(t, int64(1), profile.SubscribersCount)
		assert.False(t, profile.IsSubscribed)
	})

	t.Run("subscribed viewer", func(t *testing.T) {
		token := loginUser(t, app, "follower")
		req := authedRequest(http.MethodGet, "/api/v1/users/c/streamer", token, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)

		var profile models.ChannelProfile
		decodeEnvelope(t, resp, &profile)
		assert.True(t, profile.IsSubscribed)
	})

	t.Run("unknown channel", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/c/ghost", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestSearchUsersEndpoint(t *testing.T) {
	t.Parallel()
	app, _, db := newTestApp(t)
	createServerUser(t, db, "searchme")
	createServerUser(t, db, "searchyou")
	createServerUser(t, db, "other")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/search?query=search", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Users []models.Profile `json:"users"`
		Total int64            `json:"total"`
	}
	decodeEnvelope(t, resp, &data)
	assert.Equal(t, int64(2), data.Total)
	assert.Len(t, data.Users, 2)
}
