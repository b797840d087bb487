package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"viewtube/internal/ai"
	"viewtube/internal/config"
	"viewtube/internal/database"
	"viewtube/internal/mailer"
	"viewtube/internal/models"
	"viewtube/internal/repository"
	"viewtube/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubStore struct {
	mu      sync.Mutex
	uploads int
	deleted []string
}

func (s *stubStore) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads++
	key := fmt.Sprintf("obj-%d", s.uploads)
	return "http://blobs.test/" + key, key, nil
}

func (s *stubStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *stubStore) BulkDelete(ctx context.Context, keys []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, keys...)
}

type stubMailer struct{}

func (s *stubMailer) Send(ctx context.Context, msg mailer.Message) error { return nil }

type stubAI struct{}

func (s *stubAI) GenerateVideoMetadata(ctx context.Context, transcript string) (*ai.VideoMetadata, error) {
	return &ai.VideoMetadata{
		Titles:      []string{"Generated Title"},
		Description: "Generated description",
		Tags:        []string{"generated"},
		Summary:     "Generated summary",
		Moderation:  "SAFE",
	}, nil
}

func (s *stubAI) Summarize(ctx context.Context, text string) (string, error) {
	return "stub summary", nil
}

type stubSpeech struct{}

func (s *stubSpeech) Synthesize(ctx context.Context, text string) (string, error) {
	return "/tmp/tts/stub.wav", nil
}

func testServerConfig() *config.Config {
	return &config.Config{
		Port:               "8080",
		Env:                "test",
		AccessTokenSecret:  "test-access-secret",
		RefreshTokenSecret: "test-refresh-secret",
	}
}

// newTestServer builds a Server over in-memory sqlite with stubbed external
// collaborators and no Redis.
func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.Models()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	cfg := testServerConfig()
	store := &stubStore{}
	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)
	edgeRepo := repository.NewEdgeRepository(db)
	moderationRepo := repository.NewModerationRepository(db)
	metadataRepo := repository.NewMetadataRepository(db)

	s := &Server{
		config:   cfg,
		db:       db,
		userRepo: userRepo,
	}
	s.authService = service.NewAuthService(userRepo, store, &stubMailer{}, cfg)
	s.toggleService = service.NewToggleService(edgeRepo, userRepo, videoRepo, commentRepo, tweetRepo)
	s.videoService = service.NewVideoService(videoRepo, edgeRepo, store)
	s.commentService = service.NewCommentService(commentRepo, videoRepo)
	s.tweetService = service.NewTweetService(tweetRepo, userRepo)
	s.playlistService = service.NewPlaylistService(playlistRepo, videoRepo, userRepo)
	s.statsService = service.NewStatsService(userRepo, videoRepo, edgeRepo)
	s.moderationService = service.NewModerationService(moderationRepo, userRepo, videoRepo, commentRepo)
	s.recommendService = service.NewRecommendationService(videoRepo, edgeRepo)
	s.aiService = service.NewAIService(&stubAI{}, &stubSpeech{}, metadataRepo)

	return s, db
}

// newTestApp wires the full route table onto a fresh Fiber app.
func newTestApp(t *testing.T) (*fiber.App, *Server, *gorm.DB) {
	t.Helper()
	s, db := newTestServer(t)
	app := fiber.New()
	s.SetupRoutes(app)
	return app, s, db
}

func createServerUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: username,
		Password: string(hashed),
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createServerVideo(t *testing.T, db *gorm.DB, ownerID uint, title string) models.Video {
	t.Helper()
	video := models.Video{
		OwnerID:      ownerID,
		Title:        title,
		Description:  "description",
		VideoURL:     "http://blobs.test/" + title,
		ThumbnailURL: "http://blobs.test/" + title + "-thumb",
		IsPublished:  true,
	}
	require.NoError(t, db.Create(&video).Error)
	return video
}

// loginUser performs a real login request and returns the access token.
func loginUser(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": "password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)
	return envelope.Data.AccessToken
}

func authedRequest(method, target, token string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func jsonBody(t *testing.T, payload interface{}) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

// multipartBody builds a multipart form with string fields and fake files.
func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	for field, filename := range files {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake file bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func decodeEnvelope(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	if dest != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, dest))
	}
}
