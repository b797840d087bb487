package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"viewtube/internal/config"
	"viewtube/internal/database"
	"viewtube/internal/mailer"
	"viewtube/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.Models()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Port:               "8080",
		Env:                "test",
		AccessTokenSecret:  "test-access-secret",
		RefreshTokenSecret: "test-refresh-secret",
	}
}

// fakeStore is an in-memory storage.Uploader that records what it deleted.
type fakeStore struct {
	mu      sync.Mutex
	uploads int
	deleted []string
	// failAt makes the Nth Upload call fail (1-based); zero disables it.
	failAt int
}

func (f *fakeStore) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAt > 0 && f.uploads+1 == f.failAt {
		return "", "", fmt.Errorf("upload failed")
	}
	f.uploads++
	key := fmt.Sprintf("blob-%d", f.uploads)
	return "http://blobs.test/" + key, key, nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStore) BulkDelete(ctx context.Context, keys []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		if key != "" {
			f.deleted = append(f.deleted, key)
		}
	}
}

// fakeMailer records sent messages instead of delivering them.
type fakeMailer struct {
	mu       sync.Mutex
	messages []mailer.Message
}

func (f *fakeMailer) Send(ctx context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeMailer) sent() []mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mailer.Message(nil), f.messages...)
}

func createTestUser(t *testing.T, db *gorm.DB, username string) models.User {
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

func createTestVideo(t *testing.T, db *gorm.DB, ownerID uint, title string) models.Video {
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
