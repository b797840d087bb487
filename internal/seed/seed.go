// Package seed provides database seeding utilities for development.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"viewtube/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumVideos   int
	ShouldClean bool
}

var categories = []string{
	"music", "gaming", "education", "sports", "news",
	"comedy", "technology", "travel", "cooking", "science",
}

// Run fills the database with fake users, videos, comments, tweets and
// relationship edges. Intended for development only.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumVideos <= 0 {
		opts.NumVideos = 100
	}

	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return err
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		username := strings.ToLower(gofakeit.Username()) + fmt.Sprint(i)
		user := &models.User{
			Username:  username,
			Email:     fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
			FullName:  gofakeit.Name(),
			Password:  string(hashed),
			AvatarURL: gofakeit.ImageURL(200, 200),
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
		users = append(users, user)
	}

	videos := make([]*models.Video, 0, opts.NumVideos)
	for i := 0; i < opts.NumVideos; i++ {
		owner := users[rand.Intn(len(users))]
		video := &models.Video{
			OwnerID:      owner.ID,
			Title:        gofakeit.Sentence(5),
			Description:  gofakeit.Paragraph(1, 3, 10, " "),
			VideoURL:     gofakeit.URL(),
			ThumbnailURL: gofakeit.ImageURL(640, 360),
			Duration:     float64(rand.Intn(3600)) + rand.Float64(),
			Views:        int64(rand.Intn(100000)),
			Category:     categories[rand.Intn(len(categories))],
			Tags:         fakeTags(),
			IsPublished:  rand.Intn(10) > 0,
			CreatedAt:    gofakeit.DateRange(time.Now().AddDate(0, -6, 0), time.Now()),
		}
		if err := db.Create(video).Error; err != nil {
			return fmt.Errorf("failed to seed video: %w", err)
		}
		videos = append(videos, video)
	}

	for _, video := range videos {
		for i := 0; i < rand.Intn(6); i++ {
			comment := &models.Comment{
				VideoID: video.ID,
				OwnerID: users[rand.Intn(len(users))].ID,
				Content: gofakeit.Sentence(10),
			}
			if err := db.Create(comment).Error; err != nil {
				return fmt.Errorf("failed to seed comment: %w", err)
			}
		}
	}

	for _, user := range users {
		for i := 0; i < rand.Intn(4); i++ {
			tweet := &models.Tweet{
				OwnerID: user.ID,
				Content: gofakeit.Sentence(12),
			}
			if err := db.Create(tweet).Error; err != nil {
				return fmt.Errorf("failed to seed tweet: %w", err)
			}
		}
	}

	// Random edges; ON CONFLICT DO NOTHING absorbs duplicate picks.
	for _, user := range users {
		for i := 0; i < rand.Intn(10); i++ {
			videoID := videos[rand.Intn(len(videos))].ID
			like := &models.Like{LikedByID: user.ID, VideoID: &videoID}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
				return fmt.Errorf("failed to seed like: %w", err)
			}
		}
		for i := 0; i < rand.Intn(5); i++ {
			channel := users[rand.Intn(len(users))]
			if channel.ID == user.ID {
				continue
			}
			sub := &models.Subscription{SubscriberID: user.ID, ChannelID: channel.ID}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(sub).Error; err != nil {
				return fmt.Errorf("failed to seed subscription: %w", err)
			}
		}
	}

	log.Printf("Seeded %d users and %d videos", len(users), len(videos))
	return nil
}

func clean(db *gorm.DB) error {
	tables := []interface{}{
		&models.Like{}, &models.Subscription{}, &models.WatchLater{},
		&models.WatchHistoryEntry{}, &models.UserBlock{}, &models.Report{},
		&models.Comment{}, &models.Tweet{}, &models.Playlist{},
		&models.Video{}, &models.User{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clean table: %w", err)
		}
	}
	return nil
}

func fakeTags() []string {
	n := 1 + rand.Intn(4)
	tags := make([]string, 0, n)
	for i := 0; i < n; i++ {
		tags = append(tags, strings.ToLower(gofakeit.Word()))
	}
	return tags
}
