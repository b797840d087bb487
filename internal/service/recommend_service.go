package service

import (
	"context"
	"sort"
	"time"

	"viewtube/internal/models"
	"viewtube/internal/repository"
)

const (
	recommendLimit  = 10
	candidatePool   = 50
	recencyWindow   = 30 * 24 * time.Hour
	recencyMaxBoost = 30.0
)

// RecommendationService assembles a ranked feed from three candidate
// sources: videos related to the seed, videos matching the user's taste, and
// trending videos.
type RecommendationService struct {
	videoRepo repository.VideoRepository
	edgeRepo  repository.EdgeRepository
}

// NewRecommendationService returns a new RecommendationService.
func NewRecommendationService(
	videoRepo repository.VideoRepository,
	edgeRepo repository.EdgeRepository,
) *RecommendationService {
	return &RecommendationService{
		videoRepo: videoRepo,
		edgeRepo:  edgeRepo,
	}
}

// Recommend returns up to ten videos for the user. seedVideoID points at the
// video the user is currently watching; zero means no seed, which skips the
// content-based source.
func (s *RecommendationService) Recommend(ctx context.Context, userID, seedVideoID uint) ([]models.Video, error) {
	seen := make(map[uint]bool)
	seen[seedVideoID] = true

	watched := make(map[uint]bool)
	var tasteTags []string
	var tasteCategories []string

	if userID != 0 {
		history, err := s.edgeRepo.ListWatchHistory(ctx, userID, candidatePool, 0)
		if err != nil {
			return nil, err
		}
		for _, entry := range history {
			watched[entry.VideoID] = true
			tasteTags = append(tasteTags, entry.Video.Tags...)
			if entry.Video.Category != "" {
				tasteCategories = append(tasteCategories, entry.Video.Category)
			}
		}

		likes, err := s.edgeRepo.ListLikedVideos(ctx, userID, candidatePool, 0)
		if err != nil {
			return nil, err
		}
		for _, like := range likes {
			if like.Video == nil {
				continue
			}
			tasteTags = append(tasteTags, like.Video.Tags...)
			if like.Video.Category != "" {
				tasteCategories = append(tasteCategories, like.Video.Category)
			}
		}
	}

	var pool []models.Video

	// Content-based: same category or overlapping tags as the seed.
	if seedVideoID != 0 {
		seed, err := s.videoRepo.GetByID(ctx, seedVideoID)
		if err != nil {
			return nil, err
		}
		if seed.Category != "" {
			related, err := s.videoRepo.ListByCategories(ctx, []string{seed.Category}, candidatePool)
			if err != nil {
				return nil, err
			}
			pool = append(pool, related...)
		}
		recent, err := s.videoRepo.ListRecent(ctx, time.Now().Add(-recencyWindow), candidatePool)
		if err != nil {
			return nil, err
		}
		for _, video := range recent {
			if tagsOverlap(seed.Tags, video.Tags) {
				pool = append(pool, video)
			}
		}
	}

	// User-based: videos in the categories the user has liked or watched,
	// excluding what they have already seen.
	if len(tasteCategories) > 0 {
		matches, err := s.videoRepo.ListByCategories(ctx, dedupeStrings(tasteCategories), candidatePool)
		if err != nil {
			return nil, err
		}
		for _, video := range matches {
			if !watched[video.ID] {
				pool = append(pool, video)
			}
		}
	}
	if len(tasteTags) > 0 {
		recent, err := s.videoRepo.ListRecent(ctx, time.Now().Add(-recencyWindow), candidatePool)
		if err != nil {
			return nil, err
		}
		for _, video := range recent {
			if !watched[video.ID] && tagsOverlap(tasteTags, video.Tags) {
				pool = append(pool, video)
			}
		}
	}

	// Trending fallback keeps the feed full for new users.
	trending, _, err := s.videoRepo.List(ctx, repository.VideoFilter{
		SortBy:   "views",
		SortDesc: true,
		Limit:    candidatePool,
	})
	if err != nil {
		return nil, err
	}
	pool = append(pool, trending...)

	var candidates []models.Video
	for _, video := range pool {
		if seen[video.ID] || video.OwnerID == userID {
			continue
		}
		seen[video.ID] = true
		candidates = append(candidates, video)
	}

	now := time.Now()
	sort.SliceStable(candidates, func(i, j int) bool {
		return score(&candidates[i], now) > score(&candidates[j], now)
	})

	if len(candidates) > recommendLimit {
		candidates = candidates[:recommendLimit]
	}
	return candidates, nil
}

// score ranks a candidate by popularity with a decaying freshness boost.
func score(v *models.Video, now time.Time) float64 {
	ageDays := now.Sub(v.CreatedAt).Hours() / 24
	recency := recencyMaxBoost - ageDays
	if recency < 0 {
		recency = 0
	}
	return float64(v.Views)/1000 + float64(v.LikesCount)/100 + recency
}

func tagsOverlap(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, tag := range a {
		set[tag] = true
	}
	for _, tag := range b {
		if set[tag] {
			return true
		}
	}
	return false
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
