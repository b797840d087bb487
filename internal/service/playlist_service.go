package service

import (
	"context"
	"strings"

	"viewtube/internal/models"
	"viewtube/internal/repository"
)

// PlaylistService implements owner-curated video collections.
type PlaylistService struct {
	playlistRepo repository.PlaylistRepository
	videoRepo    repository.VideoRepository
	userRepo     repository.UserRepository
}

// NewPlaylistService returns a new PlaylistService.
func NewPlaylistService(
	playlistRepo repository.PlaylistRepository,
	videoRepo repository.VideoRepository,
	userRepo repository.UserRepository,
) *PlaylistService {
	return &PlaylistService{
		playlistRepo: playlistRepo,
		videoRepo:    videoRepo,
		userRepo:     userRepo,
	}
}

// Create makes a new empty playlist.
func (s *PlaylistService) Create(ctx context.Context, ownerID uint, name, description string) (*models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("Playlist name is required")
	}

	playlist := &models.Playlist{
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, err
	}
	return s.playlistRepo.GetByID(ctx, playlist.ID)
}

// Get returns a playlist with its videos.
func (s *PlaylistService) Get(ctx context.Context, playlistID uint) (*models.Playlist, error) {
	return s.playlistRepo.GetByID(ctx, playlistID)
}

// ListByUser lists a user's playlists.
func (s *PlaylistService) ListByUser(ctx context.Context, userID uint) ([]models.Playlist, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.playlistRepo.ListByOwner(ctx, userID)
}

// Update edits name and description; only the owner may do this.
func (s *PlaylistService) Update(ctx context.Context, playlistID, requesterID uint, name, description string) (*models.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.OwnerID != requesterID {
		return nil, models.NewForbiddenError("You can only update your own playlists")
	}

	if name = strings.TrimSpace(name); name != "" {
		playlist.Name = name
	}
	if description = strings.TrimSpace(description); description != "" {
		playlist.Description = description
	}

	if err := s.playlistRepo.Update(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

// Delete removes a playlist; only the owner may do this. Videos themselves
// are untouched.
func (s *PlaylistService) Delete(ctx context.Context, playlistID, requesterID uint) error {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return err
	}
	if playlist.OwnerID != requesterID {
		return models.NewForbiddenError("You can only delete your own playlists")
	}
	return s.playlistRepo.Delete(ctx, playlistID)
}

// AddVideo links a video into the playlist; only the owner may do this.
func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, requesterID uint) (*models.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.OwnerID != requesterID {
		return nil, models.NewForbiddenError("You can only modify your own playlists")
	}

	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if err := s.playlistRepo.AddVideo(ctx, playlist, video); err != nil {
		return nil, err
	}
	return s.playlistRepo.GetByID(ctx, playlistID)
}

// RemoveVideo unlinks a video from the playlist; only the owner may do this.
func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, requesterID uint) (*models.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.OwnerID != requesterID {
		return nil, models.NewForbiddenError("You can only modify your own playlists")
	}

	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if err := s.playlistRepo.RemoveVideo(ctx, playlist, video); err != nil {
		return nil, err
	}
	return s.playlistRepo.GetByID(ctx, playlistID)
}
