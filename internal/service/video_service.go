package service

import (
	"context"
	"log/slog"
	"strings"

	"viewtube/internal/middleware"
	"viewtube/internal/models"
	"viewtube/internal/repository"
	"viewtube/internal/storage"
)

// VideoService implements the video lifecycle: publish, read, list, update,
// delete and publish toggling.
type VideoService struct {
	videoRepo repository.VideoRepository
	edgeRepo  repository.EdgeRepository
	store     storage.Uploader
}

// NewVideoService returns a new VideoService.
func NewVideoService(
	videoRepo repository.VideoRepository,
	edgeRepo repository.EdgeRepository,
	store storage.Uploader,
) *VideoService {
	return &VideoService{
		videoRepo: videoRepo,
		edgeRepo:  edgeRepo,
		store:     store,
	}
}

// PublishInput carries the upload form for a new video.
type PublishInput struct {
	OwnerID     uint
	Title       string
	Description string
	Category    string
	Tags        []string
	Duration    float64
	VideoFile   *Upload
	Thumbnail   *Upload
}

// Publish uploads both media files and creates the video row. If the row
// insert fails the just-uploaded blobs are removed.
func (s *VideoService) Publish(ctx context.Context, in PublishInput) (*models.Video, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)

	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if description == "" {
		return nil, models.NewValidationError("Description is required")
	}
	if in.VideoFile == nil {
		return nil, models.NewValidationError("Video file is required")
	}
	if in.Thumbnail == nil {
		return nil, models.NewValidationError("Thumbnail is required")
	}

	videoURL, videoKey, err := s.store.Upload(ctx, in.VideoFile.Reader, in.VideoFile.Size, in.VideoFile.ContentType)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	thumbURL, thumbKey, err := s.store.Upload(ctx, in.Thumbnail.Reader, in.Thumbnail.Size, in.Thumbnail.ContentType)
	if err != nil {
		s.store.BulkDelete(ctx, []string{videoKey})
		return nil, models.NewInternalError(err)
	}

	video := &models.Video{
		OwnerID:      in.OwnerID,
		Title:        title,
		Description:  description,
		Category:     strings.TrimSpace(in.Category),
		Tags:         normalizeTags(in.Tags),
		Duration:     in.Duration,
		VideoURL:     videoURL,
		VideoKey:     videoKey,
		ThumbnailURL: thumbURL,
		ThumbnailKey: thumbKey,
		IsPublished:  true,
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		s.store.BulkDelete(ctx, []string{videoKey, thumbKey})
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "Video published",
		slog.Uint64("video_id", uint64(video.ID)),
		slog.Uint64("owner_id", uint64(video.OwnerID)),
	)
	return video, nil
}

// Get returns a video, bumps its view counter and records the viewer's watch
// history. Unpublished videos are visible only to their owner.
func (s *VideoService) Get(ctx context.Context, videoID, viewerID uint) (*models.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !video.IsPublished && video.OwnerID != viewerID {
		return nil, models.NewNotFoundError("Video", videoID)
	}

	if err := s.videoRepo.IncrementViews(ctx, videoID); err != nil {
		middleware.Logger.WarnContext(ctx, "View increment failed",
			slog.Uint64("video_id", uint64(videoID)),
			slog.String("error", err.Error()),
		)
	} else {
		video.Views++
	}

	if viewerID != 0 {
		if err := s.edgeRepo.UpsertWatchHistory(ctx, viewerID, videoID); err != nil {
			middleware.Logger.WarnContext(ctx, "Watch history update failed",
				slog.Uint64("video_id", uint64(videoID)),
				slog.Uint64("user_id", uint64(viewerID)),
				slog.String("error", err.Error()),
			)
		}
	}

	return video, nil
}

// List returns published videos matching the filter plus the total count.
func (s *VideoService) List(ctx context.Context, filter repository.VideoFilter) ([]models.Video, int64, error) {
	filter.IncludeUnpublished = false
	return s.videoRepo.List(ctx, filter)
}

// UpdateInput carries editable video fields; empty means unchanged.
type UpdateInput struct {
	Title       string
	Description string
	Category    string
	Tags        []string
	Thumbnail   *Upload
}

// Update edits a video's details; only the owner may do this.
func (s *VideoService) Update(ctx context.Context, videoID, requesterID uint, in UpdateInput) (*models.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.OwnerID != requesterID {
		return nil, models.NewForbiddenError("You can only update your own videos")
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		video.Title = title
	}
	if description := strings.TrimSpace(in.Description); description != "" {
		video.Description = description
	}
	if category := strings.TrimSpace(in.Category); category != "" {
		video.Category = category
	}
	if len(in.Tags) > 0 {
		video.Tags = normalizeTags(in.Tags)
	}

	var oldThumbKey string
	if in.Thumbnail != nil {
		url, key, err := s.store.Upload(ctx, in.Thumbnail.Reader, in.Thumbnail.Size, in.Thumbnail.ContentType)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		oldThumbKey = video.ThumbnailKey
		video.ThumbnailURL = url
		video.ThumbnailKey = key
	}

	if err := s.videoRepo.Update(ctx, video); err != nil {
		if in.Thumbnail != nil {
			s.store.BulkDelete(ctx, []string{video.ThumbnailKey})
		}
		return nil, err
	}

	if oldThumbKey != "" {
		s.store.BulkDelete(ctx, []string{oldThumbKey})
	}
	return video, nil
}

// Delete removes the video row, then best-effort deletes its blobs.
func (s *VideoService) Delete(ctx context.Context, videoID, requesterID uint) error {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return err
	}
	if video.OwnerID != requesterID {
		return models.NewForbiddenError("You can only delete your own videos")
	}

	if err := s.videoRepo.Delete(ctx, videoID); err != nil {
		return err
	}

	s.store.BulkDelete(ctx, []string{video.VideoKey, video.ThumbnailKey})
	return nil
}

// TogglePublish flips the published flag; only the owner may do this.
func (s *VideoService) TogglePublish(ctx context.Context, videoID, requesterID uint) (*models.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.OwnerID != requesterID {
		return nil, models.NewForbiddenError("You can only publish your own videos")
	}

	video.IsPublished = !video.IsPublished
	if err := s.videoRepo.Update(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// GetWatchHistory lists the user's watch history, most recent first.
func (s *VideoService) GetWatchHistory(ctx context.Context, userID uint, limit, offset int) ([]models.WatchHistoryEntry, error) {
	return s.edgeRepo.ListWatchHistory(ctx, userID, limit, offset)
}

func normalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
