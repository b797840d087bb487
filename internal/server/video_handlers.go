package server

import (
	"strconv"
	"strings"

	"viewtube/internal/models"
	"viewtube/internal/repository"
	"viewtube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// PublishVideo handles POST /api/v1/videos (multipart form).
func (s *Server) PublishVideo(c *fiber.Ctx) error {
	videoFile, closeVideo, err := formUpload(c, "videoFile")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	defer closeVideo()

	thumbnail, closeThumb, err := formUpload(c, "thumbnail")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	defer closeThumb()

	duration, _ := strconv.ParseFloat(c.FormValue("duration"), 64)

	video, err := s.videoService.Publish(c.UserContext(), service.PublishInput{
		OwnerID:     currentUserID(c),
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Tags:        splitTags(c.FormValue("tags")),
		Duration:    duration,
		VideoFile:   videoFile,
		Thumbnail:   thumbnail,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, video, "Video published successfully")
}

// GetVideo handles GET /api/v1/videos/:id.
func (s *Server) GetVideo(c *fiber.Ctx) error {
	videoID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	video, err := s.videoService.Get(c.UserContext(), videoID, s.optionalUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, video, "Video fetched successfully")
}

// ListVideos handles GET /api/v1/videos.
func (s *Server) ListVideos(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)

	var ownerID uint
	if raw := c.Query("userId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return models.RespondWithError(c, models.NewValidationError("Invalid userId"))
		}
		ownerID = uint(parsed)
	}

	videos, total, err := s.videoService.List(c.UserContext(), repository.VideoFilter{
		Query:    c.Query("query"),
		Category: c.Query("category"),
		OwnerID:  ownerID,
		SortBy:   c.Query("sortBy", "created_at"),
		SortDesc: c.Query("sortDir", "desc") != "asc",
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, fiber.Map{
		"videos": videos,
		"total":  total,
	}, "Videos fetched successfully")
}

// UpdateVideo handles PATCH /api/v1/videos/:id (multipart form).
func (s *Server) UpdateVideo(c *fiber.Ctx) error {
	videoID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	thumbnail, closeThumb, err := formUpload(c, "thumbnail")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	defer closeThumb()

	video, err := s.videoService.Update(c.UserContext(), videoID, currentUserID(c), service.UpdateInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Tags:        splitTags(c.FormValue("tags")),
		Thumbnail:   thumbnail,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, video, "Video updated successfully")
}

// DeleteVideo handles DELETE /api/v1/videos/:id.
func (s *Server) DeleteVideo(c *fiber.Ctx) error {
	videoID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.videoService.Delete(c.UserContext(), videoID, currentUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, nil, "Video deleted successfully")
}

// TogglePublish handles PATCH /api/v1/videos/toggle-publish/:id.
func (s *Server) TogglePublish(c *fiber.Ctx) error {
	videoID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	video, err := s.videoService.TogglePublish(c.UserContext(), videoID, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, video, "Publish status toggled successfully")
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
