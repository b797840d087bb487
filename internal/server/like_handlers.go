package server

import (
	"viewtube/internal/models"
	"viewtube/internal/service"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleToggle(c *fiber.Ctx, kind service.ToggleKind, param string) error {
	targetID, err := parseID(c, param)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	result, err := s.toggleService.Toggle(c.UserContext(), kind, currentUserID(c), targetID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, result, "Toggled successfully")
}

// ToggleVideoLike handles POST /api/v1/likes/toggle/v/:videoId.
func (s *Server) ToggleVideoLike(c *fiber.Ctx) error {
	return s.handleToggle(c, service.ToggleVideoLike, "videoId")
}

// ToggleCommentLike handles POST /api/v1/likes/toggle/c/:commentId.
func (s *Server) ToggleCommentLike(c *fiber.Ctx) error {
	return s.handleToggle(c, service.ToggleCommentLike, "commentId")
}

// ToggleTweetLike handles POST /api/v1/likes/toggle/t/:tweetId.
func (s *Server) ToggleTweetLike(c *fiber.Ctx) error {
	return s.handleToggle(c, service.ToggleTweetLike, "tweetId")
}

// LikedVideos handles GET /api/v1/likes/videos.
func (s *Server) LikedVideos(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	videos, err := s.toggleService.GetLikedVideos(c.UserContext(), currentUserID(c), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, videos, "Liked videos fetched successfully")
}
