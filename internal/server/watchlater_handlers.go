package server

import (
	"viewtube/internal/models"
	"viewtube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ToggleWatchLater handles POST /api/v1/watchlater/toggle/:videoId.
func (s *Server) ToggleWatchLater(c *fiber.Ctx) error {
	return s.handleToggle(c, service.ToggleWatchLater, "videoId")
}

// WatchLaterList handles GET /api/v1/watchlater.
func (s *Server) WatchLaterList(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	videos, err := s.toggleService.GetWatchLater(c.UserContext(), currentUserID(c), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, videos, "Watch later list fetched successfully")
}

// WatchLaterStatus handles GET /api/v1/watchlater/status/:videoId.
func (s *Server) WatchLaterStatus(c *fiber.Ctx) error {
	videoID, err := parseID(c, "videoId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	saved, err := s.toggleService.IsSaved(c.UserContext(), currentUserID(c), videoID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"saved": saved}, "Watch later status fetched successfully")
}
