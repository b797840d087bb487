package server

import (
	"viewtube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ChannelStats handles GET /api/v1/dashboard/stats/:channelId.
func (s *Server) ChannelStats(c *fiber.Ctx) error {
	channelID, err := parseID(c, "channelId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	stats, err := s.statsService.GetChannelStats(c.UserContext(), channelID, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, stats, "Channel stats fetched successfully")
}

// ChannelVideos handles GET /api/v1/dashboard/videos/:channelId.
func (s *Server) ChannelVideos(c *fiber.Ctx) error {
	channelID, err := parseID(c, "channelId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	limit, offset := parsePagination(c)
	videos, total, err := s.statsService.GetChannelVideos(c.UserContext(), channelID, currentUserID(c), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, fiber.Map{
		"videos": videos,
		"total":  total,
	}, "Channel videos fetched successfully")
}
