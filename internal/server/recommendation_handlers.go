package server

import (
	"strconv"

	"viewtube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Recommendations handles GET /api/v1/recommendations. The optional videoId
// query parameter seeds content-based suggestions.
func (s *Server) Recommendations(c *fiber.Ctx) error {
	var seedVideoID uint
	if raw := c.Query("videoId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return models.RespondWithError(c, models.NewValidationError("Invalid videoId"))
		}
		seedVideoID = uint(parsed)
	}

	videos, err := s.recommendService.Recommend(c.UserContext(), currentUserID(c), seedVideoID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, videos, "Recommendations fetched successfully")
}
