package server

import (
	"viewtube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ReportContent handles POST /api/v1/moderation/report/:reportedId.
func (s *Server) ReportContent(c *fiber.Ctx) error {
	reportedID, err := parseID(c, "reportedId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	report, err := s.moderationService.Report(
		c.UserContext(),
		currentUserID(c),
		models.ReportedType(req.Type),
		reportedID,
		req.Reason,
	)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, report, "Report submitted successfully")
}

// ListReports handles GET /api/v1/moderation/reports.
func (s *Server) ListReports(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	reports, total, err := s.moderationService.ListReports(c.UserContext(), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, fiber.Map{
		"reports": reports,
		"total":   total,
	}, "Reports fetched successfully")
}

// BlockUser handles POST /api/v1/moderation/block/:blockedUserId.
func (s *Server) BlockUser(c *fiber.Ctx) error {
	blockedID, err := parseID(c, "blockedUserId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.moderationService.BlockUser(c.UserContext(), currentUserID(c), blockedID); err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, nil, "User blocked successfully")
}

// UnblockUser handles DELETE /api/v1/moderation/block/:blockedUserId.
func (s *Server) UnblockUser(c *fiber.Ctx) error {
	blockedID, err := parseID(c, "blockedUserId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.moderationService.UnblockUser(c.UserContext(), currentUserID(c), blockedID); err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, nil, "User unblocked successfully")
}

// ListBlocked handles GET /api/v1/moderation/blocked.
func (s *Server) ListBlocked(c *fiber.Ctx) error {
	blocked, err := s.moderationService.ListBlocked(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, blocked, "Blocked users fetched successfully")
}
