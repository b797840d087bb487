package server

import (
	"viewtube/internal/models"

	"github.com/gofiber/fiber/v2"
)

type commentBody struct {
	Content string `json:"content"`
}

// AddComment handles POST /api/v1/comments/video/:videoId.
func (s *Server) AddComment(c *fiber.Ctx) error {
	videoID, err := parseID(c, "videoId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req commentBody
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.Add(c.UserContext(), videoID, currentUserID(c), req.Content)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, comment, "Comment added successfully")
}

// ListComments handles GET /api/v1/comments/video/:videoId.
func (s *Server) ListComments(c *fiber.Ctx) error {
	videoID, err := parseID(c, "videoId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	limit, offset := parsePagination(c)
	comments, total, err := s.commentService.ListByVideo(c.UserContext(), videoID, limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, fiber.Map{
		"comments": comments,
		"total":    total,
	}, "Comments fetched successfully")
}

// AddReply handles POST /api/v1/comments/reply/:commentId.
func (s *Server) AddReply(c *fiber.Ctx) error {
	parentID, err := parseID(c, "commentId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req commentBody
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	reply, err := s.commentService.AddReply(c.UserContext(), parentID, currentUserID(c), req.Content)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, reply, "Reply added successfully")
}

// ListReplies handles GET /api/v1/comments/replies/:commentId.
func (s *Server) ListReplies(c *fiber.Ctx) error {
	parentID, err := parseID(c, "commentId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	replies, err := s.commentService.ListReplies(c.UserContext(), parentID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, replies, "Replies fetched successfully")
}

// UpdateComment handles PATCH /api/v1/comments/:commentId.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req commentBody
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.Update(c.UserContext(), commentID, currentUserID(c), req.Content)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, comment, "Comment updated successfully")
}

// DeleteComment handles DELETE /api/v1/comments/:commentId.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.commentService.Delete(c.UserContext(), commentID, currentUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, nil, "Comment deleted successfully")
}
