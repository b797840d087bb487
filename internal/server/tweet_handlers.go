package server

import (
	"viewtube/internal/models"

	"github.com/gofiber/fiber/v2"
)

type tweetBody struct {
	Content string `json:"content"`
}

// CreateTweet handles POST /api/v1/tweets.
func (s *Server) CreateTweet(c *fiber.Ctx) error {
	var req tweetBody
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	tweet, err := s.tweetService.Create(c.UserContext(), currentUserID(c), req.Content)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, tweet, "Tweet created successfully")
}

// ListUserTweets handles GET /api/v1/tweets/user/:userId.
func (s *Server) ListUserTweets(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	limit, offset := parsePagination(c)
	tweets, total, err := s.tweetService.ListByUser(c.UserContext(), userID, limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, fiber.Map{
		"tweets": tweets,
		"total":  total,
	}, "Tweets fetched successfully")
}

// UpdateTweet handles PATCH /api/v1/tweets/:tweetId.
func (s *Server) UpdateTweet(c *fiber.Ctx) error {
	tweetID, err := parseID(c, "tweetId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req tweetBody
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	tweet, err := s.tweetService.Update(c.UserContext(), tweetID, currentUserID(c), req.Content)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, tweet, "Tweet updated successfully")
}

// DeleteTweet handles DELETE /api/v1/tweets/:tweetId.
func (s *Server) DeleteTweet(c *fiber.Ctx) error {
	tweetID, err := parseID(c, "tweetId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.tweetService.Delete(c.UserContext(), tweetID, currentUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, nil, "Tweet deleted successfully")
}
