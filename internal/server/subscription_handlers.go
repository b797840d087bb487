package server

import (
	"viewtube/internal/models"
	"viewtube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ToggleSubscription handles POST /api/v1/subscriptions/channel/:channelId.
func (s *Server) ToggleSubscription(c *fiber.Ctx) error {
	return s.handleToggle(c, service.ToggleSubscription, "channelId")
}

// ChannelSubscribers handles GET /api/v1/subscriptions/subscribers/:channelId.
func (s *Server) ChannelSubscribers(c *fiber.Ctx) error {
	channelID, err := parseID(c, "channelId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	subscribers, err := s.toggleService.GetSubscribers(c.UserContext(), channelID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, subscribers, "Subscribers fetched successfully")
}

// SubscribedChannels handles GET /api/v1/subscriptions/subscribed/:subscriberId.
func (s *Server) SubscribedChannels(c *fiber.Ctx) error {
	subscriberID, err := parseID(c, "subscriberId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	channels, err := s.toggleService.GetSubscribedChannels(c.UserContext(), currentUserID(c), subscriberID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, channels, "Subscribed channels fetched successfully")
}
