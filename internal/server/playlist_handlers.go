package server

import (
	"viewtube/internal/models"

	"github.com/gofiber/fiber/v2"
)

type playlistBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreatePlaylist handles POST /api/v1/playlists.
func (s *Server) CreatePlaylist(c *fiber.Ctx) error {
	var req playlistBody
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	playlist, err := s.playlistService.Create(c.UserContext(), currentUserID(c), req.Name, req.Description)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, playlist, "Playlist created successfully")
}

// GetPlaylist handles GET /api/v1/playlists/:playlistId.
func (s *Server) GetPlaylist(c *fiber.Ctx) error {
	playlistID, err := parseID(c, "playlistId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	playlist, err := s.playlistService.Get(c.UserContext(), playlistID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, playlist, "Playlist fetched successfully")
}

// ListUserPlaylists handles GET /api/v1/playlists/user/:userId.
func (s *Server) ListUserPlaylists(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	playlists, err := s.playlistService.ListByUser(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, playlists, "Playlists fetched successfully")
}

// UpdatePlaylist handles PATCH /api/v1/playlists/:playlistId.
func (s *Server) UpdatePlaylist(c *fiber.Ctx) error {
	playlistID, err := parseID(c, "playlistId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req playlistBody
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	playlist, err := s.playlistService.Update(c.UserContext(), playlistID, currentUserID(c), req.Name, req.Description)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, playlist, "Playlist updated successfully")
}

// DeletePlaylist handles DELETE /api/v1/playlists/:playlistId.
func (s *Server) DeletePlaylist(c *fiber.Ctx) error {
	playlistID, err := parseID(c, "playlistId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.playlistService.Delete(c.UserContext(), playlistID, currentUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, nil, "Playlist deleted successfully")
}

// AddVideoToPlaylist handles PATCH /api/v1/playlists/add/:videoId/:playlistId.
func (s *Server) AddVideoToPlaylist(c *fiber.Ctx) error {
	videoID, err := parseID(c, "videoId")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	playlistID, err := parseID(c, "playlistId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	playlist, err := s.playlistService.AddVideo(c.UserContext(), playlistID, videoID, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, playlist, "Video added to playlist successfully")
}

// RemoveVideoFromPlaylist handles PATCH /api/v1/playlists/remove/:videoId/:playlistId.
func (s *Server) RemoveVideoFromPlaylist(c *fiber.Ctx) error {
	videoID, err := parseID(c, "videoId")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	playlistID, err := parseID(c, "playlistId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	playlist, err := s.playlistService.RemoveVideo(c.UserContext(), playlistID, videoID, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, playlist, "Video removed from playlist successfully")
}
