package server

import (
	"time"

	"viewtube/internal/models"
	"viewtube/internal/service"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) setAuthCookies(c *fiber.Ctx, pair *service.TokenPair) {
	secure := s.config.Env == "production" || s.config.Env == "prod"
	c.Cookie(&fiber.Cookie{
		Name:     "accessToken",
		Value:    pair.AccessToken,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: "Lax",
		Expires:  time.Now().Add(15 * time.Minute),
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refreshToken",
		Value:    pair.RefreshToken,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: "Lax",
		Expires:  time.Now().Add(7 * 24 * time.Hour),
	})
}

func (s *Server) clearAuthCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	c.Cookie(&fiber.Cookie{Name: "accessToken", Value: "", HTTPOnly: true, Expires: expired})
	c.Cookie(&fiber.Cookie{Name: "refreshToken", Value: "", HTTPOnly: true, Expires: expired})
}

// Register handles POST /api/v1/users/register (multipart form).
func (s *Server) Register(c *fiber.Ctx) error {
	avatar, closeAvatar, err := formUpload(c, "avatar")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	defer closeAvatar()

	cover, closeCover, err := formUpload(c, "coverImage")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	defer closeCover()

	user, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Username:   c.FormValue("username"),
		Email:      c.FormValue("email"),
		FullName:   c.FormValue("fullname"),
		Password:   c.FormValue("password"),
		Avatar:     avatar,
		CoverImage: cover,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusCreated, user, "User registered successfully")
}

// Login handles POST /api/v1/users/login.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	user, pair, err := s.authService.Login(c.UserContext(), identifier, req.Password)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	s.setAuthCookies(c, pair)
	return models.Respond(c, fiber.StatusOK, fiber.Map{
		"user":          user,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}, "Logged in successfully")
}

// RefreshToken handles POST /api/v1/users/refresh-token.
func (s *Server) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refreshToken")
	if refreshToken == "" {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}

	user, pair, err := s.authService.Refresh(c.UserContext(), refreshToken)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	s.setAuthCookies(c, pair)
	return models.Respond(c, fiber.StatusOK, fiber.Map{
		"user":          user,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}, "Tokens refreshed successfully")
}

// Logout handles POST /api/v1/users/logout.
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.authService.Logout(c.UserContext(), currentUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	s.clearAuthCookies(c)
	return models.Respond(c, fiber.StatusOK, nil, "Logged out successfully")
}

// RequestPasswordChange handles POST /api/v1/users/request-password-change.
func (s *Server) RequestPasswordChange(c *fiber.Ctx) error {
	var req struct {
		OldPassword string `json:"old_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	if err := s.authService.RequestPasswordChange(c.UserContext(), currentUserID(c), req.OldPassword); err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, nil, "Verification code sent to your email")
}

// VerifyPasswordOTP handles POST /api/v1/users/verify-password-otp.
func (s *Server) VerifyPasswordOTP(c *fiber.Ctx) error {
	var req struct {
		OTP         string `json:"otp"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	if err := s.authService.VerifyPasswordChange(c.UserContext(), currentUserID(c), req.OTP, req.NewPassword); err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, nil, "Password changed successfully")
}

// CurrentUser handles GET /api/v1/users/current-user.
func (s *Server) CurrentUser(c *fiber.Ctx) error {
	user, err := s.authService.GetCurrentUser(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, user, "Current user fetched successfully")
}

// UpdateAccount handles PATCH /api/v1/users/update-account.
func (s *Server) UpdateAccount(c *fiber.Ctx) error {
	var req struct {
		FullName string `json:"fullname"`
		Email    string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.UpdateAccount(c.UserContext(), currentUserID(c), service.UpdateAccountInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, user, "Account updated successfully")
}

// UpdateAvatar handles PATCH /api/v1/users/avatar (multipart form).
func (s *Server) UpdateAvatar(c *fiber.Ctx) error {
	upload, closeFile, err := formUpload(c, "avatar")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	defer closeFile()
	if upload == nil {
		return models.RespondWithError(c, models.NewValidationError("Avatar image is required"))
	}

	user, err := s.authService.UpdateAvatar(c.UserContext(), currentUserID(c), *upload)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, user, "Avatar updated successfully")
}

// UpdateCoverImage handles PATCH /api/v1/users/cover-image (multipart form).
func (s *Server) UpdateCoverImage(c *fiber.Ctx) error {
	upload, closeFile, err := formUpload(c, "coverImage")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	defer closeFile()
	if upload == nil {
		return models.RespondWithError(c, models.NewValidationError("Cover image is required"))
	}

	user, err := s.authService.UpdateCoverImage(c.UserContext(), currentUserID(c), *upload)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, user, "Cover image updated successfully")
}

// WatchHistory handles GET /api/v1/users/history.
func (s *Server) WatchHistory(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	entries, err := s.videoService.GetWatchHistory(c.UserContext(), currentUserID(c), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, entries, "Watch history fetched successfully")
}

// SearchUsers handles GET /api/v1/users/search.
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	profiles, total, err := s.authService.SearchUsers(c.UserContext(), c.Query("query"), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{
		"users": profiles,
		"total": total,
	}, "Users fetched successfully")
}

// ChannelProfile handles GET /api/v1/users/c/:username.
func (s *Server) ChannelProfile(c *fiber.Ctx) error {
	profile, err := s.statsService.GetChannelProfile(c.UserContext(), c.Params("username"), s.optionalUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, profile, "Channel profile fetched successfully")
}
