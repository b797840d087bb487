package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"viewtube/internal/config"
	"viewtube/internal/mailer"
	"viewtube/internal/middleware"
	"viewtube/internal/models"
	"viewtube/internal/repository"
	"viewtube/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
	otpTTL          = 10 * time.Minute
)

// TokenPair is an access/refresh token couple issued on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService implements registration, sessions and credential changes.
type AuthService struct {
	userRepo repository.UserRepository
	store    storage.Uploader
	mail     mailer.Mailer
	cfg      *config.Config
}

// NewAuthService returns a new AuthService.
func NewAuthService(
	userRepo repository.UserRepository,
	store storage.Uploader,
	mail mailer.Mailer,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		store:    store,
		mail:     mail,
		cfg:      cfg,
	}
}

// Upload is a file part handed down from a multipart form.
type Upload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}

// RegisterInput carries the registration form. Avatar is required; cover
// image is optional.
type RegisterInput struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	Avatar     *Upload
	CoverImage *Upload
}

// Register creates an account, uploads the avatar (and cover image when
// given) and sends a welcome email. Email delivery is best effort.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(strings.ToLower(in.Username))
	email := strings.TrimSpace(strings.ToLower(in.Email))
	fullName := strings.TrimSpace(in.FullName)

	if username == "" || email == "" || fullName == "" || in.Password == "" {
		return nil, models.NewValidationError("Username, email, fullname and password are required")
	}
	if len(username) < 3 || len(username) > 30 {
		return nil, models.NewValidationError("Username must be between 3 and 30 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, models.NewValidationError("Invalid email address")
	}
	if len(in.Password) < 8 {
		return nil, models.NewValidationError("Password must be at least 8 characters")
	}
	if in.Avatar == nil {
		return nil, models.NewValidationError("Avatar image is required")
	}

	if existing, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Username is already taken")
	}
	if existing, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Email is already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	avatarURL, avatarKey, err := s.store.Upload(ctx, in.Avatar.Reader, in.Avatar.Size, in.Avatar.ContentType)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var coverURL, coverKey string
	if in.CoverImage != nil {
		coverURL, coverKey, err = s.store.Upload(ctx, in.CoverImage.Reader, in.CoverImage.Size, in.CoverImage.ContentType)
		if err != nil {
			s.store.BulkDelete(ctx, []string{avatarKey})
			return nil, models.NewInternalError(err)
		}
	}

	user := &models.User{
		Username:      username,
		Email:         email,
		FullName:      fullName,
		Password:      string(hashed),
		AvatarURL:     avatarURL,
		AvatarKey:     avatarKey,
		CoverImageURL: coverURL,
		CoverImageKey: coverKey,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.store.BulkDelete(ctx, []string{avatarKey, coverKey})
		return nil, err
	}

	if err := s.mail.Send(ctx, mailer.WelcomeMessage(user.Email, user.FullName)); err != nil {
		middleware.Logger.WarnContext(ctx, "Welcome email failed",
			slog.Uint64("user_id", uint64(user.ID)),
			slog.String("error", err.Error()),
		)
	}

	return user, nil
}

// Login verifies credentials by username or email and issues a token pair.
// The refresh token is persisted; a new login invalidates the previous
// session's refresh token.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*models.User, *TokenPair, error) {
	identifier = strings.TrimSpace(strings.ToLower(identifier))
	if identifier == "" || password == "" {
		return nil, nil, models.NewValidationError("Username or email and password are required")
	}

	user, err := s.userRepo.GetByUsername(ctx, identifier)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		user, err = s.userRepo.GetByEmail(ctx, identifier)
		if err != nil {
			return nil, nil, err
		}
	}
	if user == nil {
		return nil, nil, models.NewUnauthorizedError("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, models.NewUnauthorizedError("Invalid credentials")
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh validates the presented refresh token against both its signature
// and the persisted value, then rotates the pair. A mismatch means the token
// was superseded or stolen; either way the session is rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error) {
	if refreshToken == "" {
		return nil, nil, models.NewUnauthorizedError("Refresh token is required")
	}

	userID, err := s.parseToken(refreshToken, s.cfg.RefreshTokenSecret)
	if err != nil {
		return nil, nil, models.NewUnauthorizedError("Invalid or expired refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		// Only a deleted account invalidates the token; a storage failure is
		// not a verdict on it.
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			return nil, nil, models.NewUnauthorizedError("Invalid or expired refresh token")
		}
		return nil, nil, err
	}
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, nil, models.NewUnauthorizedError("Refresh token is no longer valid")
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout clears the persisted refresh token so the session cannot refresh.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.RefreshToken = ""
	return s.userRepo.Update(ctx, user)
}

// RequestPasswordChange verifies the old password, then issues a 6-digit OTP
// valid for ten minutes and emails it.
func (s *AuthService) RequestPasswordChange(ctx context.Context, userID uint, oldPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return models.NewUnauthorizedError("Current password is incorrect")
	}

	otp, err := generateOTP()
	if err != nil {
		return models.NewInternalError(err)
	}

	expires := time.Now().UTC().Add(otpTTL)
	user.ResetOTP = otp
	user.ResetOTPExpires = &expires
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.mail.Send(ctx, mailer.OTPMessage(user.Email, otp)); err != nil {
		middleware.Logger.WarnContext(ctx, "OTP email failed",
			slog.Uint64("user_id", uint64(user.ID)),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// VerifyPasswordChange consumes the OTP and rotates the credential. Active
// sessions are kept; only the refresh token is cleared so they expire with
// the access token.
func (s *AuthService) VerifyPasswordChange(ctx context.Context, userID uint, otp, newPassword string) error {
	if len(newPassword) < 8 {
		return models.NewValidationError("Password must be at least 8 characters")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.ResetOTP == "" || user.ResetOTPExpires == nil {
		return models.NewValidationError("No pending password change request")
	}
	if time.Now().UTC().After(*user.ResetOTPExpires) {
		return models.NewValidationError("Verification code has expired")
	}
	if user.ResetOTP != otp {
		return models.NewValidationError("Invalid verification code")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}

	user.Password = string(hashed)
	user.ResetOTP = ""
	user.ResetOTPExpires = nil
	user.RefreshToken = ""
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.mail.Send(ctx, mailer.PasswordChangedMessage(user.Email, user.FullName)); err != nil {
		middleware.Logger.WarnContext(ctx, "Password change confirmation email failed",
			slog.Uint64("user_id", uint64(user.ID)),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// GetCurrentUser returns the authenticated user.
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateAccountInput carries editable account fields; empty means unchanged.
type UpdateAccountInput struct {
	FullName string
	Email    string
}

// UpdateAccount edits the account's profile details.
func (s *AuthService) UpdateAccount(ctx context.Context, userID uint, in UpdateAccountInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if fullName := strings.TrimSpace(in.FullName); fullName != "" {
		user.FullName = fullName
	}
	if email := strings.TrimSpace(strings.ToLower(in.Email)); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, models.NewValidationError("Invalid email address")
		}
		user.Email = email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateAvatar replaces the avatar image; the previous blob is deleted after
// the row update succeeds.
func (s *AuthService) UpdateAvatar(ctx context.Context, userID uint, upload Upload) (*models.User, error) {
	return s.replaceImage(ctx, userID, upload, func(u *models.User, url, key string) string {
		oldKey := u.AvatarKey
		u.AvatarURL = url
		u.AvatarKey = key
		return oldKey
	})
}

// UpdateCoverImage replaces the cover image.
func (s *AuthService) UpdateCoverImage(ctx context.Context, userID uint, upload Upload) (*models.User, error) {
	return s.replaceImage(ctx, userID, upload, func(u *models.User, url, key string) string {
		oldKey := u.CoverImageKey
		u.CoverImageURL = url
		u.CoverImageKey = key
		return oldKey
	})
}

func (s *AuthService) replaceImage(
	ctx context.Context,
	userID uint,
	upload Upload,
	apply func(u *models.User, url, key string) (oldKey string),
) (*models.User, error) {
	if upload.Reader == nil {
		return nil, models.NewValidationError("Image file is required")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, key, err := s.store.Upload(ctx, upload.Reader, upload.Size, upload.ContentType)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	oldKey := apply(user, url, key)
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.store.BulkDelete(ctx, []string{key})
		return nil, err
	}

	if oldKey != "" {
		s.store.BulkDelete(ctx, []string{oldKey})
	}
	return user, nil
}

// SearchUsers finds users by username or full name.
func (s *AuthService) SearchUsers(ctx context.Context, query string, limit, offset int) ([]models.Profile, int64, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, 0, models.NewValidationError("Search query is required")
	}
	users, total, err := s.userRepo.Search(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	profiles := make([]models.Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Profile())
	}
	return profiles, total, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, err := s.signToken(user, s.cfg.AccessTokenSecret, accessTokenTTL)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	refresh, err := s.signToken(user, s.cfg.RefreshTokenSecret, refreshTokenTTL)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user.RefreshToken = refresh
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) signToken(user *models.User, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("token secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"username": user.Username,
		"iss":      "viewtube-api",
		"aud":      "viewtube-client",
		"exp":      now.Add(ttl).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (s *AuthService) parseToken(tokenString, secret string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, fmt.Errorf("missing subject claim")
	}
	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid subject claim")
	}
	return uint(id), nil
}

// generateOTP draws a uniform 6-digit code from crypto/rand.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
