// Package server contains the HTTP handlers and route wiring for the API.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"viewtube/internal/ai"
	"viewtube/internal/cache"
	"viewtube/internal/config"
	"viewtube/internal/database"
	"viewtube/internal/mailer"
	"viewtube/internal/middleware"
	"viewtube/internal/models"
	"viewtube/internal/repository"
	"viewtube/internal/service"
	"viewtube/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo repository.UserRepository

	authService       *service.AuthService
	toggleService     *service.ToggleService
	videoService      *service.VideoService
	commentService    *service.CommentService
	tweetService      *service.TweetService
	playlistService   *service.PlaylistService
	statsService      *service.StatsService
	moderationService *service.ModerationService
	recommendService  *service.RecommendationService
	aiService         *service.AIService
}

// NewServer creates a server with all production dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	store, err := storage.NewMinioStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("blob store init failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient, Deps{
		Store:  store,
		Mailer: mailer.NewSMTPMailer(cfg),
		AI:     ai.NewGeminiClient(cfg),
		Speech: ai.NewGeminiSpeech(cfg),
	})
}

// Deps bundles the external collaborators so tests can swap them out.
type Deps struct {
	Store  storage.Uploader
	Mailer mailer.Mailer
	AI     ai.Client
	Speech ai.Speech
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, deps Deps) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)
	edgeRepo := repository.NewEdgeRepository(db)
	moderationRepo := repository.NewModerationRepository(db)
	metadataRepo := repository.NewMetadataRepository(db)

	prom := middleware.InitMetrics("viewtube-api")

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
	}

	s.authService = service.NewAuthService(userRepo, deps.Store, deps.Mailer, cfg)
	s.toggleService = service.NewToggleService(edgeRepo, userRepo, videoRepo, commentRepo, tweetRepo)
	s.videoService = service.NewVideoService(videoRepo, edgeRepo, deps.Store)
	s.commentService = service.NewCommentService(commentRepo, videoRepo)
	s.tweetService = service.NewTweetService(tweetRepo, userRepo)
	s.playlistService = service.NewPlaylistService(playlistRepo, videoRepo, userRepo)
	s.statsService = service.NewStatsService(userRepo, videoRepo, edgeRepo)
	s.moderationService = service.NewModerationService(moderationRepo, userRepo, videoRepo, commentRepo)
	s.recommendService = service.NewRecommendationService(videoRepo, edgeRepo)
	s.aiService = service.NewAIService(deps.AI, deps.Speech, metadataRepo)

	return s, nil
}

// SetupMiddleware configures the middleware chain for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS before middlewares that can short-circuit so browser clients still
	// receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithError(c, &models.AppError{
				Code:       "TOO_MANY_REQUESTS",
				StatusCode: fiber.StatusTooManyRequests,
				Message:    "Too many requests, please try again later",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api/v1")
	api.Get("/healthcheck", s.LivenessCheck)

	users := api.Group("/users")
	users.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	users.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	users.Post("/refresh-token", s.RefreshToken)
	users.Post("/logout", s.AuthRequired(), s.Logout)
	users.Post("/request-password-change", s.AuthRequired(), middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "password_otp"), s.RequestPasswordChange)
	users.Post("/verify-password-otp", s.AuthRequired(), s.VerifyPasswordOTP)
	users.Get("/current-user", s.AuthRequired(), s.CurrentUser)
	users.Patch("/update-account", s.AuthRequired(), s.UpdateAccount)
	users.Patch("/avatar", s.AuthRequired(), s.UpdateAvatar)
	users.Patch("/cover-image", s.AuthRequired(), s.UpdateCoverImage)
	users.Get("/history", s.AuthRequired(), s.WatchHistory)
	users.Get("/search", s.SearchUsers)
	users.Get("/c/:username", s.ChannelProfile)

	videos := api.Group("/videos")
	videos.Get("/", s.ListVideos)
	videos.Post("/", s.AuthRequired(), middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "publish_video"), s.PublishVideo)
	videos.Get("/:id", s.GetVideo)
	videos.Patch("/:id", s.AuthRequired(), s.UpdateVideo)
	videos.Delete("/:id", s.AuthRequired(), s.DeleteVideo)
	videos.Patch("/toggle-publish/:id", s.AuthRequired(), s.TogglePublish)

	comments := api.Group("/comments", s.AuthRequired())
	comments.Get("/video/:videoId", s.ListComments)
	comments.Post("/video/:videoId", middleware.RateLimit(
		s.redis, 20, time.Minute, "create_comment"), s.AddComment)
	comments.Post("/reply/:commentId", middleware.RateLimit(
		s.redis, 20, time.Minute, "create_reply"), s.AddReply)
	comments.Get("/replies/:commentId", s.ListReplies)
	comments.Patch("/:commentId", s.UpdateComment)
	comments.Delete("/:commentId", s.DeleteComment)

	likes := api.Group("/likes", s.AuthRequired())
	likes.Post("/toggle/v/:videoId", s.ToggleVideoLike)
	likes.Post("/toggle/c/:commentId", s.ToggleCommentLike)
	likes.Post("/toggle/t/:tweetId", s.ToggleTweetLike)
	likes.Get("/videos", s.LikedVideos)

	subscriptions := api.Group("/subscriptions", s.AuthRequired())
	subscriptions.Post("/channel/:channelId", s.ToggleSubscription)
	subscriptions.Get("/subscribers/:channelId", s.ChannelSubscribers)
	subscriptions.Get("/subscribed/:subscriberId", s.SubscribedChannels)

	tweets := api.Group("/tweets", s.AuthRequired())
	tweets.Post("/", s.CreateTweet)
	tweets.Get("/user/:userId", s.ListUserTweets)
	tweets.Patch("/:tweetId", s.UpdateTweet)
	tweets.Delete("/:tweetId", s.DeleteTweet)

	playlists := api.Group("/playlists", s.AuthRequired())
	playlists.Post("/", s.CreatePlaylist)
	playlists.Get("/user/:userId", s.ListUserPlaylists)
	playlists.Get("/:playlistId", s.GetPlaylist)
	playlists.Patch("/:playlistId", s.UpdatePlaylist)
	playlists.Delete("/:playlistId", s.DeletePlaylist)
	playlists.Patch("/add/:videoId/:playlistId", s.AddVideoToPlaylist)
	playlists.Patch("/remove/:videoId/:playlistId", s.RemoveVideoFromPlaylist)

	watchLater := api.Group("/watchlater", s.AuthRequired())
	watchLater.Post("/toggle/:videoId", s.ToggleWatchLater)
	watchLater.Get("/", s.WatchLaterList)
	watchLater.Get("/status/:videoId", s.WatchLaterStatus)

	dashboard := api.Group("/dashboard", s.AuthRequired())
	dashboard.Get("/stats/:channelId", s.ChannelStats)
	dashboard.Get("/videos/:channelId", s.ChannelVideos)

	moderation := api.Group("/moderation", s.AuthRequired())
	moderation.Post("/report/:reportedId", middleware.RateLimit(
		s.redis, 10, 10*time.Minute, "report"), s.ReportContent)
	moderation.Post("/block/:blockedUserId", s.BlockUser)
	moderation.Delete("/block/:blockedUserId", s.UnblockUser)
	moderation.Get("/blocked", s.ListBlocked)
	moderation.Get("/reports", s.ListReports)

	recommendations := api.Group("/recommendations", s.AuthRequired())
	recommendations.Get("/", s.Recommendations)

	aiRoutes := api.Group("/ai", s.AuthRequired(), middleware.RateLimit(
		s.redis, 10, time.Minute, "ai"))
	aiRoutes.Post("/metadata", s.GenerateMetadata)
	aiRoutes.Post("/summarize", s.Summarize)
	aiRoutes.Post("/tts", s.TextToSpeech)
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return models.Respond(c, fiber.StatusOK, fiber.Map{"status": "up", "time": time.Now()}, "OK")
}

// ReadinessCheck handles readiness probe requests.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The app runs without Redis, just without cache and rate limits.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(models.APIResponse{
		StatusCode: status,
		Data: fiber.Map{
			"status": overall,
			"checks": fiber.Map{"database": dbStatus, "redis": redisStatus},
			"time":   time.Now(),
		},
		Message: "OK",
		Success: status == fiber.StatusOK,
	})
}

// AuthRequired returns the authentication middleware. The access token comes
// from the accessToken cookie or the Authorization bearer header.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies("accessToken")
		if tokenString == "" {
			authHeader := c.Get("Authorization")
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, err := s.parseAccessToken(tokenString)
		if err != nil {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		c.Locals("userID", userID)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

func (s *Server) parseAccessToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signing method")
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}
	if issuer, ok := claims["iss"].(string); !ok || issuer != "viewtube-api" {
		return 0, fmt.Errorf("invalid token issuer")
	}
	if audience, ok := claims["aud"].(string); !ok || audience != "viewtube-client" {
		return 0, fmt.Errorf("invalid token audience")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, fmt.Errorf("invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid user id in token")
	}
	return uint(userID), nil
}

// optionalUserID extracts the viewer's user ID when a valid token is present
// but does not enforce authentication.
func (s *Server) optionalUserID(c *fiber.Ctx) uint {
	tokenString := c.Cookies("accessToken")
	if tokenString == "" {
		authHeader := c.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
	}
	if tokenString == "" {
		return 0
	}
	userID, err := s.parseAccessToken(tokenString)
	if err != nil {
		return 0
	}
	return userID
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "ViewTube API",
		BodyLimit: 512 * 1024 * 1024, // uploads carry whole video files
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Unhandled error: %v", err)
			return models.RespondWithError(c, models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully stops the server and closes its connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
