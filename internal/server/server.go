// Package server contains the HTTP handlers and routing for the API.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"meetback/internal/cache"
	"meetback/internal/config"
	"meetback/internal/database"
	"meetback/internal/middleware"
	"meetback/internal/models"
	"meetback/internal/repository"
	"meetback/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	jwtIssuer   = "meetback-api"
	jwtAudience = "meetback-client"

	tokenLifetime = 24 * time.Hour
	// Tokens past this much of their lifetime get reissued on the next
	// authenticated request, so active sessions never expire mid-use.
	tokenRenewalThreshold = 6 * time.Hour
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	followRepo     repository.FollowRepository
	postRepo       repository.PostRepository
	likeRepo       repository.LikeRepository
	ratingRepo     repository.RatingRepository
	logRepo        repository.LogRepository
	authService    *service.AuthService
	followService  *service.FollowService
	postService    *service.PostService
	likeService    *service.LikeService
	ratingService  *service.RatingService
	logService     *service.LogService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("meetback-api"),
		userRepo:       repository.NewUserRepository(db),
		followRepo:     repository.NewFollowRepository(db),
		postRepo:       repository.NewPostRepository(db),
		likeRepo:       repository.NewLikeRepository(db),
		ratingRepo:     repository.NewRatingRepository(db),
		logRepo:        repository.NewLogRepository(db),
	}

	server.authService = service.NewAuthService(server.userRepo, db)
	server.followService = service.NewFollowService(server.followRepo, server.userRepo)
	server.postService = service.NewPostService(server.postRepo, server.followRepo, server.userRepo)
	server.likeService = service.NewLikeService(server.likeRepo, server.postRepo)
	server.ratingService = service.NewRatingService(server.ratingRepo, server.userRepo)
	server.logService = service.NewLogService(server.logRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; those belong to CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithError(c,
				models.NewRateLimitedError(time.Minute, "Too many requests, please try again later"))
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Meetback Backend Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/user/:handle", s.GetPublicProfile)

	authProtected := auth.Group("", s.AuthRequired())
	authProtected.Get("/verify", s.Verify)
	authProtected.Post("/logout", s.Logout)
	authProtected.Delete("/delete", s.DeleteAccount)
	authProtected.Get("/profile", s.GetProfile)
	authProtected.Put("/profile", s.UpdateProfile)
	authProtected.Post("/change-password", s.ChangePassword)
	authProtected.Post("/avatar", s.UploadAvatar)

	protected := api.Group("", s.AuthRequired())

	// Follow routes
	follow := protected.Group("/follow")
	follow.Get("/following", s.GetMyFollowing)
	follow.Get("/followers", s.GetMyFollowers)
	follow.Get("/following/:userId", s.GetFollowing)
	follow.Get("/followers/:userId", s.GetFollowers)
	follow.Get("/status/:userId", s.GetFollowStatus)
	// Generic /:userId routes must be last
	follow.Post("/:userId", s.Follow)
	follow.Delete("/:userId", s.Unfollow)

	// Post routes
	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	posts.Get("/feed", s.GetFeed)
	posts.Get("/user/:userId", s.GetUserPosts)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	posts.Get("/:id/replies", s.GetReplies)
	posts.Get("/:id/likes", s.GetPostLikers)
	posts.Post("/:id/like", s.LikePost)
	posts.Delete("/:id/like", s.UnlikePost)
	posts.Get("/:id", s.GetPost)
	posts.Delete("/:id", s.DeletePost)

	// Rating routes
	ratings := protected.Group("/ratings")
	ratings.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_rating"), s.CreateRating)
	ratings.Get("/given", s.GetGivenRatings)
	ratings.Get("/user/:userId", s.GetRatingAggregates)
	ratings.Get("/user/:userId/history", s.GetRatingHistory)
	ratings.Delete("/:id", s.AdminRequired(), s.DeleteRating)

	// Client log routes
	logs := protected.Group("/logs")
	logs.Post("/", middleware.RateLimit(
		s.redis, 30, time.Minute, "client_log"), s.CreateLogEntry)
	logs.Get("/", s.AdminRequired(), s.GetLogEntries)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/users", s.GetAllUsers)
	admin.Get("/posts", s.GetAllPosts)
	admin.Get("/posts/:id", s.GetAnyPost)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
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
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := s.currentUser(c)
		if err != nil {
			return models.RespondWithError(c, err)
		}
		if !user.IsAdmin() {
			return models.RespondWithError(c,
				models.NewForbiddenError(models.CodeForbidden, "Admin access required"))
		}
		return c.Next()
	}
}

// AuthRequired returns the authentication middleware. Besides validating the
// bearer token it implements rolling sessions: tokens past the renewal
// threshold get a fresh replacement in the X-Renewed-Token response header.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c,
				models.NewUnauthorizedError(models.CodeTokenMissing, "Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		},
			jwt.WithIssuer(jwtIssuer),
			jwt.WithAudience(jwtAudience),
			jwt.WithExpirationRequired(),
		)
		if err != nil || !token.Valid {
			return models.RespondWithError(c,
				models.NewUnauthorizedError(models.CodeInvalidToken, "Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c,
				models.NewUnauthorizedError(models.CodeInvalidToken, "Invalid token claims"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c,
				models.NewUnauthorizedError(models.CodeInvalidToken, "Invalid subject claim"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c,
				models.NewUnauthorizedError(models.CodeInvalidToken, "Invalid user ID in token"))
		}

		// Check JTI for revocation
		if jti, exists := claims["jti"].(string); exists && jti != "" {
			if s.redis != nil {
				isBlacklisted, err := s.redis.Exists(c.Context(), "blacklist:"+jti).Result()
				if err == nil && isBlacklisted > 0 {
					return models.RespondWithError(c,
						models.NewUnauthorizedError(models.CodeInvalidToken, "Token has been revoked"))
				}
			}
		}

		// Rolling renewal for tokens approaching expiry
		if exp, expErr := claims.GetExpirationTime(); expErr == nil && exp != nil {
			if time.Until(exp.Time) < tokenRenewalThreshold {
				if renewed, jti, signErr := s.generateToken(uint(userID)); signErr == nil {
					c.Set("X-Renewed-Token", renewed)
					c.Locals("renewedJTI", jti)
				}
			}
		}

		// Store user ID in context
		c.Locals("userID", uint(userID))
		if jti, exists := claims["jti"].(string); exists {
			c.Locals("jti", jti)
		}
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Meetback API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, err)
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
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
