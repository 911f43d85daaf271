// Package server contains the HTTP handlers for the forum API.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"studydeck/internal/cache"
	"studydeck/internal/config"
	"studydeck/internal/database"
	"studydeck/internal/featureflags"
	"studydeck/internal/middleware"
	"studydeck/internal/models"
	"studydeck/internal/notifications"
	"studydeck/internal/repository"
	"studydeck/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
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

	userRepo     repository.UserRepository
	threadRepo   repository.ThreadRepository
	replyRepo    repository.ReplyRepository
	likeRepo     repository.LikeRepository
	reportRepo   repository.ReportRepository
	taxonomyRepo repository.TaxonomyRepository
	courseRepo   repository.CourseRepository

	notifier     *notifications.Notifier
	featureFlags *featureflags.Manager

	userService       *service.UserService
	threadService     *service.ThreadService
	replyService      *service.ReplyService
	engagementService *service.EngagementService
	reportService     *service.ReportService
}

// NewServer creates a server instance, connecting the database and
// Redis from config.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized
// dependencies. Tests use this with an in-memory database.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("studydeck-api"),
		userRepo:       repository.NewUserRepository(db),
		threadRepo:     repository.NewThreadRepository(db),
		replyRepo:      repository.NewReplyRepository(db),
		likeRepo:       repository.NewLikeRepository(db),
		reportRepo:     repository.NewReportRepository(db),
		taxonomyRepo:   repository.NewTaxonomyRepository(db),
		courseRepo:     repository.NewCourseRepository(db),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
	}

	server.notifier = notifications.NewNotifier(
		server.userRepo,
		notifications.NewLogMailer(cfg.MailFrom),
		server.featureFlags,
		cfg.BaseURL,
	)

	server.userService = service.NewUserService(server.userRepo)
	server.threadService = service.NewThreadService(
		server.threadRepo, server.taxonomyRepo, server.courseRepo, server.likeRepo, server.notifier)
	server.replyService = service.NewReplyService(
		server.replyRepo, server.threadRepo, server.likeRepo, server.notifier)
	server.engagementService = service.NewEngagementService(
		server.likeRepo, server.threadRepo, server.replyRepo)
	server.reportService = service.NewReportService(
		server.reportRepo, server.threadRepo, server.replyRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. the
	// limiter) so browser clients still get CORS headers on errors.
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

	// Global rate limiting (100 requests per minute per IP).
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
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "StudyDeck Forum Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Public browse routes; AuthOptional fills per-viewer liked state.
	threads := api.Group("/threads", middleware.AuthOptional)
	threads.Get("/", s.GetThreads)
	threads.Get("/:id/replies", s.GetReplies)
	threads.Get("/:id", s.GetThread)

	api.Get("/categories", s.GetCategories)
	api.Get("/tags", s.GetTags)
	api.Get("/courses", s.GetCourses)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Put("/:id/role", s.SetUserRole)

	wt := protected.Group("/threads")
	wt.Post("/", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_thread"), s.CreateThread)
	// Specific /:id/:resource routes BEFORE generic /:id routes.
	wt.Post("/:id/replies", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_reply"), s.CreateReply)
	wt.Post("/:id/like", s.ToggleThreadLike)
	wt.Post("/:id/lock", s.LockThread)
	wt.Post("/:id/pin", s.TogglePinThread)
	wt.Put("/:id", s.UpdateThread)
	wt.Delete("/:id", s.DeleteThread)

	replies := protected.Group("/replies")
	replies.Post("/:id/like", s.ToggleReplyLike)
	replies.Post("/:id/answer", s.MarkAnswer)
	replies.Post("/:id/restore", s.RestoreReply)
	replies.Put("/:id", s.UpdateReply)
	replies.Delete("/:id/hard", s.HardDeleteReply)
	replies.Delete("/:id", s.SoftDeleteReply)

	reports := protected.Group("/reports")
	reports.Post("/", middleware.RateLimit(
		s.redis, 10, 10*time.Minute, "create_report"), s.CreateReport)
	reports.Get("/pending", s.GetPendingReports)
	reports.Get("/me", s.GetMyReports)
	reports.Put("/:id/resolve", s.ResolveReport)
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional,
// so a missing cache degrades the report rather than failing it.
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

// Start starts the server.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "StudyDeck Forum API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server.
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
