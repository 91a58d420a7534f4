package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/terangafund/citizen-projects/internal/api/handler"
	"github.com/terangafund/citizen-projects/internal/api/middleware"
	"github.com/terangafund/citizen-projects/internal/core/domain"
	"github.com/terangafund/citizen-projects/internal/core/ports"
	"github.com/terangafund/citizen-projects/internal/core/service"
	"github.com/terangafund/citizen-projects/internal/infrastructure/db/mongo"
	"github.com/terangafund/citizen-projects/internal/infrastructure/db/redis"
	"github.com/terangafund/citizen-projects/internal/infrastructure/email"
	"github.com/terangafund/citizen-projects/internal/infrastructure/storage"
	"github.com/terangafund/citizen-projects/internal/pkg/config"
)

// NewRouter builds the Echo instance with all routes registered. The delivery
// queue is constructed and started by the caller so its workers share the
// process lifecycle.
func NewRouter(
	db *mongodriver.Database,
	rdb *goredis.Client,
	queue ports.DeliveryQueue,
	cfg *config.Config,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("citizen_projects"))

	// --- Repositories ---
	userRepo := mongo.NewUserRepository(db)
	projectRepo := mongo.NewProjectRepository(db)
	historyRepo := mongo.NewHistoryRepository(db)
	commentRepo := mongo.NewCommentRepository(db)
	notificationRepo := mongo.NewNotificationRepository(db)
	statsRepo := mongo.NewStatsRepository(db)
	tokenStore := redis.NewTokenStore(rdb)
	attachments := storage.NewSupabaseStore(storage.Config{
		URL:     cfg.Storage.URL,
		AnonKey: cfg.Storage.AnonKey,
		Bucket:  cfg.Storage.Bucket,
	}, log)
	mailer := email.NewLogMailer(log)

	// --- Services ---
	notificationService := service.NewNotificationService(notificationRepo, userRepo, queue, 0, log)
	authService := service.NewAuthService(userRepo, tokenStore, mailer, notificationService,
		cfg.JWTSecret, 24*time.Hour, cfg.PublicBaseURL, log)
	userService := service.NewUserService(userRepo, attachments, log)
	projectService := service.NewProjectService(projectRepo, userRepo, historyRepo,
		notificationService, attachments, cfg.HistoryLimit, log)
	commentService := service.NewCommentService(commentRepo, projectRepo, notificationService, 0, log)
	statsService := service.NewStatsService(statsRepo, projectRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService)
	commentHandler := handler.NewCommentHandler(commentService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	adminHandler := handler.NewAdminHandler(userService, statsService)

	authMiddleware := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RBAC(string(domain.RoleAdmin))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/verify-email", authHandler.VerifyEmail)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/reset-password", authHandler.ResetPassword)
	api.GET("/auth/me", authHandler.Me, authMiddleware)

	// --- Profile routes ---
	users := api.Group("/users", authMiddleware)
	users.PUT("/me", userHandler.UpdateProfile)
	users.POST("/me/profile-picture", userHandler.UploadProfilePicture)
	users.POST("/me/identity-document", userHandler.UploadIdentityDocument)

	// --- Project routes ---
	api.GET("/categories", projectHandler.Categories)
	api.GET("/projects/categories", projectHandler.Categories) // legacy alias

	projects := api.Group("/projects", authMiddleware)
	projects.POST("", projectHandler.Create)
	projects.GET("", projectHandler.List)
	projects.GET("/:id", projectHandler.Get)
	projects.PUT("/:id", projectHandler.Update)
	projects.POST("/:id/submit", projectHandler.Submit)
	projects.POST("/:id/validate", projectHandler.Validate)
	projects.POST("/:id/approve", projectHandler.Approve)
	projects.POST("/:id/reject", projectHandler.Reject)
	projects.POST("/:id/request-documents", projectHandler.RequestDocuments)
	projects.POST("/:id/documents", projectHandler.UploadDocument)
	projects.DELETE("/:id/documents/:documentId", projectHandler.DeleteDocument)
	projects.GET("/:id/history", projectHandler.History)
	projects.POST("/:id/comments", commentHandler.Add)
	projects.GET("/:id/comments", commentHandler.List)

	// --- Notification routes ---
	notifications := api.Group("/notifications", authMiddleware)
	notifications.GET("", notificationHandler.List)
	notifications.GET("/unread-count", notificationHandler.UnreadCount)
	notifications.PUT("/read-all", notificationHandler.MarkAllRead)
	notifications.PUT("/:id/read", notificationHandler.MarkRead)

	// --- Admin routes ---
	admin := api.Group("/admin", authMiddleware, adminOnly)
	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/users/:id", adminHandler.UpdateAccount)
	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/export/projects", adminHandler.ExportProjects)

	return e
}
