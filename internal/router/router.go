package router

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anonto42/connectly/backend/internal/handlers"
	"github.com/anonto42/connectly/backend/internal/media"
	"github.com/anonto42/connectly/backend/internal/middleware"
	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/repositories"
	"github.com/anonto42/connectly/backend/internal/services"
	"github.com/anonto42/connectly/backend/internal/views"
	"github.com/anonto42/connectly/backend/pkg/config"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Dependencies are the external resources the routes are built on.
// Verifier and Uploader may be nil when Firebase or S3 is not configured.
type Dependencies struct {
	Config   *config.Config
	Postgres *gorm.DB
	Mongo    *mongo.Database
	Verifier middleware.TokenVerifier
	Views    views.Invalidator
	Uploader media.Uploader
	Logger   *slog.Logger
}

// AutoMigrate creates or updates the relational tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Connection{},
		&models.Message{},
		&models.Notification{},
		&models.Comment{},
	)
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) error {
	logger := deps.Logger
	cfg := deps.Config

	if err := AutoMigrate(deps.Postgres); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("postgres auto-migrations completed")

	inv := deps.Views
	if inv == nil {
		inv = views.Noop{}
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Repositories ---
	postRepo := repositories.NewMongoPostRepository(deps.Mongo)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := postRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure post indexes: %w", err)
	}
	commentRepo := repositories.NewPostgresCommentRepository(deps.Postgres)
	connectionRepo := repositories.NewPostgresConnectionRepository(deps.Postgres)
	messageRepo := repositories.NewPostgresMessageRepository(deps.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(deps.Postgres)

	// --- Domain components ---
	hub := services.NewNotificationHub(notificationRepo, logger)
	graph := services.NewConnectionGraph(connectionRepo, hub)
	conversations := services.NewConversationStore(messageRepo, hub)
	engagement := services.NewPostEngagement(postRepo, commentRepo, hub, logger)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(deps.Verifier, cfg.JWTSecret).RegisterAuthRoutes(authGroup)

	// --- Protected routes ---
	api := e.Group("/api/v1")
	switch cfg.AuthMode {
	case "firebase":
		if deps.Verifier == nil {
			return fmt.Errorf("AUTH_MODE=firebase requires Firebase credentials")
		}
		api.Use(middleware.FirebaseAuthMiddleware(deps.Verifier))
	default:
		api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	}
	logger.Info("authentication middleware applied", slog.String("mode", cfg.AuthMode))

	handlers.NewProfileHandler(hub, inv).RegisterProfileRoutes(api)
	handlers.NewPostHandler(engagement, inv).RegisterPostRoutes(api)
	handlers.NewFeedHandler(engagement).RegisterFeedRoutes(api)
	handlers.NewLikeHandler(engagement, inv).RegisterLikeRoutes(api)
	handlers.NewCommentHandler(engagement, inv).RegisterCommentRoutes(api)
	handlers.NewConnectionHandler(graph, inv).RegisterConnectionRoutes(api)
	handlers.NewMessageHandler(conversations, graph, engagement, inv, cfg.AppURL, logger).RegisterMessageRoutes(api)
	handlers.NewNotificationHandler(hub, inv, logger).RegisterNotificationRoutes(api)

	if deps.Uploader != nil {
		handlers.NewMediaHandler(deps.Uploader, cfg.MaxUploadBytes).RegisterMediaRoutes(api)
	} else {
		logger.Warn("media uploads disabled, S3_BUCKET_NAME not set")
	}

	logger.Info("all routes configured")
	return nil
}
