package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/connectly/backend/internal/media"
	"github.com/anonto42/connectly/backend/internal/router"
	"github.com/anonto42/connectly/backend/internal/views"
	"github.com/anonto42/connectly/backend/pkg/config"
	"github.com/anonto42/connectly/backend/pkg/firebase"
	"github.com/anonto42/connectly/backend/pkg/logger"
	"github.com/anonto42/connectly/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.Env, cfg.LogLevel)

	if err := run(cfg, logger.L()); err != nil {
		logger.L().Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

// run returns instead of exiting so deferred cleanup always happens.
func run(cfg *config.Config, log *slog.Logger) error {
	// Initialize database connections
	db, err := config.InitDB(cfg, log)
	if err != nil {
		return fmt.Errorf("initialize databases: %w", err)
	}
	defer db.CloseDB()

	ctx := context.Background()
	deps := router.Dependencies{
		Config:   cfg,
		Postgres: db.Postgres,
		Mongo:    db.Mongo.Database(cfg.MongoDatabase),
		Views:    views.Noop{},
		Logger:   log,
	}

	// Initialize Firebase
	authClient, err := firebase.NewAuthClient(ctx, firebase.Options{
		CredentialsPath: cfg.FirebaseCredentialsPath,
		ProjectID:       cfg.FirebaseProjectID,
	})
	if err != nil {
		log.Warn("firebase disabled", slog.Any("error", err))
	} else {
		deps.Verifier = authClient
	}

	if rdb, err := config.InitRedis(cfg.RedisURL); err != nil {
		log.Warn("view invalidation disabled", slog.Any("error", err))
	} else {
		defer rdb.Close()
		deps.Views = views.NewRedisInvalidator(rdb, log)
	}

	if cfg.S3BucketName != "" {
		uploader, err := media.NewS3Uploader(ctx, cfg.AWSRegion, cfg.S3BucketName, cfg.MediaPublicBaseURL)
		if err != nil {
			return fmt.Errorf("initialize media uploads: %w", err)
		}
		deps.Uploader = uploader
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Debug = !cfg.IsProduction()
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e, log)

	if err := router.SetupRoutes(e, deps); err != nil {
		return fmt.Errorf("set up routes: %w", err)
	}

	metricsSrv := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", slog.Any("error", err))
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	log.Info("server started", slog.String("port", cfg.Port), slog.String("metrics_port", cfg.MetricsPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	runErr := waitForShutdown(quit, serverErr, log)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("error", err))
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("metrics shutdown", slog.Any("error", err))
	}
	return runErr
}

// waitForShutdown blocks until a signal arrives or the server fails, and
// returns the server error if there was one.
func waitForShutdown(quit <-chan os.Signal, serverErr <-chan error, log *slog.Logger) error {
	select {
	case sig := <-quit:
		log.Info("shutting down", slog.String("signal", sig.String()))
		return nil
	case err := <-serverErr:
		log.Error("server stopped", slog.Any("error", err))
		return err
	}
}
