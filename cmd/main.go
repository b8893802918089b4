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

	"github.com/deckvault/match-tracker/config"
	"github.com/deckvault/match-tracker/db"
	"github.com/deckvault/match-tracker/handlers"
	"github.com/deckvault/match-tracker/live"
	"github.com/deckvault/match-tracker/repositories"
	api "github.com/deckvault/match-tracker/routes"
	"github.com/deckvault/match-tracker/services"
	"github.com/deckvault/match-tracker/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Missing or unreachable store is not fatal: the handle dials
	// lazily and affected endpoints answer 500 until it recovers.
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL is not set; store-backed endpoints will fail until it is configured")
	}
	dbConn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database handle", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	if err := db.Ping(dbConn, 5*time.Second); err != nil {
		logger.Warn("database is not reachable at startup", slog.Any("error", err))
	} else {
		logger.Info("database connection established")
	}

	// Optional roster archive (Cloudflare R2).
	var archive storage.FileUploader
	if cfg.ArchiveConfigured() {
		archive, err = storage.NewR2Uploader(storage.R2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
		})
		if err != nil {
			logger.Error("failed to initialize roster archive uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("roster archive uploader initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Info("roster archive not configured; imports will not be archived")
	}

	if cfg.AdminSecret == "" && cfg.AdminPasswordHash == "" {
		logger.Warn("admin secret is not configured; admin endpoints will fail until it is set")
	}

	hub := live.NewHub(logger)
	go hub.Run()

	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	deckRepo := repositories.NewPostgresDeckRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	submissionRepo := repositories.NewPostgresSubmissionRepository(dbConn)
	validationRepo := repositories.NewPostgresValidationRepository(dbConn)
	logger.Info("repositories initialized")

	directoryService := services.NewDirectoryService(playerRepo)
	deckService := services.NewDeckService(deckRepo)
	eventService := services.NewEventService(eventRepo)
	validationService := services.NewValidationService(repositories.NewSQLTxRunner(dbConn), validationRepo, eventRepo, directoryService, archive, logger)
	submissionService := services.NewSubmissionService(submissionRepo, eventRepo, deckRepo, directoryService, validationService, hub)
	summaryService := services.NewSummaryService(submissionRepo, eventRepo)
	authService := services.NewAdminAuthService(services.AdminAuthConfig{
		Secret:     cfg.AdminSecret,
		SecretHash: cfg.AdminPasswordHash,
	})
	logger.Info("services initialized")

	publicHandler := handlers.NewPublicHandler(eventService, deckService, directoryService, submissionService, summaryService)
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(eventService, directoryService, submissionService, validationService)
	webSocketHandler := handlers.NewWebSocketHandler(hub, eventService, logger)

	router := chi.NewRouter()
	api.SetupRoutes(router, publicHandler, authHandler, adminHandler, webSocketHandler, authService)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
