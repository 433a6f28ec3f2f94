package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/callnote-team/callnote/internal/adapter/handler"
	"github.com/callnote-team/callnote/internal/adapter/repository"
	"github.com/callnote-team/callnote/internal/infrastructure/database"
	"github.com/callnote-team/callnote/internal/infrastructure/external/twilio"
	"github.com/callnote-team/callnote/internal/infrastructure/storage"
	"github.com/callnote-team/callnote/internal/usecase/intake"
	pkgai "github.com/callnote-team/callnote/pkg/ai"
	"github.com/callnote-team/callnote/pkg/config"
	pkgvalidator "github.com/callnote-team/callnote/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	// Initialize Database
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Apply schema migrations only when explicitly enabled in config.
	// Production deployments should run cmd/migrate in CI/CD instead.
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize repositories
	recordRepo := repository.NewCallRecordRepository(db)

	// Initialize external clients
	twilioClient := twilio.NewClient(&cfg.Twilio)
	geminiClient := pkgai.NewGeminiClient(&cfg.Gemini)

	// Recording archive is optional
	var archiver intake.Archiver
	if cfg.ArchiveEnabled() {
		minioArchive, err := storage.NewMinIOArchive(&cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize recording archive: %v", err)
		}
		archiver = minioArchive
		logger.Info("recording archive enabled", zap.String("bucket", cfg.Storage.BucketName))
	}

	// Initialize intake service
	intakeService := intake.NewService(twilioClient, geminiClient, archiver, recordRepo, cfg, logger)

	// Initialize handlers
	webhookHandler := handler.NewCallWebhookHandler(intakeService, logger)
	recordsHandler := handler.NewRecordsHandler(recordRepo, logger)

	// Setup router with handlers
	router := handler.NewRouter(cfg, webhookHandler, recordsHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Starting server on %s (policy=%s, env=%s)", addr, cfg.Intake.Policy, cfg.Server.Environment)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
}
