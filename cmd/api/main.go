package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leadline-crm/leadline-api/docs"
	"github.com/leadline-crm/leadline-api/internal/auth"
	"github.com/leadline-crm/leadline-api/internal/config"
	"github.com/leadline-crm/leadline-api/internal/database"
	"github.com/leadline-crm/leadline-api/internal/http/handler"
	"github.com/leadline-crm/leadline-api/internal/http/middleware"
	"github.com/leadline-crm/leadline-api/internal/http/router"
	"github.com/leadline-crm/leadline-api/internal/jobs"
	"github.com/leadline-crm/leadline-api/internal/legacy"
	"github.com/leadline-crm/leadline-api/internal/logger"
	"github.com/leadline-crm/leadline-api/internal/repository"
	"github.com/leadline-crm/leadline-api/internal/service"
	"github.com/leadline-crm/leadline-api/internal/storage"
	"github.com/leadline-crm/leadline-api/internal/telephony"
	"go.uber.org/zap"
)

// @title Leadline API
// @version 1.0
// @description CRM API for click-to-call and SMS outreach to leads

// @contact.name API Support
// @contact.email support@leadline-crm.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "api-staging.leadline-crm.io"
	case "production":
		docs.SwaggerInfo.Host = "api.leadline-crm.io"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: environment variables
	// In staging/production: Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize recording archive storage
	recordingStore, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Optional read-only legacy CRM connection, used for lead imports.
	// The app continues without it when not configured.
	legacyClient, err := legacy.NewClient(&cfg.Legacy, log)
	if err != nil {
		log.Warn("Legacy CRM connection failed, continuing without it", zap.Error(err))
		legacyClient = nil
	}

	// Telephony provider client
	gateway := telephony.NewClient(&cfg.Telephony)

	// Initialize repositories
	leadRepo := repository.NewLeadRepository(db)
	callRepo := repository.NewCallLogRepository(db)
	messageRepo := repository.NewMessageLogRepository(db)
	profileRepo := repository.NewEmployeeProfileRepository(db)
	sipRepo := repository.NewSipAccountRepository(db)
	userRepo := repository.NewUserRepository(db)
	webhookRepo := repository.NewWebhookEventRepository(db)

	// Initialize services
	profileService := service.NewProfileService(profileRepo, sipRepo, log)
	leadService := service.NewLeadService(leadRepo, callRepo, messageRepo, log)
	callService := service.NewCallService(leadRepo, callRepo, webhookRepo, profileService, gateway, recordingStore, &cfg.Telephony, &cfg.App, log)
	messageService := service.NewMessageService(leadRepo, messageRepo, webhookRepo, gateway, &cfg.Telephony, log)
	importService := service.NewImportService(legacyClient, leadRepo, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(&cfg.Auth, userRepo, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db, log)
	leadHandler := handler.NewLeadHandler(leadService, importService, log)
	callHandler := handler.NewCallHandler(callService, log)
	messageHandler := handler.NewMessageHandler(messageService, log)
	profileHandler := handler.NewProfileHandler(profileService, log)
	webhookHandler := handler.NewWebhookHandler(callService, messageService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		authMiddleware,
		rateLimiter,
		healthHandler,
		leadHandler,
		callHandler,
		messageHandler,
		profileHandler,
		webhookHandler,
	)

	// Background housekeeping: webhook event retention prune
	scheduler := jobs.NewScheduler(log)
	pruneJob := jobs.NewWebhookPruneJob(webhookRepo, &cfg.Jobs, log)
	if err := pruneJob.Register(scheduler); err != nil {
		log.Error("Failed to register webhook prune job", zap.Error(err))
	}
	scheduler.Start()

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		stopCtx := scheduler.Stop()
		<-stopCtx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if legacyClient != nil {
			if err := legacyClient.Close(); err != nil {
				log.Warn("Error closing legacy CRM connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
