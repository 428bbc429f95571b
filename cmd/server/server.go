package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/art2002-alugu/infimobile-form/internal/config"
	"github.com/art2002-alugu/infimobile-form/internal/db"
	"github.com/art2002-alugu/infimobile-form/internal/draft"
	"github.com/art2002-alugu/infimobile-form/internal/handlers"
	"github.com/art2002-alugu/infimobile-form/internal/models"
	"github.com/art2002-alugu/infimobile-form/internal/services"
	"github.com/art2002-alugu/infimobile-form/pkg/logger"
	"github.com/art2002-alugu/infimobile-form/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupServer initializes and returns a configured HTTP server along with a
// cleanup func that releases the store subscription and closes the store.
func SetupServer(cfg *config.Config) (*http.Server, func(), error) {
	if cfg == nil {
		return nil, nil, errors.New("configuration is required")
	}

	if cfg.Server.Port <= 0 {
		return nil, nil, errors.New("invalid server port")
	}

	// Initialize the document store
	store, err := db.NewStore(cfg.Database.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize document store: %w", err)
	}

	// Initialize the draft store
	drafts, err := draft.NewStore(cfg.Draft.Path)
	if err != nil {
		if closeErr := store.Close(); closeErr != nil {
			logger.Warn("Failed to close store", zap.Error(closeErr))
		}
		return nil, nil, fmt.Errorf("failed to initialize draft store: %w", err)
	}

	// Initialize services. The detector observes the index before the
	// coordinator touches it, fixing recomputation order.
	sheet := services.NewSheetClient(cfg.Sheet.IntakeURL, cfg.Sheet.ContactURL, cfg.Sheet.RequestTimeout)
	index := services.NewRecordIndex()
	detector := services.NewDuplicateDetector(index)
	coordinator := services.NewCoordinator(store, sheet, drafts, index, detector)
	contactService := services.NewContactService(sheet)

	// Feed the index from the store subscription
	cancelSub, err := store.Subscribe(func(records []*models.Record) {
		index.Replace(records)
	})
	if err != nil {
		if closeErr := store.Close(); closeErr != nil {
			logger.Warn("Failed to close store", zap.Error(closeErr))
		}
		return nil, nil, fmt.Errorf("failed to subscribe to store: %w", err)
	}

	// Initialize router
	router := gin.Default()
	if cfg.Server.ForceHTTPS {
		router.Use(middleware.HTTPSRedirectMiddleware())
	}
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.AuditLogMiddleware())

	// Setup routes
	setupRoutes(router, coordinator, contactService)

	// Create server with security timeouts
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	cleanup := func() {
		cancelSub()
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close store", zap.Error(err))
		}
	}

	return srv, cleanup, nil
}

// setupRoutes configures all the HTTP routes
func setupRoutes(
	router *gin.Engine,
	coordinator *services.Coordinator,
	contactService *services.ContactService,
) {
	intakeHandler := handlers.NewIntakeHandler(coordinator)
	contactHandler := handlers.NewContactHandler(contactService)

	// Basic health check endpoint
	router.GET("/health", handleHealthCheck)

	// Simple contact form
	router.POST("/api/contact", contactHandler.Submit)

	// Intake form with duplicate reconciliation
	intake := router.Group("/api/intake")
	{
		intake.GET("/draft", intakeHandler.GetDraft)
		intake.PUT("/draft", intakeHandler.PutDraft)
		intake.POST("/draft/reset", intakeHandler.ResetDraft)
		intake.POST("/draft/fields", intakeHandler.AddExtraField)
		intake.GET("/draft/copy", intakeHandler.CopyDraft)
		intake.GET("/duplicate", intakeHandler.GetDuplicate)
		intake.POST("/submit", intakeHandler.Submit)
		intake.POST("/submit/confirm", intakeHandler.ConfirmSubmit)
		intake.POST("/submit/abort", intakeHandler.AbortSubmit)
		intake.GET("/submissions", intakeHandler.ListSubmissions)
		intake.GET("/export.csv", intakeHandler.ExportCSV)
	}
}

// handleHealthCheck handles the health check endpoint
func handleHealthCheck(c *gin.Context) {
	logger.Info("Health check endpoint called")
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"time":    time.Now().UTC(),
		"version": version,
		"service": "infimobile-form-server",
	})
}

// StartServer starts the HTTP server and handles graceful shutdown
func StartServer(srv *http.Server) error {
	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create a timeout context for shutdown
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}

// StartServerWithContext starts the HTTP server with a context for shutdown control
func StartServerWithContext(ctx context.Context, srv *http.Server) error {
	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
