package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JanVogt06/dfb-spesen-generator/internal/config"
	"github.com/JanVogt06/dfb-spesen-generator/internal/database"
	"github.com/JanVogt06/dfb-spesen-generator/internal/dfbnet"
	"github.com/JanVogt06/dfb-spesen-generator/internal/docx"
	"github.com/JanVogt06/dfb-spesen-generator/internal/generation"
	"github.com/JanVogt06/dfb-spesen-generator/internal/handlers"
	"github.com/JanVogt06/dfb-spesen-generator/internal/middleware"
	"github.com/JanVogt06/dfb-spesen-generator/internal/scheduler"
	"github.com/JanVogt06/dfb-spesen-generator/internal/workspace"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Environment)
	slog.SetDefault(logger)

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database and migrations
	db, err := database.NewClient(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.NewMigrator(db.DB(), logger).Run(); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Session workspaces on disk
	workspaces, err := workspace.NewManager(cfg.OutputDir)
	if err != nil {
		logger.Error("failed to prepare output directory", "dir", cfg.OutputDir, "error", err)
		os.Exit(1)
	}

	// Document renderer
	renderer, err := docx.NewRenderer(cfg.TemplatePath)
	if err != nil {
		logger.Error("failed to load document template", "path", cfg.TemplatePath, "error", err)
		os.Exit(1)
	}

	// Generation pipeline and scheduler
	source := dfbnet.NewPortalSource(cfg.DFBnetBaseURL, logger)
	service := generation.NewService(db, workspaces, source, renderer, cfg.EncryptionKey, logger)

	sched := scheduler.New(db, service, cfg.ScheduleHour, cfg.MaxConcurrentRuns, logger)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	sched.Start(ctx)
	defer sched.Stop()

	// Handlers
	jwtSecret := []byte(cfg.JWTSecret)
	tokenValidity := time.Duration(cfg.TokenDays) * 24 * time.Hour

	authHandler := handlers.NewAuthHandler(db, jwtSecret, tokenValidity, cfg.EncryptionKey)
	generateHandler := handlers.NewGenerateHandler(db, service)
	sessionsHandler := handlers.NewSessionsHandler(db, workspaces)
	matchesHandler := handlers.NewMatchesHandler(db, workspaces)
	downloadHandler := handlers.NewDownloadHandler(db, workspaces)
	schedulerHandler := handlers.NewSchedulerHandler(sched)
	healthHandler := handlers.NewHealthHandler(cfg.OutputDir)

	// Setup router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	userExists := func(userID int64) bool {
		_, err := db.GetUserByID(userID)
		return err == nil
	}

	// Public routes
	router.GET("/api/health", healthHandler.Health)
	router.POST("/api/auth/register", authHandler.Register)
	router.POST("/api/auth/login", authHandler.Login)

	// Authenticated routes
	api := router.Group("/api")
	api.Use(middleware.Auth(jwtSecret, userExists))

	api.GET("/auth/me", authHandler.Me)
	api.POST("/auth/change-password", authHandler.ChangePassword)
	api.POST("/auth/dfb-credentials", authHandler.SetDFBCredentials)
	api.GET("/auth/dfb-credentials/status", authHandler.DFBCredentialsStatus)

	api.POST("/generate", generateHandler.Generate)

	api.GET("/sessions", sessionsHandler.List)
	api.GET("/session/:session_id", sessionsHandler.Get)
	api.GET("/session/:session_id/matches", sessionsHandler.Matches)
	api.GET("/matches", matchesHandler.List)

	// The "all" archive shares the filename parameter; the handler branches.
	api.GET("/download/:session_id/:filename", downloadHandler.Download)

	api.POST("/scheduler/trigger", schedulerHandler.Trigger)
	api.GET("/scheduler/status", schedulerHandler.Status)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func newLogger(environment string) *slog.Logger {
	if environment == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
