package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nexuschat/nexuschat/internal/ai"
	"github.com/nexuschat/nexuschat/internal/api"
	"github.com/nexuschat/nexuschat/internal/config"
	"github.com/nexuschat/nexuschat/internal/extract"
	"github.com/nexuschat/nexuschat/internal/repository"
	"github.com/nexuschat/nexuschat/internal/service"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	itemRepo := repository.NewItemRepository(db)
	analysisRepo := repository.NewAnalysisRepository(db)

	// Initialize the Gemini client once for the process lifetime. Without a
	// key the server still runs; model-dependent paths answer with fixed
	// failure sentences.
	var generator ai.Generator
	gemini, err := ai.NewGemini(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.VisionModel)
	if err != nil {
		logger.Warn("Failed to initialize Gemini, running without AI", zap.Error(err))
	} else {
		generator = gemini
		defer gemini.Close()
	}

	// Initialize services
	extractor := extract.NewService(generator, logger)
	responder := service.NewResponder(generator)
	composer := service.NewComposer(itemRepo, analysisRepo, sessionRepo, cfg.Chat.HistoryLimit)

	authService := service.NewAuthService(userRepo, cfg.Auth.TokenLifetimeDays)
	chatService := service.NewChatService(sessionRepo, itemRepo, composer, responder, logger)
	uploadService := service.NewUploadService(sessionRepo, itemRepo, analysisRepo,
		extractor, responder, cfg.MaxUploadBytes(), logger)
	analysisService := service.NewAnalysisService(sessionRepo, itemRepo, analysisRepo, extractor, logger)

	// Setup router
	router := api.SetupRouter(authService, chatService, uploadService, analysisService, api.RouterConfig{
		AllowOrigins: []string{"*"},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting NexusChat server", zap.String("address", cfg.Address()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
