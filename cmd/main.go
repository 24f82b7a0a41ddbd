package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/sightline/server/adapters/pipeline"
	"github.com/sightline/server/adapters/tts"
	"github.com/sightline/server/domain/entities"
	"github.com/sightline/server/domain/repositories"
	"github.com/sightline/server/internal/api"
	"github.com/sightline/server/internal/websocket"
	"github.com/sightline/server/usecase"
)

func main() {
	godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Speech engine: Eleven Labs when configured, mock otherwise
	var synthesizer repositories.TextToSpeech
	if config := tts.NewElevenLabsConfigFromEnv(); config.APIKey != "" {
		elevenLabs, err := tts.NewElevenLabsTTS(config, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Eleven Labs TTS", zap.Error(err))
		}
		synthesizer = elevenLabs
	} else {
		logger.Warn("ELEVEN_LABS_API_KEY not set, using mock speech engine")
		synthesizer = tts.NewMockTextToSpeech(logger)
	}

	// Pipeline thought source
	source, err := pipeline.NewHTTPThoughtSource(pipeline.NewHTTPThoughtSourceConfigFromEnv(), logger)
	if err != nil {
		logger.Fatal("Failed to initialize thought source", zap.Error(err))
	}

	// Initialize viewer hub
	hub := websocket.NewHub(logger)
	go hub.Run()

	// Initialize usecase services
	narrator := usecase.NewNarrator(synthesizer, hub, logger)
	history := entities.NewThoughtHistory(entities.HistoryCapacity)
	poller := usecase.NewPoller(source, narrator, history, pollIntervalFromEnv(logger), logger)
	poller.SetOnThought(hub.BroadcastThought)
	poller.Start()

	// Initialize API routes
	api.InitRoutes(e, poller, narrator, synthesizer, hub, logger)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("port", port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	// Tearing down the poller also cancels any in-progress utterance
	poller.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func pollIntervalFromEnv(logger *zap.Logger) time.Duration {
	intervalStr := os.Getenv("SIGHTLINE_POLL_INTERVAL")
	if intervalStr == "" {
		return usecase.DefaultPollInterval
	}

	interval, err := time.ParseDuration(intervalStr)
	if err != nil || interval <= 0 {
		logger.Warn("Invalid SIGHTLINE_POLL_INTERVAL, using default",
			zap.String("value", intervalStr),
			zap.Duration("default", usecase.DefaultPollInterval))
		return usecase.DefaultPollInterval
	}

	return interval
}
