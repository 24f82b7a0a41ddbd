package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sightline/server/domain/entities"
	"github.com/sightline/server/domain/repositories"
	"github.com/sightline/server/internal/auth"
	"github.com/sightline/server/internal/websocket"
	"github.com/sightline/server/usecase"
)

// ThoughtProvider exposes the display state the console renders
type ThoughtProvider interface {
	CurrentThought() *entities.Thought
	History() []*entities.Thought
}

// InitRoutes initializes all API routes
func InitRoutes(
	e *echo.Echo,
	thoughts ThoughtProvider,
	narrator *usecase.Narrator,
	tts repositories.TextToSpeech,
	hub *websocket.Hub,
	logger *zap.Logger,
) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "sightline-server",
		})
	})

	// API v1 routes
	v1 := e.Group("/api/v1")

	// Viewer session APIs
	v1.POST("/viewer/auth", viewerAuth(logger))

	// Thought display APIs
	v1.GET("/thought", currentThought(thoughts))
	v1.GET("/thoughts", thoughtHistory(thoughts))

	// Narration APIs
	v1.GET("/narration", narrationStatus(narrator))
	v1.POST("/narration", narrationToggle(narrator, logger))
	v1.GET("/voices", listVoices(tts, logger))

	// WebSocket endpoint with JWT validation
	e.GET("/ws", func(c echo.Context) error {
		return websocketWithAuth(hub, c, logger)
	})
}

func viewerAuth(logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req ViewerAuthRequest
		if err := c.Bind(&req); err != nil {
			logger.Error("Failed to bind viewer auth request", zap.Error(err))
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "Invalid request format",
			})
		}

		viewerID := uuid.New().String()
		token, expiresAt, err := auth.GenerateViewerToken(viewerID)
		if err != nil {
			logger.Error("Failed to generate viewer token", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "internal_error",
				Message: "Failed to generate token",
			})
		}

		logger.Info("Viewer authenticated",
			zap.String("viewerID", viewerID),
			zap.String("name", req.Name))

		return c.JSON(http.StatusOK, ViewerAuthResponse{
			Token:     token,
			ExpiresAt: expiresAt,
			ViewerID:  viewerID,
		})
	}
}

func currentThought(thoughts ThoughtProvider) echo.HandlerFunc {
	return func(c echo.Context) error {
		current := thoughts.CurrentThought()
		if current == nil {
			return c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "no_thought",
				Message: "No thought received yet",
			})
		}
		return c.JSON(http.StatusOK, current)
	}
}

func thoughtHistory(thoughts ThoughtProvider) echo.HandlerFunc {
	return func(c echo.Context) error {
		history := thoughts.History()
		if history == nil {
			history = []*entities.Thought{}
		}
		return c.JSON(http.StatusOK, history)
	}
}

func narrationStatus(narrator *usecase.Narrator) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, narrator.Status())
	}
}

func narrationToggle(narrator *usecase.Narrator, logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req NarrationToggleRequest
		if err := c.Bind(&req); err != nil || req.Enabled == nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "Field 'enabled' is required",
			})
		}

		narrator.SetEnabled(*req.Enabled)
		logger.Info("Narration toggled by viewer", zap.Bool("enabled", *req.Enabled))

		return c.JSON(http.StatusOK, narrator.Status())
	}
}

func listVoices(tts repositories.TextToSpeech, logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		voices, err := tts.ListVoices(c.Request().Context())
		if err != nil {
			logger.Error("Failed to list voices", zap.Error(err))
			return c.JSON(http.StatusBadGateway, ErrorResponse{
				Error:   "voices_unavailable",
				Message: "Speech engine did not return voices",
			})
		}
		return c.JSON(http.StatusOK, voices)
	}
}

// websocketWithAuth validates the viewer token before upgrading
func websocketWithAuth(hub *websocket.Hub, c echo.Context, logger *zap.Logger) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_token",
			Message: "Query parameter 'token' is required",
		})
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		logger.Warn("Rejected websocket connection", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Token is invalid or expired",
		})
	}

	logger.Info("Viewer websocket authenticated", zap.String("viewerID", claims.ViewerID))
	return websocket.HandleWebSocket(hub, c, logger)
}
