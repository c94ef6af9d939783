package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"liferestart-server/internal/repository"
	"liferestart-server/internal/service"
)

// GameHandler exposes the game and settings API over HTTP.
type GameHandler struct {
	games      *service.GameService
	selections *service.SelectionStore
	logger     *zap.Logger
}

// NewGameHandler creates a GameHandler.
func NewGameHandler(games *service.GameService, selections *service.SelectionStore, logger *zap.Logger) *GameHandler {
	return &GameHandler{
		games:      games,
		selections: selections,
		logger:     logger.Named("GameHandler"),
	}
}

// RegisterRoutes registers the API routes on the given engine.
func (h *GameHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/talents", h.rollTalents)
		api.GET("/settings/llm", h.getLLMSettings)
		api.PUT("/settings/llm", h.putLLMSettings)
		api.POST("/games", h.startGame)
		api.GET("/games/:id", h.getGame)
		api.POST("/games/:id/turns", h.advance)
		api.POST("/games/:id/restart", h.restart)
	}
}

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(c *gin.Context, err error) {
	var status int
	var apiErr APIError

	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		status = http.StatusNotFound
		apiErr = APIError{Message: "Game session not found"}
	case errors.Is(err, service.ErrTurnInProgress):
		status = http.StatusConflict
		apiErr = APIError{Message: err.Error()}
	case errors.Is(err, service.ErrGameNotPlaying):
		status = http.StatusConflict
		apiErr = APIError{Message: err.Error()}
	case errors.Is(err, service.ErrInvalidAllocation),
		errors.Is(err, service.ErrTooManyTalents):
		status = http.StatusBadRequest
		apiErr = APIError{Message: err.Error()}
	default:
		status = http.StatusInternalServerError
		apiErr = APIError{Message: "Internal server error"}
	}
	c.JSON(status, apiErr)
}

// isExpectedError reports whether the error is part of the normal API flow
// and does not deserve an error-level log line.
func isExpectedError(err error) bool {
	return errors.Is(err, repository.ErrSessionNotFound) ||
		errors.Is(err, service.ErrTurnInProgress) ||
		errors.Is(err, service.ErrGameNotPlaying) ||
		errors.Is(err, service.ErrInvalidAllocation) ||
		errors.Is(err, service.ErrTooManyTalents)
}
