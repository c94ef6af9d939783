package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"liferestart-server/internal/models"
)

// rollTalents returns a fresh talent draw for the creation screen. Each
// call reshuffles; the draw is not reserved server-side.
func (h *GameHandler) rollTalents(c *gin.Context) {
	c.JSON(http.StatusOK, TalentCatalogResponse{
		Talents:    h.games.RollTalents(),
		MaxPicks:   models.MaxTalents,
		StatPoints: models.TotalStatPoints,
	})
}

// startGame creates a new session from the submitted allocation and talent
// picks.
func (h *GameHandler) startGame(c *gin.Context) {
	var req StartGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
		return
	}

	id, state, err := h.games.StartGame(c.Request.Context(), req.Stats, req.TalentIDs)
	if err != nil {
		if !isExpectedError(err) {
			h.logger.Error("Failed to start game", zap.Error(err))
		}
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, GameResponse{ID: id, State: state})
}

// getGame returns the current snapshot of a session.
func (h *GameHandler) getGame(c *gin.Context) {
	id := c.Param("id")
	state, err := h.games.GetState(c.Request.Context(), id)
	if err != nil {
		if !isExpectedError(err) {
			h.logger.Error("Failed to get game state", zap.String("sessionID", id), zap.Error(err))
		}
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, GameResponse{ID: id, State: state})
}

// advance resolves the next year of a session. A concurrent turn on the
// same session gets 409 and changes nothing.
func (h *GameHandler) advance(c *gin.Context) {
	id := c.Param("id")

	var req AdvanceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
			return
		}
	}

	state, err := h.games.Advance(c.Request.Context(), id, req.ChoiceID)
	if err != nil {
		if !isExpectedError(err) {
			h.logger.Error("Failed to advance game",
				zap.String("sessionID", id),
				zap.String("choiceID", req.ChoiceID),
				zap.Error(err),
			)
		}
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, GameResponse{ID: id, State: state})
}

// restart discards a session's run and returns it to the START phase.
func (h *GameHandler) restart(c *gin.Context) {
	id := c.Param("id")
	state, err := h.games.Restart(c.Request.Context(), id)
	if err != nil {
		if !isExpectedError(err) {
			h.logger.Error("Failed to restart game", zap.String("sessionID", id), zap.Error(err))
		}
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, GameResponse{ID: id, State: state})
}
