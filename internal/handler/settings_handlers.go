package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"liferestart-server/internal/models"
	"liferestart-server/internal/service"
)

// LLMSettingsResponse carries the active backend selection and the catalog
// of selectable backends.
type LLMSettingsResponse struct {
	Selection models.LLMSelection   `json:"selection"`
	Options   []service.ModelOption `json:"options"`
}

// getLLMSettings returns the active backend selection. Falls back to the
// default when nothing usable was ever saved.
func (h *GameHandler) getLLMSettings(c *gin.Context) {
	c.JSON(http.StatusOK, LLMSettingsResponse{
		Selection: h.selections.Current(c.Request.Context()),
		Options:   service.SupportedModels,
	})
}

// putLLMSettings saves a backend selection. The input is normalized before
// saving, so the response always echoes a valid selection.
func (h *GameHandler) putLLMSettings(c *gin.Context) {
	var sel models.LLMSelection
	if err := c.ShouldBindJSON(&sel); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
		return
	}

	saved, err := h.selections.Save(c.Request.Context(), sel)
	if err != nil {
		h.logger.Error("Failed to save llm selection", zap.Error(err))
		c.JSON(http.StatusInternalServerError, APIError{Message: "Failed to save selection"})
		return
	}
	c.JSON(http.StatusOK, LLMSettingsResponse{
		Selection: saved,
		Options:   service.SupportedModels,
	})
}
