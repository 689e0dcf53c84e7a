package handlers

import (
	"net/http"

	"bcplughub/models"
	ai "bcplughub/services/intelligence"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AIHandler serves the prediction endpoints.
type AIHandler struct {
	AI ai.AIService
}

func NewAIHandler(svc ai.AIService) *AIHandler {
	return &AIHandler{AI: svc}
}

func (h *AIHandler) EventInsightsHandler(c *gin.Context) {
	var req models.EventInsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.AI.EventInsights(c.Request.Context(), req.Events)
	if err != nil {
		respondError(c, err, "Failed to generate insights")
		return
	}
	getLogger(c).Debug("insights generated", zap.Int("events", len(req.Events)))
	c.JSON(http.StatusOK, resp)
}

func (h *AIHandler) GoatedPredictionHandler(c *gin.Context) {
	resp, err := h.AI.GoatedPrediction(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to generate prediction")
		return
	}
	c.JSON(http.StatusOK, resp)
}
