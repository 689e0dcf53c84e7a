package handlers

import (
	"net/http"

	"bcplughub/models"
	"bcplughub/services/invite"

	"github.com/gin-gonic/gin"
)

// InviteHandler serves invite poster previews.
type InviteHandler struct {
	Invites *invite.Service
}

func NewInviteHandler(svc *invite.Service) *InviteHandler {
	return &InviteHandler{Invites: svc}
}

func (h *InviteHandler) GenerateInvitePreviewHandler(c *gin.Context) {
	var req models.InvitePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.Invites.GeneratePreview(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to generate invite")
		return
	}
	c.JSON(http.StatusOK, resp)
}
