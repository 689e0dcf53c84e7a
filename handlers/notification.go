package handlers

import (
	"net/http"

	"bcplughub/models"
	"bcplughub/services/event"
	"bcplughub/services/notification"
	"bcplughub/utils"

	"github.com/gin-gonic/gin"
)

// NotificationHandler serves /api/notifications.
type NotificationHandler struct {
	Notifications notification.NotificationService
	Events        event.EventService
}

func NewNotificationHandler(notifications notification.NotificationService, events event.EventService) *NotificationHandler {
	return &NotificationHandler{Notifications: notifications, Events: events}
}

// ownsNotification loads the notification and checks it belongs to the caller.
func (h *NotificationHandler) ownsNotification(c *gin.Context) bool {
	n, err := h.Notifications.Get(c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch notification")
		return false
	}
	return actingAs(c, n.UserID)
}

func (h *NotificationHandler) MarkReadHandler(c *gin.Context) {
	if !h.ownsNotification(c) {
		return
	}
	if err := h.Notifications.MarkRead(c.Param("id")); err != nil {
		respondError(c, err, "Failed to mark notification as read")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *NotificationHandler) DeleteHandler(c *gin.Context) {
	if !h.ownsNotification(c) {
		return
	}
	if err := h.Notifications.Delete(c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete notification")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

func (h *NotificationHandler) AcceptInviteHandler(c *gin.Context) {
	var req models.RSVPRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	if req.UserID == "" {
		req.UserID = c.GetString(utils.ContextUserID)
	}
	if !actingAs(c, req.UserID) {
		return
	}
	ev, err := h.Events.AcceptInvite(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to accept invite")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Invite accepted",
		"event_id":       ev.ID,
		"attendee_count": ev.RSVPCount,
		"max_capacity":   ev.MaxCapacity,
	})
}

func (h *NotificationHandler) DeclineInviteHandler(c *gin.Context) {
	if !h.ownsNotification(c) {
		return
	}
	if err := h.Events.DeclineInvite(c.Param("id")); err != nil {
		respondError(c, err, "Failed to decline invite")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invite declined"})
}
