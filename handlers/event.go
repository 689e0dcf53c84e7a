package handlers

import (
	"net/http"
	"strconv"

	"bcplughub/models"
	"bcplughub/services/campusmap"
	"bcplughub/services/event"
	"bcplughub/utils"

	"github.com/gin-gonic/gin"
)

// EventHandler serves /api/events.
type EventHandler struct {
	Events event.EventService
}

func NewEventHandler(events event.EventService) *EventHandler {
	return &EventHandler{Events: events}
}

func (h *EventHandler) CreateEventHandler(c *gin.Context) {
	var req models.EventCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.OrganizerUserID != "" && !actingAs(c, req.OrganizerUserID) {
		return
	}
	ev, err := h.Events.CreateEvent(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create event")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event created successfully", "event_id": ev.ID, "event": ev})
}

func (h *EventHandler) GetEventHandler(c *gin.Context) {
	ev, err := h.Events.GetEvent(c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch event")
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (h *EventHandler) ListEventsHandler(c *gin.Context) {
	events, err := h.Events.ListPublicUpcoming()
	if err != nil {
		respondError(c, err, "Failed to fetch events")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) UpcomingEventsHandler(c *gin.Context) {
	window, err := campusmap.ParseWindow(c.Query("hours"))
	if err != nil {
		badRequest(c, err)
		return
	}
	events, err := h.Events.ListUpcomingWithin(window)
	if err != nil {
		respondError(c, err, "Failed to fetch events")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events), "hours": window.Hours()})
}

func (h *EventHandler) RSVPHandler(c *gin.Context) {
	var req models.RSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !actingAs(c, req.UserID) {
		return
	}
	ev, err := h.Events.RSVP(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to RSVP")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "RSVP successful",
		"attendee_count": ev.RSVPCount,
		"max_capacity":   ev.MaxCapacity,
	})
}

func (h *EventHandler) CancelRSVPHandler(c *gin.Context) {
	userID := c.Param("user_id")
	if !actingAs(c, userID) {
		return
	}
	ev, err := h.Events.CancelRSVP(c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to cancel RSVP")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "RSVP cancelled", "attendee_count": ev.RSVPCount})
}

func (h *EventHandler) AttendeesHandler(c *gin.Context) {
	ev, err := h.Events.GetEvent(c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch attendees")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"event_id":       ev.ID,
		"attendees":      ev.Attendees,
		"attendee_count": len(ev.Attendees),
		"max_capacity":   ev.MaxCapacity,
	})
}

func (h *EventHandler) InviteUsersHandler(c *gin.Context) {
	var req models.InviteUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.Events.InviteUsers(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to invite users")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":               "Invited " + strconv.Itoa(result.NotificationsCreated) + " users successfully",
		"notifications_created": result.NotificationsCreated,
		"total_invited":         result.TotalInvited,
		"skipped":               result.Skipped,
	})
}

func (h *EventHandler) CancelEventHandler(c *gin.Context) {
	var req models.CancelEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !actingAs(c, req.UserID) {
		return
	}
	result, err := h.Events.CancelEvent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to cancel event")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":                "Event cancelled successfully",
		"rating_penalty_applied": result.RatingPenaltyApplied,
		"new_rating":             result.NewRating,
		"notifications_sent":     result.NotificationsSent,
	})
}

func (h *EventHandler) MoveToHistoricalHandler(c *gin.Context) {
	result, err := h.Events.ArchivePastEvents(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to move events")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Past events moved to historical successfully",
		"events_moved":  result.EventsMoved,
		"users_updated": result.UsersUpdated,
	})
}

func (h *EventHandler) HistoricalEventsHandler(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if err != nil || limit < 1 || limit > 200 {
		utils.JSONError(c, http.StatusBadRequest, "limit must be between 1 and 200", err)
		return
	}
	offset, err := strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)
	if err != nil || offset < 0 {
		utils.JSONError(c, http.StatusBadRequest, "offset must be a non-negative integer", err)
		return
	}
	events, err := h.Events.ListHistorical(limit, offset)
	if err != nil {
		respondError(c, err, "Failed to fetch historical events")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

func (h *EventHandler) RateEventHandler(c *gin.Context) {
	var req models.RateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !actingAs(c, req.UserID) {
		return
	}
	result, err := h.Events.RateEvent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to rate function")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":          "Rating submitted successfully",
		"average_rating":   result.AverageRating,
		"total_ratings":    result.TotalRatings,
		"rating_finalized": result.RatingFinalized,
	})
}
