package handlers

import (
	"errors"
	"net/http"

	"bcplughub/services"
	"bcplughub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorMapping struct {
	err    error
	status int
	detail string
}

// errorMappings is checked in order; the first match wins.
var errorMappings = []errorMapping{
	{services.ErrUserExists, http.StatusBadRequest, "User already exists"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{services.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{services.ErrEventNotFound, http.StatusNotFound, "Event not found"},
	{services.ErrHistoricalNotFound, http.StatusNotFound, "Historical event not found"},
	{services.ErrNotificationNotFound, http.StatusNotFound, "Notification not found"},
	{services.ErrAlreadyRSVPd, http.StatusBadRequest, "Already RSVP'd to this event"},
	{services.ErrEventFull, http.StatusBadRequest, "Event is at full capacity"},
	{services.ErrNotInvited, http.StatusForbidden, "This private event requires an invitation"},
	{services.ErrNotOrganizer, http.StatusForbidden, "Only the organizer can cancel this event"},
	{services.ErrNotPrivate, http.StatusBadRequest, "Invites are only available for private events"},
	{services.ErrAlreadyInvited, http.StatusConflict, "User is already invited to this event"},
	{services.ErrInvalidRating, http.StatusBadRequest, "Rating must be between 1 and 5"},
	{services.ErrRatingWindowClosed, http.StatusBadRequest, "Rating period has expired (24 hours after event)"},
	{services.ErrNotEligibleToRate, http.StatusForbidden, "Only attendees or invited users can rate this function"},
	{services.ErrAlreadyRated, http.StatusConflict, "You have already rated this function"},
	{services.ErrNotAnInvite, http.StatusBadRequest, "Notification is not an invitation"},
	{services.ErrForbidden, http.StatusForbidden, "Forbidden"},
}

// StatusFor maps a service error to an HTTP status and client-facing detail.
func StatusFor(err error) (int, string) {
	var validation *services.ValidationError
	if errors.As(err, &validation) {
		return http.StatusBadRequest, validation.Message
	}
	var capacity *services.CapacityError
	if errors.As(err, &capacity) {
		return http.StatusBadRequest, capacity.Error()
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.detail
		}
	}
	if errors.Is(err, services.ErrInvalidInput) {
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "Internal server error"
}

// respondError writes the mapped error; fallback replaces the detail of 500s.
func respondError(c *gin.Context, err error, fallback string) {
	status, detail := StatusFor(err)
	if status == http.StatusInternalServerError && fallback != "" {
		detail = fallback
	}
	utils.JSONError(c, status, detail, err)
}

func badRequest(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error(), err)
}

// actingAs rejects a body user_id that differs from the authenticated user.
func actingAs(c *gin.Context, userID string) bool {
	authed := c.GetString(utils.ContextUserID)
	if authed == "" || authed == userID {
		return true
	}
	getLogger(c).Warn("user_id does not match token", zap.String("token", authed), zap.String("body", userID))
	utils.JSONError(c, http.StatusForbidden, "Not allowed to act for this user", nil)
	return false
}
