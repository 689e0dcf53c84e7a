package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"bcplughub/services"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		detail string
	}{
		{services.ErrAlreadyRSVPd, http.StatusBadRequest, "Already RSVP'd to this event"},
		{services.ErrEventFull, http.StatusBadRequest, "Event is at full capacity"},
		{fmt.Errorf("wrapped: %w", services.ErrEventNotFound), http.StatusNotFound, "Event not found"},
		{services.ErrNotOrganizer, http.StatusForbidden, "Only the organizer can cancel this event"},
		{services.ErrAlreadyRated, http.StatusConflict, "You have already rated this function"},
		{fmt.Errorf("user u1: %w", services.ErrAlreadyInvited), http.StatusConflict, "User is already invited to this event"},
		{services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{services.Invalid("Location is required"), http.StatusBadRequest, "Location is required"},
		{&services.CapacityError{Remaining: 3}, http.StatusBadRequest, "Only 3 spots remaining"},
		{errors.New("mongo down"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		status, detail := StatusFor(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.detail, detail)
	}
}
