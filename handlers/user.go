package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"bcplughub/models"
	"bcplughub/services/event"
	"bcplughub/services/notification"
	"bcplughub/services/user"
	"bcplughub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves /api/users.
type UserHandler struct {
	Users         user.UserService
	Events        event.EventService
	Notifications notification.NotificationService
}

func NewUserHandler(users user.UserService, events event.EventService, notifications notification.NotificationService) *UserHandler {
	return &UserHandler{Users: users, Events: events, Notifications: notifications}
}

func (h *UserHandler) RegisterUserHandler(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.Users.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Registration failed")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AuthenticateUserHandler accepts credentials as query parameters or a JSON body.
func (h *UserHandler) AuthenticateUserHandler(c *gin.Context) {
	var req models.LoginRequest
	if c.Query("bc_email") != "" {
		if err := c.ShouldBindQuery(&req); err != nil {
			badRequest(c, err)
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.Users.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RevokeUserAuthTokenHandler logs out the token used for this request.
func (h *UserHandler) RevokeUserAuthTokenHandler(c *gin.Context) {
	userID := c.GetString(utils.ContextUserID)
	token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	if err := h.Users.Logout(c.Request.Context(), userID, token); err != nil {
		respondError(c, err, "Logout failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *UserHandler) GenerateAliasHandler(c *gin.Context) {
	var req models.AliasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	alias, err := h.Users.GenerateAlias(c.Request.Context(), c.Param("id"), req.Description)
	if err != nil {
		respondError(c, err, "Failed to generate alias")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ai_generated_alias": alias})
}

func (h *UserHandler) GetUserByIDHandler(c *gin.Context) {
	u, err := h.Users.GetUser(c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch user")
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) ListUsersHandler(c *gin.Context) {
	users, err := h.Users.ListUsers()
	if err != nil {
		respondError(c, err, "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

func (h *UserHandler) UpdateInstagramHandler(c *gin.Context) {
	var req models.InstagramUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Users.UpdateInstagram(c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update Instagram info")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Instagram info updated successfully", "user": u})
}

func (h *UserHandler) UpdateClubsHandler(c *gin.Context) {
	var req models.ClubsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Users.UpdateClubs(c.Param("id"), req.BCClubAffiliations)
	if err != nil {
		respondError(c, err, "Failed to update club affiliations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Club affiliations updated successfully", "user": u})
}

func (h *UserHandler) UpdateFCMTokenHandler(c *gin.Context) {
	var req models.FCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Users.UpdateFCMToken(c.Param("id"), req.FCMToken); err != nil {
		respondError(c, err, "Failed to update FCM token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "FCM token updated successfully"})
}

func (h *UserHandler) AddPastFunctionHandler(c *gin.Context) {
	var fn models.PastFunction
	if err := c.ShouldBindJSON(&fn); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Users.AddPastFunction(c.Param("id"), fn); err != nil {
		respondError(c, err, "Failed to add past function")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Past function added successfully"})
}

func (h *UserHandler) AddCurrentFunctionHandler(c *gin.Context) {
	var fn models.CurrentFunction
	if err := c.ShouldBindJSON(&fn); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Users.AddCurrentFunction(c.Param("id"), fn); err != nil {
		respondError(c, err, "Failed to add current function")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Current function added successfully", "function": fn})
}

func (h *UserHandler) GetFunctionsHandler(c *gin.Context) {
	fns, err := h.Users.GetFunctions(c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch functions")
		return
	}
	c.JSON(http.StatusOK, fns)
}

func (h *UserHandler) GetPastFunctionsHandler(c *gin.Context) {
	userID := c.Param("id")
	past, err := h.Users.GetPastFunctions(userID)
	if err != nil {
		respondError(c, err, "Failed to fetch past functions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "past_functions": past, "count": len(past)})
}

func (h *UserHandler) GetUserEventsHandler(c *gin.Context) {
	events, err := h.Events.ListUserEvents(c.Param("id"), c.Query("status"))
	if err != nil {
		respondError(c, err, "Failed to fetch events")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *UserHandler) MovePastFunctionsHandler(c *gin.Context) {
	userID := c.Param("id")
	moved, err := h.Events.ArchiveUserPastEvents(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to process past events")
		return
	}
	getLogger(c).Info("User past events processed", zap.String("userID", userID), zap.Int("moved", moved))
	c.JSON(http.StatusOK, gin.H{"message": "User's past events processed successfully", "events_moved": moved})
}

func (h *UserHandler) GetNotificationsHandler(c *gin.Context) {
	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unread_only", "false"))
	list, err := h.Notifications.ListForUser(c.Param("id"), unreadOnly)
	if err != nil {
		respondError(c, err, "Failed to fetch notifications")
		return
	}
	c.JSON(http.StatusOK, list)
}
