package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bcplughub/handlers"
	"bcplughub/services/campusmap"
	"bcplughub/services/event"
	ai "bcplughub/services/intelligence"
	"bcplughub/services/invite"
	"bcplughub/services/notification"
	"bcplughub/services/storage"
	"bcplughub/services/user"
	"bcplughub/testutils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	users := testutils.NewMemoryUserRepo()
	events := testutils.NewMemoryEventRepo()
	notifications := &notification.DefaultNotificationService{
		Repo:  testutils.NewMemoryNotificationRepo(),
		Users: users,
	}
	aiService := ai.NewDefaultAIService(nil, nil, events, time.UTC)
	eventService := &event.DefaultEventService{
		Events:     events,
		Historical: testutils.NewMemoryHistoricalRepo(),
		Users:      users,
		Notifier:   notifications,
		Location:   time.UTC,
	}
	userService := &user.DefaultUserService{Repo: users, Aliases: aiService, EmailDomain: "bc.edu"}

	r := gin.New()
	RegisterRoutes(r, &handlers.HandlerBundle{
		UserRepo:      users,
		Users:         handlers.NewUserHandler(userService, eventService, notifications),
		Events:        handlers.NewEventHandler(eventService),
		Notifications: handlers.NewNotificationHandler(notifications, eventService),
		AI:            handlers.NewAIHandler(aiService),
		Map:           handlers.NewMapHandler(&campusmap.Service{Events: events}),
		Invites:       handlers.NewInviteHandler(&invite.Service{Storage: storage.DataURLStorage{}, Location: time.UTC}),
	})
	return r
}

func do(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func register(t *testing.T, r http.Handler, email, name string) (string, string) {
	t.Helper()
	w := do(r, http.MethodPost, "/api/users/register", gin.H{"bc_email": email, "password": "hunter22", "name": name}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	return body["user_id"].(string), body["token"].(string)
}

func TestBanner(t *testing.T) {
	r := setupRouter()
	w := do(r, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "BCPlugHub API is running", decode(t, w)["message"])
}

func TestRegisterAndLogin(t *testing.T) {
	r := setupRouter()
	userID, _ := register(t, r, "eagle@bc.edu", "Baldwin")

	w := do(r, http.MethodPost, "/api/users/register", gin.H{"bc_email": "eagle@gmail.com", "password": "hunter22", "name": "B"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please use your bc.edu email address", decode(t, w)["detail"])

	w = do(r, http.MethodPost, "/api/users/register", gin.H{"bc_email": "eagle@bc.edu", "password": "hunter22", "name": "B"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists", decode(t, w)["detail"])

	w = do(r, http.MethodPost, "/api/users/login?bc_email=eagle@bc.edu&password=hunter22", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, decode(t, w)["user_id"])

	w = do(r, http.MethodPost, "/api/users/login", gin.H{"bc_email": "eagle@bc.edu", "password": "nope123"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserScopedRoutesCheckToken(t *testing.T) {
	r := setupRouter()
	u1, token1 := register(t, r, "one@bc.edu", "One")
	u2, _ := register(t, r, "two@bc.edu", "Two")

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/users/"+u1, nil, token1).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/users/"+u2, nil, token1).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/users/missing", nil, "").Code)

	w := do(r, http.MethodPost, "/api/users/"+u1+"/generate-alias", gin.H{"description": "hockey fan"}, token1)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["ai_generated_alias"])

	w = do(r, http.MethodPost, "/api/users/logout", nil, token1)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/users/"+u1, nil, token1).Code)
}

func TestEventLifecycle(t *testing.T) {
	r := setupRouter()
	org, orgToken := register(t, r, "host@bc.edu", "Host")
	guest, _ := register(t, r, "guest@bc.edu", "Guest")

	w := do(r, http.MethodPost, "/api/events", gin.H{
		"function_name":     "Mods Party",
		"location":          "The Mods",
		"date":              time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
		"max_capacity":      2,
		"organizer_user_id": org,
		"organizer_alias":   "Host",
	}, orgToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	eventID := decode(t, w)["event_id"].(string)

	w = do(r, http.MethodPost, "/api/events", gin.H{"location": "The Mods", "date": "2025-03-20"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Function name is required", decode(t, w)["detail"])

	w = do(r, http.MethodPost, "/api/events/"+eventID+"/rsvp", gin.H{"user_id": guest, "user_alias": "Guest"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["attendee_count"])

	w = do(r, http.MethodPost, "/api/events/"+eventID+"/rsvp", gin.H{"user_id": guest}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Already RSVP'd to this event", decode(t, w)["detail"])

	w = do(r, http.MethodGet, "/api/events/"+eventID+"/attendees", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["attendee_count"])

	w = do(r, http.MethodGet, "/api/users/"+org+"/notifications", nil, orgToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	w = do(r, http.MethodDelete, "/api/events/"+eventID, gin.H{"user_id": guest}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodDelete, "/api/events/"+eventID, gin.H{"user_id": org}, orgToken)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["rating_penalty_applied"])
	assert.Equal(t, float64(1), body["notifications_sent"])

	w = do(r, http.MethodGet, "/api/events/"+eventID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Event not found", decode(t, w)["detail"])
}

func TestHistoricalValidation(t *testing.T) {
	r := setupRouter()
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/events/historical?limit=500", nil, "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/events/historical", nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/events/upcoming?hours=abc", nil, "").Code)
}

func TestMapAndInviteRoutes(t *testing.T) {
	r := setupRouter()

	w := do(r, http.MethodGet, "/api/map/locations", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/map/heatmap?hours=48", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["count"])

	w = do(r, http.MethodGet, "/api/goated-prediction", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No upcoming events in the next 10 days", decode(t, w)["message"])

	w = do(r, http.MethodPost, "/api/generate-invite-preview", gin.H{"function_name": "Mods Party", "location": "The Mods"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode(t, w)["invitation_image"], "data:image/png;base64,")
}

func TestNotificationRoutesCheckOwner(t *testing.T) {
	r := setupRouter()
	org, orgToken := register(t, r, "host@bc.edu", "Host")
	guest, guestToken := register(t, r, "guest@bc.edu", "Guest")

	w := do(r, http.MethodPost, "/api/events", gin.H{
		"function_name":     "Mods Party",
		"location":          "The Mods",
		"date":              time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
		"organizer_user_id": org,
	}, orgToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	eventID := decode(t, w)["event_id"].(string)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/events/"+eventID+"/rsvp", gin.H{"user_id": guest}, guestToken).Code)

	w = do(r, http.MethodGet, "/api/users/"+org+"/notifications", nil, orgToken)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)["notifications"].([]any)
	require.Len(t, list, 1)
	id := list[0].(map[string]any)["notification_id"].(string)

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPatch, "/api/notifications/"+id+"/read", nil, guestToken).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodDelete, "/api/notifications/"+id, nil, guestToken).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPatch, "/api/notifications/"+id+"/read", nil, orgToken).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/api/notifications/"+id, nil, orgToken).Code)
}
