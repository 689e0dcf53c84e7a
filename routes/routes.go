package routes

import (
	"net/http"
	"time"

	"bcplughub/handlers"
	"bcplughub/middleware"
	"bcplughub/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers user endpoints. Routes scoped to one user
// require a matching token when AUTH_REQUIRED is set.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	h := hb.Users
	api := r.Group("/api/users")
	{
		api.POST("/register", h.RegisterUserHandler)
		api.POST("/login", h.AuthenticateUserHandler)
		api.POST("/logout", middleware.JWTAuthUserMiddleware(hb.UserRepo, hb.AuthCache, false), h.RevokeUserAuthTokenHandler)
		api.GET("", h.ListUsersHandler)

		scoped := api.Group("/:id")
		scoped.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo, hb.AuthCache, !hb.AuthRequired))
		scoped.Use(middleware.MatchPathUser("id"))
		scoped.GET("", h.GetUserByIDHandler)
		scoped.POST("/generate-alias", h.GenerateAliasHandler)
		scoped.PUT("/instagram", h.UpdateInstagramHandler)
		scoped.PUT("/clubs", h.UpdateClubsHandler)
		scoped.PUT("/fcm-token", h.UpdateFCMTokenHandler)
		scoped.POST("/past-functions", h.AddPastFunctionHandler)
		scoped.GET("/past-functions", h.GetPastFunctionsHandler)
		scoped.POST("/current-functions", h.AddCurrentFunctionHandler)
		scoped.GET("/functions", h.GetFunctionsHandler)
		scoped.GET("/events", h.GetUserEventsHandler)
		scoped.POST("/move-past-functions", h.MovePastFunctionsHandler)
		scoped.GET("/notifications", h.GetNotificationsHandler)
	}
}

// RegisterEventRoutes registers event endpoints.
func RegisterEventRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	h := hb.Events
	api := r.Group("/api/events")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo, hb.AuthCache, true))
		api.POST("", h.CreateEventHandler)
		api.GET("", h.ListEventsHandler)
		api.GET("/upcoming", h.UpcomingEventsHandler)
		api.GET("/historical", h.HistoricalEventsHandler)
		api.POST("/move-to-historical", h.MoveToHistoricalHandler)

		api.GET("/:id", h.GetEventHandler)
		api.DELETE("/:id", h.CancelEventHandler)
		api.POST("/:id/rsvp", h.RSVPHandler)
		api.DELETE("/:id/rsvp/:user_id", h.CancelRSVPHandler)
		api.GET("/:id/attendees", h.AttendeesHandler)
		api.POST("/:id/invite-users", h.InviteUsersHandler)
		api.POST("/:id/rate", h.RateEventHandler)
	}
}

// RegisterNotificationRoutes registers notification endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	h := hb.Notifications
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo, hb.AuthCache, !hb.AuthRequired))
		api.PATCH("/:id/read", h.MarkReadHandler)
		api.DELETE("/:id", h.DeleteHandler)
		api.POST("/:id/accept", h.AcceptInviteHandler)
		api.POST("/:id/decline", h.DeclineInviteHandler)
	}
}

// RegisterAIRoutes registers prediction endpoints.
func RegisterAIRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/ai/event-insights", hb.AI.EventInsightsHandler)
	r.GET("/api/goated-prediction", hb.AI.GoatedPredictionHandler)
}

// RegisterMapRoutes registers campus map endpoints.
func RegisterMapRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/map")
	{
		api.GET("/heatmap", hb.Map.HeatmapHandler)
		api.GET("/events", hb.Map.MarkersHandler)
		api.GET("/locations", hb.Map.LocationsHandler)
	}
}

// RegisterInviteRoutes registers invite poster endpoints.
func RegisterInviteRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/generate-invite-preview", hb.Invites.GenerateInvitePreviewHandler)
}

// RegisterHealthRoute registers the banner and health-check endpoints.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "BCPlugHub API is running"})
	})
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		state := "ok"
		if !status.Healthy() {
			code = http.StatusServiceUnavailable
			state = "degraded"
		}
		c.JSON(code, gin.H{"status": state, "dependencies": status})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterUserRoutes(r, hb)
	RegisterEventRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterAIRoutes(r, hb)
	RegisterMapRoutes(r, hb)
	RegisterInviteRoutes(r, hb)
}
