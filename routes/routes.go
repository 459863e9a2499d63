package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"consultly/handlers"
	"consultly/middleware"
	"consultly/models"
	"consultly/utils"
)

// RegisterAvailabilityRoutes registers the public availability surface. Slot
// resolution is open to visitors; template and override management lives under
// the admin group.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availability")
	{
		api.GET("/:providerID", hb.Availability.GetCombinedAvailabilityHandler)
	}
}

// RegisterRequestRoutes registers the public service-request endpoint.
func RegisterRequestRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/requests")
	{
		api.POST("", hb.Requests.SubmitRequestHandler)
	}
}

// RegisterChatRoutes registers the client side of support chat.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/chat")
	{
		api.POST("/sessions", hb.Chat.OpenSessionHandler)
		api.GET("/sessions/:sessionID/messages", hb.Chat.ListMessagesHandler)
		api.POST("/sessions/:sessionID/messages", hb.Chat.SendMessageHandler(models.ChatRoleClient))
		api.POST("/sessions/:sessionID/read", hb.Chat.MarkReadHandler(models.ChatRoleClient))
	}
}

// RegisterCallRoutes registers WebRTC signaling. The events endpoint is a
// long-lived SSE stream; the rest are short writes against the live session.
func RegisterCallRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/calls")
	{
		api.GET("/:roomID/events", hb.Signaling.StreamHandler)
		api.POST("/:roomID/description", hb.Signaling.SendDescriptionHandler)
		api.POST("/:roomID/candidates", hb.Signaling.SendCandidateHandler)
		api.POST("/:roomID/leave", hb.Signaling.LeaveHandler)
		api.POST("/:roomID/end", hb.Signaling.EndHandler)
	}
}

// RegisterDeviceRoutes registers FCM token management.
func RegisterDeviceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/devices")
	{
		api.POST("/register", hb.Devices.RegisterTokenHandler)
		api.POST("/remove", hb.Devices.RemoveTokenHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Hi, I'm Consultly",
			"deps":    utils.GetHealthStatus(),
		})
	})
}

// RegisterAdminRoutes sets up the authenticated admin surface. Login is the
// only public endpoint; everything else requires a live session token.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.POST("/login", hb.Admin.LoginHandler)

		adminGroup.Use(middleware.JWTAuthAdminMiddleware(hb.AuthCache))
		adminGroup.POST("/logout", hb.Admin.LogoutHandler)

		adminGroup.GET("/requests", hb.Requests.ListRequestsHandler)
		adminGroup.GET("/requests/:id", hb.Requests.GetRequestHandler)
		adminGroup.PATCH("/requests/:id", hb.Requests.UpdateRequestAdminDetailsHandler)
		adminGroup.DELETE("/requests", hb.Requests.DeleteRequestsHandler)

		adminGroup.PUT("/availability/:providerID/template", hb.Availability.SaveTemplateHandler)
		adminGroup.GET("/availability/:providerID/template", hb.Availability.GetTemplateHandler)
		adminGroup.PUT("/availability/:providerID/overrides", hb.Availability.SaveOverrideHandler)
		adminGroup.GET("/availability/:providerID/overrides", hb.Availability.ListOverridesHandler)
		adminGroup.GET("/availability/:providerID/override", hb.Availability.GetOverrideHandler)

		adminGroup.GET("/chat/sessions", hb.Chat.ListSessionsHandler)
		adminGroup.GET("/chat/sessions/:sessionID/messages", hb.Chat.ListMessagesHandler)
		adminGroup.POST("/chat/sessions/:sessionID/messages", hb.Chat.SendMessageHandler(models.ChatRoleAdmin))
		adminGroup.POST("/chat/sessions/:sessionID/read", hb.Chat.MarkReadHandler(models.ChatRoleAdmin))
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterAvailabilityRoutes(r, hb)
	RegisterRequestRoutes(r, hb)
	RegisterChatRoutes(r, hb)
	RegisterCallRoutes(r, hb)
	RegisterDeviceRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
