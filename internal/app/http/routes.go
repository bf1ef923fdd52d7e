package routes

import (
	authapi "symposium-app/internal/api/auth"
	"symposium-app/internal/api/billingwebhook"
	"symposium-app/internal/api/comments"
	eventsapi "symposium-app/internal/api/events"
	"symposium-app/internal/api/presentations"
	"symposium-app/internal/api/sessions"
	"symposium-app/internal/api/subscription"
	"symposium-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	r.POST("/webhook", billingwebhook.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public, optionally-authenticated browsing. The engine decides per
	// resource what an anonymous or hash-bearing caller may see.
	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	browse := public.Group("/")
	browse.Use(middleware.SoftAuthMiddleware())
	browse.GET("/events/:eventCodeOrHash", eventsapi.GetEvent)
	browse.GET("/events/:eventCodeOrHash/sessions", sessions.ListSessions)
	browse.GET("/presentations/:presentationIdOrHash", presentations.GetPresentation)
	browse.GET("/presentations/:presentationIdOrHash/comments", comments.ListComments)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.SanitizeAndCleanInputMiddleware(), middleware.AuthMiddleware())

	auth.POST("/events", eventsapi.CreateEvent)
	auth.POST("/events/:eventCodeOrHash/register", eventsapi.RegisterForEvent)
	auth.POST("/comments", comments.CreateComment)
	auth.PUT("/comments/:id", comments.UpdateComment)
	auth.POST("/comments/:id/flag", comments.FlagComment)
	auth.POST("/comments/:id/hide", comments.HideComment)
	auth.DELETE("/comments/:id", comments.DeleteComment)

	auth.GET("/subscriptions/:id/quota", subscription.GetQuotaStatus)
	auth.POST("/subscriptions/:id/admins", subscription.AddAdmin)

	// Event management: the event must still be live (subscription valid,
	// uptime not exceeded) and the caller an admin of it.
	manage := auth.Group("/")
	manage.Use(
		middleware.RequireLiveEvent(middleware.EventRefFromPath("eventCodeOrHash")),
		middleware.RequireEventAdmin(middleware.EventRefFromPath("eventCodeOrHash")),
	)
	manage.POST("/events/:eventCodeOrHash/sessions", sessions.CreateSession)
	manage.POST("/events/:eventCodeOrHash/blocks", eventsapi.BlockConsumer)
	manage.DELETE("/events/:eventCodeOrHash/blocks/:consumerId", eventsapi.UnblockConsumer)

	// Presentation submission is open to registered consumers, gated by
	// quota and uptime inside the engine.
	auth.POST("/events/:eventCodeOrHash/presentations", presentations.CreatePresentation)
	auth.DELETE("/presentations/:presentationIdOrHash", presentations.DeletePresentation)
}
