package http

import (
	"github.com/gin-gonic/gin"
)

// Middleware bundles the guards the reservation routes need.
type Middleware struct {
	Auth         gin.HandlerFunc // rejects anonymous callers
	OptionalAuth gin.HandlerFunc // attaches the caller when a token is present
	AdminOnly    gin.HandlerFunc // runs after Auth
	RateLimit    gin.HandlerFunc
}

// RegisterRoutes registers reservation routes and the admin reservation routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, mw Middleware) {
	group := g.Group("/reservations")
	{
		group.POST("", mw.RateLimit, mw.OptionalAuth, h.Create) // Book a slot

		group.GET("/mine", mw.Auth, h.ListMine)          // Upcoming and past reservations of the caller
		group.GET("/:id", mw.Auth, h.Get)                // Reservation details (holder or admin)
		group.POST("/:id/cancel", mw.Auth, h.SelfCancel) // Self-service cancel
	}

	admin := g.Group("/admin/reservations")
	admin.Use(mw.Auth, mw.AdminOnly)
	{
		admin.GET("", h.AdminList)               // List with filters
		admin.POST("/:id/cancel", h.AdminCancel) // Cancel, any time
	}
}
