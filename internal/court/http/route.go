package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers court catalogue routes. All of them are public.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/courts")
	{
		group.GET("", h.List)    // List courts, optionally by sport
		group.GET("/:id", h.Get) // Get court details
	}
}
