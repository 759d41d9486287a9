package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the public availability route.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	g.GET("/availability", h.Get)
}
