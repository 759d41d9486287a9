package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers account and session routes.
func RegisterRoutes(g *gin.RouterGroup, h *UserHandler, authMiddleware, rateLimit gin.HandlerFunc) {
	authGroup := g.Group("/auth")
	{
		authGroup.POST("/register", rateLimit, h.Register)
		authGroup.POST("/login", rateLimit, h.Login)
		authGroup.POST("/logout", h.Logout)
	}

	g.GET("/me", authMiddleware, h.Me)
}
