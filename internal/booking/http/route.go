package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers booking routes. createLimiter throttles booking creation.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware, createLimiter gin.HandlerFunc) {
	group := g.Group("/bookings")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", createLimiter, h.Create)
		group.PATCH("/:id", h.Update)
		group.DELETE("/:id", adminMiddleware, h.Delete)
	}
}
