package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers blocked date routes. Only system admins may change them.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	experts := g.Group("/experts/:id/blocked-dates")
	{
		experts.GET("", h.List)
		experts.POST("", authMiddleware, adminMiddleware, h.Create)
	}

	g.DELETE("/blocked-dates/:id", authMiddleware, adminMiddleware, h.Delete)
}
