package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers expert routes. Reads are public; writes need a system admin.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/experts")
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)

		group.POST("", authMiddleware, adminMiddleware, h.Create)
		group.PATCH("/:id", authMiddleware, adminMiddleware, h.Update)
		group.DELETE("/:id", authMiddleware, adminMiddleware, h.Delete)
	}
}
