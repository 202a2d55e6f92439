package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the public slot query routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/experts/:id/slots")
	{
		group.GET("", h.Day)
		group.GET("/range", h.Range)
		group.GET("/next", h.Next)
		group.GET("/check", h.Check)
	}
}
