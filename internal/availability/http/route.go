package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	experts := g.Group("/experts/:id/availability")
	{
		experts.GET("", h.List)
		experts.POST("", authMiddleware, h.Create)
	}

	rules := g.Group("/availability")
	rules.Use(authMiddleware)
	{
		rules.PATCH("/:id", h.Update)
		rules.DELETE("/:id", h.Delete)
	}
}
