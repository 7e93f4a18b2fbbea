package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts user CRUD and login. These routes take no identity
// middleware: accounts are created before any identity exists.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	users := g.Group("/users")
	{
		users.POST("", h.Create)
		users.GET("", h.List)
		users.GET("/:id", h.Get)
		users.PATCH("/:id", h.Update)
		users.DELETE("/:id", h.Delete)
	}

	g.POST("/auth/login", h.Login)
}
