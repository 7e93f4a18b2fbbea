package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, identity gin.HandlerFunc) {
	items := g.Group("/items")
	items.Use(identity)
	{
		items.POST("", h.Create)
		items.GET("", h.ListOwn)
		items.GET("/search", h.Search)
		items.GET("/:id", h.Get)
		items.PATCH("/:id", h.Update)
		items.POST("/:id/comment", h.AddComment)
		items.POST("/:id/image", h.UploadImage)
		items.GET("/:id/image", h.GetImage)
	}
}
