package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, identity gin.HandlerFunc) {
	requests := g.Group("/requests")
	requests.Use(identity)
	{
		requests.POST("", h.Create)
		requests.GET("", h.ListOwn)
		requests.GET("/all", h.ListOthers)
		requests.GET("/:id", h.Get)
	}
}
