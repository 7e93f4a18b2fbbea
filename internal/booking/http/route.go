package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, identity gin.HandlerFunc) {
	bookings := g.Group("/bookings")
	bookings.Use(identity)
	{
		bookings.POST("", h.Create)
		bookings.GET("", h.ListForBooker)
		bookings.GET("/owner", h.ListForOwner)
		bookings.GET("/:id", h.Get)
		bookings.PATCH("/:id", h.Decide)
	}
}
