package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shareit-go/shareit-backend/internal/auth"
	"github.com/shareit-go/shareit-backend/internal/booking"
	"github.com/shareit-go/shareit-backend/internal/pkg/request"
	"github.com/shareit-go/shareit-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), booking.CreateRequest{
		ItemID: body.ItemID,
		Start:  body.Start,
		End:    body.End,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// Decide handles PATCH /bookings/:id?approved=true|false.
func (h *Handler) Decide(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	approved, err := booking.ParseApproved(c.Query("approved"))
	if err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.Decide(c.Request.Context(), auth.GetUserID(c), id, approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), auth.GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// ListForBooker lists the acting user's own bookings filtered by state.
func (h *Handler) ListForBooker(c *gin.Context) {
	h.list(c, h.service.ListForBooker)
}

// ListForOwner lists bookings of all items the acting user owns.
func (h *Handler) ListForOwner(c *gin.Context) {
	h.list(c, h.service.ListForOwner)
}

type listFunc func(ctx context.Context, userID string, state booking.RequestState, page request.Page) ([]*booking.Booking, error)

func (h *Handler) list(c *gin.Context, query listFunc) {
	state, err := booking.ParseRequestState(c.DefaultQuery("state", "ALL"))
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := request.PageFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	bookings, err := query(c.Request.Context(), auth.GetUserID(c), state, page)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	c.JSON(http.StatusOK, items)
}
