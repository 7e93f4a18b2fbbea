package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shareit-go/shareit-backend/internal/auth"
	"github.com/shareit-go/shareit-backend/internal/itemrequest"
	"github.com/shareit-go/shareit-backend/internal/pkg/request"
	"github.com/shareit-go/shareit-backend/internal/pkg/response"
)

type Handler struct {
	service itemrequest.Service
}

func NewHandler(service itemrequest.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateItemRequestRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), body.Description)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewCreatedResponse(req))
}

func (h *Handler) ListOwn(c *gin.Context) {
	requests, err := h.service.ListOwn(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(requests))
}

func (h *Handler) ListOthers(c *gin.Context) {
	page, err := request.PageFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	requests, err := h.service.ListOthers(c.Request.Context(), auth.GetUserID(c), page.From, page.Size)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(requests))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	req, err := h.service.GetByID(c.Request.Context(), auth.GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewItemRequestResponse(req))
}

func toResponses(requests []*itemrequest.WithItems) []ItemRequestResponse {
	items := make([]ItemRequestResponse, len(requests))
	for i, req := range requests {
		items[i] = NewItemRequestResponse(req)
	}
	return items
}
