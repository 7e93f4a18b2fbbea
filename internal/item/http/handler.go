package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shareit-go/shareit-backend/internal/auth"
	"github.com/shareit-go/shareit-backend/internal/item"
	"github.com/shareit-go/shareit-backend/internal/pkg/request"
	"github.com/shareit-go/shareit-backend/internal/pkg/response"
)

const maxImageSize = 10 << 20 // 10 MiB

type Handler struct {
	service item.Service
}

func NewHandler(service item.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	it, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), item.CreateRequest{
		Name:        body.Name,
		Description: body.Description,
		Available:   *body.Available,
		RequestID:   body.RequestID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewItemResponse(it))
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	it, err := h.service.Update(c.Request.Context(), auth.GetUserID(c), id, item.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemResponse(it))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), auth.GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemDetailResponse(d))
}

// ListOwn lists the acting user's items with booking summaries.
func (h *Handler) ListOwn(c *gin.Context) {
	page, err := request.PageFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	details, err := h.service.ListByOwner(c.Request.Context(), auth.GetUserID(c), page.From, page.Size)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ItemDetailResponse, len(details))
	for i, d := range details {
		items[i] = NewItemDetailResponse(d)
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) Search(c *gin.Context) {
	page, err := request.PageFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	found, err := h.service.Search(c.Request.Context(), c.Query("text"), page.From, page.Size)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ItemResponse, len(found))
	for i, it := range found {
		items[i] = NewItemResponse(it)
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) AddComment(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body CreateCommentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), auth.GetUserID(c), id, body.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewCommentResponse(*comment))
}

func (h *Handler) UploadImage(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if fileHeader.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image too large"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer f.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	it, err := h.service.SetImage(c.Request.Context(), auth.GetUserID(c), id, contentType, f)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemResponse(it))
}

func (h *Handler) GetImage(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	thumbnail := c.Query("thumbnail") == "true"

	rc, contentType, err := h.service.GetImage(c.Request.Context(), id, thumbnail)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}
