package http

import (
	"time"

	itemHttp "github.com/shareit-go/shareit-backend/internal/item/http"
	"github.com/shareit-go/shareit-backend/internal/itemrequest"
)

type CreateItemRequestRequest struct {
	Description string `json:"description" binding:"required"`
}

type ItemRequestResponse struct {
	ID          string                  `json:"id"`
	RequesterID string                  `json:"requester_id"`
	Description string                  `json:"description"`
	CreatedAt   time.Time               `json:"created_at"`
	Items       []itemHttp.ItemResponse `json:"items"`
}

func NewItemRequestResponse(req *itemrequest.WithItems) ItemRequestResponse {
	items := make([]itemHttp.ItemResponse, len(req.Items))
	for i, it := range req.Items {
		items[i] = itemHttp.NewItemResponse(it)
	}

	return ItemRequestResponse{
		ID:          req.ID,
		RequesterID: req.RequesterID,
		Description: req.Description,
		CreatedAt:   req.CreatedAt,
		Items:       items,
	}
}

func NewCreatedResponse(req *itemrequest.ItemRequest) ItemRequestResponse {
	return ItemRequestResponse{
		ID:          req.ID,
		RequesterID: req.RequesterID,
		Description: req.Description,
		CreatedAt:   req.CreatedAt,
		Items:       []itemHttp.ItemResponse{},
	}
}
