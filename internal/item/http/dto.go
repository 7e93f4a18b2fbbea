package http

import (
	"time"

	"github.com/shareit-go/shareit-backend/internal/item"
)

type CreateItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Available   *bool   `json:"available" binding:"required"`
	RequestID   *string `json:"request_id" binding:"omitempty,uuid"`
}

type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type ItemResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
	RequestID   *string   `json:"request_id,omitempty"`
	HasImage    bool      `json:"has_image"`
	CreatedAt   time.Time `json:"created_at"`
}

type CommentResponse struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// ItemDetailResponse is the item view enriched with comments and, for the
// owner only, last/next approved booking summaries.
type ItemDetailResponse struct {
	ItemResponse
	LastBooking *item.BookingRef  `json:"last_booking,omitempty"`
	NextBooking *item.BookingRef  `json:"next_booking,omitempty"`
	Comments    []CommentResponse `json:"comments"`
}

func NewItemResponse(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		OwnerID:     it.OwnerID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		RequestID:   it.RequestID,
		HasImage:    it.ImagePath != nil,
		CreatedAt:   it.CreatedAt,
	}
}

func NewCommentResponse(c item.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		CreatedAt:  c.CreatedAt,
	}
}

func NewItemDetailResponse(d *item.Detail) ItemDetailResponse {
	comments := make([]CommentResponse, len(d.Comments))
	for i, c := range d.Comments {
		comments[i] = NewCommentResponse(c)
	}

	return ItemDetailResponse{
		ItemResponse: NewItemResponse(&d.Item),
		LastBooking:  d.LastBooking,
		NextBooking:  d.NextBooking,
		Comments:     comments,
	}
}
