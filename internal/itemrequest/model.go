package itemrequest

import (
	"time"

	"github.com/shareit-go/shareit-backend/internal/item"
	"github.com/shareit-go/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("item request not found")
	ErrEmptyDescription = apperror.BadRequest("request description must not be empty")
)

// ItemRequest is a wish for an item that does not exist yet. Owners answer a
// request by publishing an item linked to it.
type ItemRequest struct {
	ID          string
	RequesterID string
	Description string
	CreatedAt   time.Time
}

// WithItems composes a request with the items published in answer to it.
type WithItems struct {
	ItemRequest
	Items []*item.Item
}
