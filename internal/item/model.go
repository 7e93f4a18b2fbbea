package item

import (
	"context"
	"time"

	"github.com/shareit-go/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.NotFound("item not found")
	ErrNotOwner          = apperror.Forbidden("only the item owner can do this")
	ErrCommentNotAllowed = apperror.BadRequest("user has no finished approved booking for this item")
	ErrNoImage           = apperror.NotFound("item has no image")
	ErrBadImage          = apperror.BadRequest("uploaded file is not a supported image")
)

// Item is a thing its owner offers for booking.
type Item struct {
	ID               string
	OwnerID          string
	Name             string
	Description      string
	Available        bool
	RequestID        *string // set when the item was published in answer to an item request
	ImagePath        *string
	ImageContentType *string
	ThumbnailPath    *string
	CreatedAt        time.Time
}

// Comment is feedback left by a user who had a finished approved booking.
type Comment struct {
	ID         string
	ItemID     string
	AuthorID   string
	AuthorName string
	Text       string
	CreatedAt  time.Time
}

// BookingRef is the minimal booking projection shown to an item's owner.
type BookingRef struct {
	ID       string    `json:"id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	BookerID string    `json:"booker_id"`
}

// Detail composes an item with its comments and, for the owner, the most
// recent past and nearest future approved bookings.
type Detail struct {
	Item
	LastBooking *BookingRef
	NextBooking *BookingRef
	Comments    []Comment
}

// BookingSummarizer is the booking-side lookup the item views need. The
// booking package provides the implementation.
type BookingSummarizer interface {
	// LastForItem returns the approved booking with the greatest start strictly
	// before now, or nil if none exists.
	LastForItem(ctx context.Context, itemID string, now time.Time) (*BookingRef, error)
	// NextForItem returns the approved booking with the smallest start strictly
	// after now, or nil if none exists.
	NextForItem(ctx context.Context, itemID string, now time.Time) (*BookingRef, error)
	// HasPastApproved reports whether the user has an approved booking of the
	// item that ended before now.
	HasPastApproved(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error)
}
