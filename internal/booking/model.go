package booking

import (
	"errors"
	"time"

	"github.com/shareit-go/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("booking not found")
	ErrNotOwnerOrBooker = apperror.Forbidden("user must be the item's owner or the booker")
	ErrNotItemOwner     = apperror.Forbidden("only the item's owner can approve or reject a booking")
	ErrSelfBooking      = apperror.BadRequest("cannot book own item")
	ErrItemUnavailable  = apperror.BadRequest("item is unavailable for booking")
	ErrNotWaiting       = apperror.BadRequest("cannot change status of non-WAITING booking")
	ErrInvalidTimeRange = apperror.BadRequest("start time must be before end time")
	ErrStartTimePast    = apperror.BadRequest("start time must be in the future")

	// ErrUnknownState is the base error for unparsable state/approved tokens;
	// callers receive it wrapped in an AppError carrying the offending token.
	ErrUnknownState = errors.New("unknown request state")
)

// Status is the lifecycle state of a booking. Every booking is created
// WAITING and transitions at most once, to APPROVED or REJECTED.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Booking reserves an item for a time interval. Item and booker names plus
// the item's owner are denormalized by the repository joins so authorization
// never needs extra lookups.
type Booking struct {
	ID          string
	ItemID      string
	ItemName    string
	ItemOwnerID string
	BookerID    string
	BookerName  string
	Start       time.Time
	End         time.Time
	Status      Status
	CreatedAt   time.Time
}

// Filter selects bookings for list queries. The temporal fields come from
// FilterForState; exactly one of BookerID / ItemIDs scopes the actor. Results
// are always ordered by start descending.
type Filter struct {
	BookerID string
	ItemIDs  []string

	Status     *Status
	CurrentAt  *time.Time // start <= t <= end, any status
	EndBefore  *time.Time
	StartAfter *time.Time

	From int
	Size int
}
