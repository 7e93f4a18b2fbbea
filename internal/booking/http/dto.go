package http

import (
	"time"

	"github.com/shareit-go/shareit-backend/internal/booking"
)

type CreateBookingRequest struct {
	ItemID string    `json:"item_id" binding:"required,uuid"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

type UserTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ItemTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID        string    `json:"id"`
	Item      ItemTag   `json:"item"`
	Booker    UserTag   `json:"booker"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		Item:      ItemTag{ID: b.ItemID, Name: b.ItemName},
		Booker:    UserTag{ID: b.BookerID, Name: b.BookerName},
		Start:     b.Start,
		End:       b.End,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
	}
}
