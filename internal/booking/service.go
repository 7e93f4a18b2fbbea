package booking

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/shareit-go/shareit-backend/internal/item"
	"github.com/shareit-go/shareit-backend/internal/pkg/request"
	"github.com/shareit-go/shareit-backend/internal/user"
)

type CreateRequest struct {
	ItemID string
	Start  time.Time
	End    time.Time
}

// UserCatalog is the user-side lookup bookings need; user.Repository
// satisfies it.
type UserCatalog interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// ItemCatalog is the item-side lookup bookings need; item.Repository
// satisfies it.
type ItemCatalog interface {
	GetByID(ctx context.Context, id string) (*item.Item, error)
	IDsByOwner(ctx context.Context, ownerID string) ([]string, error)
}

type Service interface {
	Create(ctx context.Context, bookerID string, req CreateRequest) (*Booking, error)
	// Decide resolves a WAITING booking: approved=true -> APPROVED,
	// approved=false -> REJECTED. Owner only, at most once per booking.
	Decide(ctx context.Context, actingUserID, bookingID string, approved bool) (*Booking, error)
	GetByID(ctx context.Context, actingUserID, bookingID string) (*Booking, error)
	ListForBooker(ctx context.Context, bookerID string, state RequestState, page request.Page) ([]*Booking, error)
	ListForOwner(ctx context.Context, ownerID string, state RequestState, page request.Page) ([]*Booking, error)
}

type service struct {
	repo   Repository
	users  UserCatalog
	items  ItemCatalog
	logger *zap.Logger

	now func() time.Time
}

func NewService(repo Repository, users UserCatalog, items ItemCatalog, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		users:  users,
		items:  items,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Create(ctx context.Context, bookerID string, req CreateRequest) (*Booking, error) {
	if !req.Start.Before(req.End) {
		return nil, ErrInvalidTimeRange
	}
	if req.Start.Before(s.now()) {
		return nil, ErrStartTimePast
	}

	if _, err := s.users.GetByID(ctx, bookerID); err != nil {
		return nil, err
	}

	it, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID == bookerID {
		return nil, ErrSelfBooking
	}
	if !it.Available {
		return nil, ErrItemUnavailable
	}

	// Overlapping intervals on the same item are accepted: there is no
	// conflict check between bookings.
	b := &Booking{
		ItemID:   req.ItemID,
		BookerID: bookerID,
		Start:    req.Start.UTC(),
		End:      req.End.UTC(),
		Status:   StatusWaiting,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("item_id", b.ItemID),
		zap.String("booker_id", bookerID),
	)

	// Re-read to pick up the denormalized item/booker fields.
	return s.repo.GetByID(ctx, b.ID)
}

func (s *service) Decide(ctx context.Context, actingUserID, bookingID string, approved bool) (*Booking, error) {
	if _, err := s.users.GetByID(ctx, actingUserID); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusWaiting {
		return nil, ErrNotWaiting
	}
	if !IsOwner(actingUserID, b) {
		return nil, ErrNotItemOwner
	}

	status := StatusRejected
	if approved {
		status = StatusApproved
	}

	ok, err := s.repo.UpdateStatusIfWaiting(ctx, b.ID, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		// A concurrent decision won the compare-and-swap.
		return nil, ErrNotWaiting
	}
	b.Status = status

	s.logger.Info("booking decided",
		zap.String("booking_id", b.ID),
		zap.String("status", string(status)),
	)
	return b, nil
}

func (s *service) GetByID(ctx context.Context, actingUserID, bookingID string) (*Booking, error) {
	if _, err := s.users.GetByID(ctx, actingUserID); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !CanView(actingUserID, b) {
		return nil, ErrNotOwnerOrBooker
	}
	return b, nil
}

func (s *service) ListForBooker(ctx context.Context, bookerID string, state RequestState, page request.Page) ([]*Booking, error) {
	if _, err := s.users.GetByID(ctx, bookerID); err != nil {
		return nil, err
	}

	f := FilterForState(state, s.now())
	f.BookerID = bookerID
	f.From, f.Size = page.From, page.Size

	return s.list(ctx, f)
}

func (s *service) ListForOwner(ctx context.Context, ownerID string, state RequestState, page request.Page) ([]*Booking, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	itemIDs, err := s.items.IDsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(itemIDs) == 0 {
		return []*Booking{}, nil
	}

	f := FilterForState(state, s.now())
	f.ItemIDs = itemIDs
	f.From, f.Size = page.From, page.Size

	return s.list(ctx, f)
}

func (s *service) list(ctx context.Context, f Filter) ([]*Booking, error) {
	bookings, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	// The store orders by start descending already; re-sort to keep the
	// contract independent of the store implementation.
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].Start.After(bookings[j].Start)
	})
	return bookings, nil
}
