package item

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shareit-go/shareit-backend/internal/pkg/storage"
	"github.com/shareit-go/shareit-backend/internal/user"
)

type CreateRequest struct {
	Name        string
	Description string
	Available   bool
	RequestID   *string
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

// UserDirectory is the user lookup this module needs; user.Service satisfies it.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type Service interface {
	Create(ctx context.Context, ownerID string, req CreateRequest) (*Item, error)
	Update(ctx context.Context, actingUserID, itemID string, req UpdateRequest) (*Item, error)
	// GetByID returns the item with its comments. Last/next booking summaries
	// are filled only when the acting user is the owner.
	GetByID(ctx context.Context, actingUserID, itemID string) (*Detail, error)
	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*Detail, error)
	Search(ctx context.Context, text string, offset, limit int) ([]*Item, error)
	AddComment(ctx context.Context, authorID, itemID, text string) (*Comment, error)
	ListByRequest(ctx context.Context, requestID string) ([]*Item, error)

	SetImage(ctx context.Context, actingUserID, itemID, contentType string, content io.Reader) (*Item, error)
	// GetImage opens the stored image or its thumbnail and reports the content
	// type to serve it with.
	GetImage(ctx context.Context, itemID string, thumbnail bool) (io.ReadCloser, string, error)
}

const (
	thumbnailMaxWidth  = 320
	thumbnailMaxHeight = 320
)

type service struct {
	repo     Repository
	users    UserDirectory
	bookings BookingSummarizer
	store    storage.Storage
	images   *storage.ImageProcessor
	logger   *zap.Logger

	now func() time.Time
}

func NewService(
	repo Repository,
	users UserDirectory,
	bookings BookingSummarizer,
	store storage.Storage,
	images *storage.ImageProcessor,
	logger *zap.Logger,
) Service {
	return &service{
		repo:     repo,
		users:    users,
		bookings: bookings,
		store:    store,
		images:   images,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Create(ctx context.Context, ownerID string, req CreateRequest) (*Item, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	it := &Item{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Available:   req.Available,
		RequestID:   req.RequestID,
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	s.logger.Info("item created",
		zap.String("item_id", it.ID),
		zap.String("owner_id", ownerID),
	)
	return it, nil
}

func (s *service) Update(ctx context.Context, actingUserID, itemID string, req UpdateRequest) (*Item, error) {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != actingUserID {
		return nil, ErrNotOwner
	}

	if req.Name != nil {
		it.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		it.Description = strings.TrimSpace(*req.Description)
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) GetByID(ctx context.Context, actingUserID, itemID string) (*Detail, error) {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(ctx, it, actingUserID == it.OwnerID)
}

func (s *service) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*Detail, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByOwner(ctx, ownerID, offset, limit)
	if err != nil {
		return nil, err
	}

	details := make([]*Detail, 0, len(items))
	for _, it := range items {
		d, err := s.buildDetail(ctx, it, true)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}

// buildDetail attaches comments and, for the owner, last/next approved
// bookings. "now" is captured once so both lookups agree on the boundary.
func (s *service) buildDetail(ctx context.Context, it *Item, forOwner bool) (*Detail, error) {
	comments, err := s.repo.ListCommentsByItem(ctx, it.ID)
	if err != nil {
		return nil, err
	}

	d := &Detail{Item: *it, Comments: comments}
	if !forOwner {
		return d, nil
	}

	now := s.now()
	if d.LastBooking, err = s.bookings.LastForItem(ctx, it.ID, now); err != nil {
		return nil, err
	}
	if d.NextBooking, err = s.bookings.NextForItem(ctx, it.ID, now); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) Search(ctx context.Context, text string, offset, limit int) ([]*Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*Item{}, nil
	}
	return s.repo.Search(ctx, text, offset, limit)
}

func (s *service) AddComment(ctx context.Context, authorID, itemID, text string) (*Comment, error) {
	if _, err := s.repo.GetByID(ctx, itemID); err != nil {
		return nil, err
	}

	ok, err := s.bookings.HasPastApproved(ctx, authorID, itemID, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCommentNotAllowed
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	c := &Comment{
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
		Text:       strings.TrimSpace(text),
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) ListByRequest(ctx context.Context, requestID string) ([]*Item, error) {
	return s.repo.ListByRequest(ctx, requestID)
}

func (s *service) SetImage(ctx context.Context, actingUserID, itemID, contentType string, content io.Reader) (*Item, error) {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != actingUserID {
		return nil, ErrNotOwner
	}

	// The thumbnail pass also verifies the payload decodes as an image, so
	// buffer the original for a second read.
	raw, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("read image payload: %w", err)
	}

	thumb, err := s.images.Thumbnail(bytes.NewReader(raw), thumbnailMaxWidth, thumbnailMaxHeight)
	if err != nil {
		return nil, ErrBadImage
	}

	imagePath := fmt.Sprintf("items/%s/original", it.ID)
	thumbPath := fmt.Sprintf("items/%s/thumb.jpg", it.ID)

	if err := s.store.Save(ctx, imagePath, bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, thumbPath, thumb); err != nil {
		return nil, err
	}

	if err := s.repo.SetImage(ctx, it.ID, &imagePath, &contentType, &thumbPath); err != nil {
		return nil, err
	}

	it.ImagePath = &imagePath
	it.ImageContentType = &contentType
	it.ThumbnailPath = &thumbPath

	s.logger.Info("item image updated", zap.String("item_id", it.ID))
	return it, nil
}

func (s *service) GetImage(ctx context.Context, itemID string, thumbnail bool) (io.ReadCloser, string, error) {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, "", err
	}

	path, contentType := it.ImagePath, "application/octet-stream"
	if it.ImageContentType != nil {
		contentType = *it.ImageContentType
	}
	if thumbnail {
		path, contentType = it.ThumbnailPath, "image/jpeg"
	}
	if path == nil {
		return nil, "", ErrNoImage
	}

	rc, err := s.store.Get(ctx, *path)
	if err != nil {
		return nil, "", err
	}
	return rc, contentType, nil
}
