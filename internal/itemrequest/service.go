package itemrequest

import (
	"context"
	"strings"

	"github.com/shareit-go/shareit-backend/internal/item"
	"github.com/shareit-go/shareit-backend/internal/user"
)

// UserDirectory is the user lookup this module needs; user.Service satisfies it.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// ItemFinder resolves the items answering a request; item.Service satisfies it.
type ItemFinder interface {
	ListByRequest(ctx context.Context, requestID string) ([]*item.Item, error)
}

type Service interface {
	Create(ctx context.Context, requesterID, description string) (*ItemRequest, error)
	// ListOwn returns the acting user's requests with their answering items.
	ListOwn(ctx context.Context, userID string) ([]*WithItems, error)
	// ListOthers pages through other users' requests, newest first.
	ListOthers(ctx context.Context, userID string, offset, limit int) ([]*WithItems, error)
	GetByID(ctx context.Context, userID, requestID string) (*WithItems, error)
}

type service struct {
	repo  Repository
	users UserDirectory
	items ItemFinder
}

func NewService(repo Repository, users UserDirectory, items ItemFinder) Service {
	return &service{
		repo:  repo,
		users: users,
		items: items,
	}
}

func (s *service) Create(ctx context.Context, requesterID, description string) (*ItemRequest, error) {
	if _, err := s.users.GetByID(ctx, requesterID); err != nil {
		return nil, err
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	req := &ItemRequest{
		RequesterID: requesterID,
		Description: description,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) ListOwn(ctx context.Context, userID string) ([]*WithItems, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.repo.ListByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

func (s *service) ListOthers(ctx context.Context, userID string, offset, limit int) ([]*WithItems, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.repo.ListOthers(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

func (s *service) GetByID(ctx context.Context, userID, requestID string) (*WithItems, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	enriched, err := s.attachItems(ctx, []*ItemRequest{req})
	if err != nil {
		return nil, err
	}
	return enriched[0], nil
}

func (s *service) attachItems(ctx context.Context, requests []*ItemRequest) ([]*WithItems, error) {
	result := make([]*WithItems, 0, len(requests))
	for _, req := range requests {
		answering, err := s.items.ListByRequest(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, &WithItems{ItemRequest: *req, Items: answering})
	}
	return result, nil
}
