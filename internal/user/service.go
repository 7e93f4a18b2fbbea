package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/shareit-go/shareit-backend/internal/auth"
	"github.com/shareit-go/shareit-backend/internal/pkg/apperror"
)

type CreateRequest struct {
	Name     string
	Email    string
	Password string // optional; accounts without one cannot use token login
}

type UpdateRequest struct {
	Name  *string
	Email *string
}

// Service defines business logic related to users.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*User, error)
	Delete(ctx context.Context, id string) error
	Login(ctx context.Context, email, password string) (*User, error)
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher

	minPasswordLength int
}

// NewService creates a new user Service.
func NewService(repo Repository, hasher auth.PasswordHasher) Service {
	return &service{
		repo:              repo,
		hasher:            hasher,
		minPasswordLength: 8,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*User, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	u := &User{
		Name:  strings.TrimSpace(req.Name),
		Email: email,
	}

	if req.Password != "" {
		if len(req.Password) < s.minPasswordLength {
			return nil, apperror.BadRequest(
				fmt.Sprintf("password must be at least %d characters", s.minPasswordLength))
		}
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = &hash
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email == "" {
			return nil, ErrEmailRequired
		}
		u.Email = email
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if u.PasswordHash == nil {
		return nil, ErrNoPassword
	}
	if err := s.hasher.Compare(*u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
