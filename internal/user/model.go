package user

import (
	"net/http"
	"time"

	"github.com/shareit-go/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.NotFound("user not found")
	ErrEmailAlreadyUsed   = apperror.Conflict("email already used")
	ErrEmailRequired      = apperror.BadRequest("email is required")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrNoPassword         = apperror.New(http.StatusUnauthorized, "password login is not enabled for this user")
)

// User is an account that can own items and book other users' items.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash *string // nil when the account was created without a password
	CreatedAt    time.Time
}
