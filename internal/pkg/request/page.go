package request

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shareit-go/shareit-backend/internal/pkg/apperror"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Page is an offset-based page request: the index of the first element plus
// the page size. Sorting is decided by the operation, not the caller.
type Page struct {
	From int
	Size int
}

// DefaultPage returns the page used when the caller supplies no parameters.
func DefaultPage() Page {
	return Page{From: 0, Size: defaultPageSize}
}

// PageFromQuery reads "from" and "size" query parameters with defaults 0/10.
// Negative offsets and non-positive sizes are rejected.
func PageFromQuery(c *gin.Context) (Page, error) {
	from, err := strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil || from < 0 {
		return Page{}, apperror.BadRequest("from must be a non-negative integer")
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if err != nil || size <= 0 {
		return Page{}, apperror.BadRequest("size must be a positive integer")
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	return Page{From: from, Size: size}, nil
}
