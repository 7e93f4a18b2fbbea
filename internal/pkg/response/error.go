package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shareit-go/shareit-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error sends a JSON error response. AppError values map to their status code;
// anything else becomes a 500 with the detail kept out of the body.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
		return
	}

	zap.L().Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
