package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SharerUserHeader carries the acting user's id for clients that do not use
// token auth. Kept for compatibility with the original API contract.
const SharerUserHeader = "X-Sharer-User-Id"

// Identify resolves the acting user from either a Bearer JWT or the
// X-Sharer-User-Id header. The user id is only validated syntactically here;
// existence checks belong to the services, which report unknown users as 404.
func Identify(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "invalid Authorization header format",
				})
				return
			}

			claims, err := jwtManager.ParseAndValidate(parts[1])
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "invalid or expired token",
				})
				return
			}

			setUserID(c, claims.UserID)
			c.Next()
			return
		}

		id := c.GetHeader(SharerUserHeader)
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing Authorization or X-Sharer-User-Id header",
			})
			return
		}
		if _, err := uuid.Parse(id); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "X-Sharer-User-Id must be a valid UUID",
			})
			return
		}

		setUserID(c, id)
		c.Next()
	}
}
