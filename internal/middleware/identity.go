package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const userIDGinKey = "userID"

// CallerIdentityMiddleware extracts the authenticated user ID forwarded by the
// gateway in the X-User-ID header. Authentication itself happens upstream;
// requests arriving without the header are rejected.
func CallerIdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing caller identity"})
			return
		}
		c.Set(userIDGinKey, userID)
		c.Next()
	}
}

// GetUserIDFromContext retrieves the caller's user ID set by
// CallerIdentityMiddleware.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Get(userIDGinKey)
	if !ok {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}
