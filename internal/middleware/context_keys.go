package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// userIDKey holds the operator named by the bearer token.
const userIDKey = contextKey("userID")

// UserIDFromContext returns the authenticated operator carried by ctx.
func UserIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetUserIDFromContext returns the operator authenticated for this request,
// looking at the Gin keys first and the request context second.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID := c.GetString(string(userIDKey)); userID != "" {
		return userID, true
	}
	return UserIDFromContext(c.Request.Context())
}
