package middleware

import (
	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// ScopeUser extracts the owning user id from the X-User-ID header. An absent
// header leaves the request unscoped (single-user mode sees everything).
func ScopeUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set(userIDKey, userID)
		}
		c.Next()
	}
}

// UserID retrieves the scoping user id from the context; empty means
// unscoped.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
