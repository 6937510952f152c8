package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tanvi-28/huddle/internal/auth"
	"github.com/tanvi-28/huddle/internal/workspace"
)

// Context keys for the claims set by AuthMiddleware. Handlers read them
// through Session below rather than c.Get directly.
const (
	ContextKeyUserID    = "user_id"
	ContextKeySessionID = "session_id"
)

// AuthMiddleware validates the bearer token and stores the caller's
// identity in the request context. Token liveness against the persisted
// session set is checked later, inside each workspace operation; this layer
// only proves the token was signed by us and has not expired.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing authorization header",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid authorization format, expected: Bearer <token>",
			})
			return
		}

		claims, err := auth.ParseToken(parts[1], secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeySessionID, claims.SessionID)
		c.Next()
	}
}

// Session rebuilds the workspace session from the claims AuthMiddleware
// stored. A zero session fails the liveness check downstream, so a missing
// key degrades to "not authenticated" rather than panicking.
func Session(c *gin.Context) workspace.Session {
	var sess workspace.Session
	if v, ok := c.Get(ContextKeyUserID); ok {
		if id, ok := v.(int64); ok {
			sess.UserID = id
		}
	}
	if v, ok := c.Get(ContextKeySessionID); ok {
		if id, ok := v.(string); ok {
			sess.TokenID = id
		}
	}
	return sess
}
