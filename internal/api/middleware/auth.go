package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextUserID is the gin context key carrying the authenticated user ID.
const ContextUserID = "user_id"

// TokenValidator resolves a bearer token to a user ID.
type TokenValidator interface {
	UserIDForToken(token string) (string, error)
}

// Auth returns a bearer-token authentication middleware.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Auth-Token")
		if token == "" {
			auth := c.GetHeader("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
			c.Abort()
			return
		}

		userID, err := validator.UserIDForToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID returns the authenticated user ID set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
