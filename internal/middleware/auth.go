package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/22mk294/Tempo-Home/internal/auth"
	"github.com/22mk294/Tempo-Home/internal/database"
	"github.com/22mk294/Tempo-Home/internal/models"

	"github.com/gin-gonic/gin"
)

// userKey is the gin context key under which the authenticated user is
// stored.
const userKey = "user"

// Authenticate resolves the bearer token to a live user record. The user is
// re-fetched on every request, so deleting an account revokes its
// outstanding tokens. Missing and invalid tokens are logged apart but both
// answer 401.
func Authenticate(tokens *auth.TokenManager, store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
			return
		}

		userID, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			log.Printf("Auth: token rejected: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, err := store.GetUserByID(userID)
		if err != nil {
			if !errors.Is(err, database.ErrNotFound) {
				log.Printf("Auth: user lookup failed: %v", err)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequireRole gates a route on the authenticated user's account type. Must
// run after Authenticate.
func RequireRole(role models.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Type != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user set by Authenticate, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
