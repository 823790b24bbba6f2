package middleware

import (
	"net/http"
	"strings"

	"github.com/bookmarks-rocks/api/internal/repository"
	"github.com/gin-gonic/gin"
)

const errUnauthorized = "Invalid or missing token"

// ContextUserKey is where Auth stores the resolved *domain.User.
const ContextUserKey = "user"

// tokenVerifier is the subset of token.Service the middleware needs.
type tokenVerifier interface {
	Verify(raw string) (string, error)
}

// Auth validates the Authorization token and resolves the acting user
// into the gin context. Clients send the raw token; a "Bearer " prefix
// is tolerated. Missing header, bad token, or unknown user all yield
// the same 401.
func Auth(tokens tokenVerifier, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if raw == "" {
			abortUnauthorized(c)
			return
		}

		userID, err := tokens.Verify(raw)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": []string{errUnauthorized}})
}
