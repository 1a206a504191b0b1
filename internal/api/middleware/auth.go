package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"campmedix-api-server/internal/auth"
)

const principalKey = "principal"

// Principal is the resolved identity of the request, set by Authenticate and
// refined by RequireRole.
type Principal struct {
	Email string
	Role  string
}

// RoleResolver looks up the current role for an email. The mongo-backed
// implementation lives in internal/database.
type RoleResolver func(ctx context.Context, email string) (string, error)

// Authenticate verifies the bearer token and stores the claimed identity in
// the request context.
func Authenticate(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}

		c.Set(principalKey, Principal{Email: claims.Email, Role: claims.Role})
		c.Next()
	}
}

// RequireRole is a middleware factory for the role guard. It resolves the
// user's current role from the store (one lookup per guarded request, so role
// changes take effect immediately) and rejects a mismatch or a missing user
// with 403. On success the principal in the context carries the resolved role.
func RequireRole(resolve RoleResolver, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			// Authenticate must run first on every guarded route.
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "identity not resolved"})
			return
		}

		resolved, err := resolve(c.Request.Context(), principal.Email)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden access"})
			} else {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user role"})
			}
			return
		}

		if resolved != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden access"})
			return
		}

		principal.Role = resolved
		c.Set(principalKey, principal)
		c.Next()
	}
}

// PrincipalFrom returns the identity stored by Authenticate.
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	principal, ok := value.(Principal)
	return principal, ok
}
