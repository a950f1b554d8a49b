package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fq962/atom-challenge-api/internal/response"
	"github.com/fq962/atom-challenge-api/internal/token"
)

const identityKey = "auth_identity"

// RequireAuth rejects requests without a verifiable bearer token and
// attaches the caller identity to the request context.
func RequireAuth(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, code, message := authenticate(c, tokens)
		if code != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.Error(message, gin.H{"code": code}))
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid bearer token is
// present and silently proceeds without one otherwise.
func OptionalAuth(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, code, _ := authenticate(c, tokens); code == "" {
			c.Set(identityKey, identity)
		}
		c.Next()
	}
}

// IdentityFrom returns the authenticated identity attached by
// RequireAuth or OptionalAuth.
func IdentityFrom(c *gin.Context) (token.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return token.Identity{}, false
	}
	identity, ok := value.(token.Identity)
	return identity, ok
}

func authenticate(c *gin.Context, tokens *token.Service) (token.Identity, string, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return token.Identity{}, "MISSING_TOKEN", "authorization header is required"
	}

	tokenString, hasPrefix := strings.CutPrefix(authHeader, "Bearer ")
	if !hasPrefix || strings.TrimSpace(tokenString) == "" {
		return token.Identity{}, "INVALID_TOKEN_FORMAT", "authorization header must use: Bearer <token>"
	}

	identity, err := tokens.Verify(strings.TrimSpace(tokenString))
	if err != nil {
		switch {
		case errors.Is(err, token.ErrExpired):
			return token.Identity{}, "TOKEN_EXPIRED", "token has expired"
		case errors.Is(err, token.ErrNotYetValid):
			return token.Identity{}, "TOKEN_NOT_ACTIVE", "token is not valid yet"
		default:
			return token.Identity{}, "INVALID_TOKEN", "token validation failed"
		}
	}

	return identity, "", ""
}
