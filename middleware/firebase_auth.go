package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/auth"
)

// Keys set in the gin context by RequireIdentity.
const (
	ContextUID   = "firebase_uid"
	ContextEmail = "email"
	ContextRole  = "role"
)

// RequireIdentity validates a Bearer id token with the identity provider,
// rejecting revoked sessions, and sets `firebase_uid`, `email` and, when the
// token carries a role claim, `role` in the context.
//
// Typical usage:
//
//	mw.RequireIdentity(gateway)
func RequireIdentity(gateway auth.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		if gateway == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "identity provider not configured"})
			return
		}

		idToken, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || idToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing or invalid Authorization header"})
			return
		}

		claims, err := gateway.VerifyToken(c.Request.Context(), idToken, true)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid, expired or revoked id token"})
			return
		}

		c.Set(ContextUID, claims.UID)
		c.Set(ContextEmail, claims.Email)
		if role, ok := claims.Claims[auth.ClaimRole].(string); ok && role != "" {
			c.Set(ContextRole, role)
		}
		c.Next()
	}
}
