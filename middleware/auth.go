package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/entity"
)

// RequireRoles ensures the authenticated principal has one of the allowed roles.
// It must run after RequireIdentity.
func RequireRoles(allowedRoles ...entity.Role) gin.HandlerFunc {
	roleSet := map[string]struct{}{}
	for _, r := range allowedRoles {
		roleSet[string(r)] = struct{}{}
	}
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if _, ok := roleSet[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden: insufficient role"})
			return
		}
		c.Next()
	}
}
