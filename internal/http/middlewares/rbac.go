package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRoles allows only the listed roles through. An empty list means any
// authenticated caller. Must run after RequireAuth.
func (m *AuthMiddleware) RequireRoles(allowed ...string) gin.HandlerFunc {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)

		if !ok || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Token not provided",
			})
			return
		}

		if len(allowedSet) > 0 {
			if _, ok := allowedSet[role]; !ok {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"message": "Insufficient permissions",
				})
				return
			}
		}

		c.Next()
	}
}
