package middleware

import (
	"github.com/gin-gonic/gin"

	"bricostore/internal/core/apperror"
	appctx "bricostore/internal/core/context"
)

// RequirePermission middleware checks if user has required permission.
// Permissions are loaded from JWT claims by the Auth middleware.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		for _, perm := range user.Permissions {
			if perm == permission {
				c.Next()
				return
			}
		}

		_ = c.Error(
			apperror.NewForbidden("insufficient permissions").
				WithDetail("required_permission", permission),
		)
		c.Abort()
	}
}
