package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escuela-musica-api/internal/models"
	appErrors "github.com/noah-isme/escuela-musica-api/pkg/errors"
	"github.com/noah-isme/escuela-musica-api/pkg/response"
)

// SelfParam names the path parameter RequireRolesOrSelf compares with the
// caller's user id.
const SelfParam = "id"

// RequireRoles lets the request through when the caller holds any of roles.
func RequireRoles(roles ...models.RoleTag) gin.HandlerFunc {
	return rbac(false, roles)
}

// RequireRolesOrSelf also admits callers acting on their own user record.
func RequireRolesOrSelf(roles ...models.RoleTag) gin.HandlerFunc {
	return rbac(true, roles)
}

func rbac(allowSelf bool, roles []models.RoleTag) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		held := claims.RoleSet()
		for _, role := range roles {
			if held.Has(role) {
				c.Next()
				return
			}
		}

		if allowSelf {
			if target := c.Param(SelfParam); target != "" && target == claims.UserID {
				c.Next()
				return
			}
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}
