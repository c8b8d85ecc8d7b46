package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tavolo-app/backend/models"
	"github.com/tavolo-app/backend/utils"
)

// RequireRole aborts unless the caller holds one of the given roles. Admin
// always passes. This is the route-level gate; the order workflow re-checks
// roles per transition on top of it.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CallerRole(c)
		if role == models.RoleAdmin {
			c.Next()
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		utils.RespondError(c, http.StatusForbidden, fmt.Errorf("%s access required", rolesLabel(roles)))
		c.Abort()
	}
}

func rolesLabel(roles []models.UserRole) string {
	if len(roles) == 1 {
		return string(roles[0])
	}
	return "staff"
}
