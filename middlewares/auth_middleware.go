package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tavolo-app/backend/models"
	"github.com/tavolo-app/backend/utils"
)

// AuthMiddleware validates the staff JWT and stores the caller's identity on
// the context. The token may arrive in the Authorization header or, for
// websocket upgrades, as a query parameter.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" && c.Query("token") != "" {
			token = "Bearer " + c.Query("token")
		}

		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}
		if !strings.HasPrefix(token, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid token format"))
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(strings.TrimPrefix(token, "Bearer "))
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}
		if claims.UserID == 0 || !claims.Role.Valid() {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid token claims"))
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("restaurant_id", claims.RestaurantID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// CallerRole returns the authenticated role stored by AuthMiddleware.
func CallerRole(c *gin.Context) models.UserRole {
	if v, ok := c.Get("role"); ok {
		if role, ok := v.(models.UserRole); ok {
			return role
		}
	}
	return ""
}

// CallerRestaurantID returns the tenant the caller belongs to.
func CallerRestaurantID(c *gin.Context) uint {
	if v, ok := c.Get("restaurant_id"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
