package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/IT22091352/wasana-products/internal/auth"
	"github.com/IT22091352/wasana-products/internal/services"
)

const (
	// ContextKeyUserID holds the key for the authenticated user's ID in Gin context.
	ContextKeyUserID = "userID"
	// ContextKeyUser holds the key for the loaded *models.User in Gin context.
	ContextKeyUser = "user"
)

// extractToken pulls the bearer token from the Authorization header, falling
// back to the `token` cookie and then the `token` query parameter. The
// front-end uses all three depending on context.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}
	return c.Query("token")
}

// AuthMiddleware creates a Gin middleware for JWT authentication. The token's
// user is loaded on every request so deactivated accounts lose access
// immediately, not at token expiry.
func AuthMiddleware(jwtSecret string, userService services.IUserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Access denied. No token provided.",
			})
			return
		}

		claims, err := auth.ValidateJWT(tokenString, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid token.",
			})
			return
		}

		user, err := userService.FindByID(c.Request.Context(), claims.UserID)
		if err != nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid or inactive user.",
			})
			return
		}

		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyUser, user)

		c.Next()
	}
}
