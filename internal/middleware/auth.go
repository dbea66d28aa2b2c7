package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"plantswap-server/internal/config"
	"plantswap-server/internal/models"
	"plantswap-server/internal/utils"
)

// AccessTokenCookieName is the cookie the login endpoint sets and the
// auth middleware reads.
const AccessTokenCookieName = "access_token"

// currentUserKey is the gin context key holding the resolved user.
const currentUserKey = "currentUser"

// AuthMiddleware creates a middleware that resolves the caller's
// credential to a live user record. The token is read from the
// access-token cookie, with an Authorization bearer header as fallback
// for non-browser clients. Every failure mode (missing, malformed,
// expired, bad signature, unknown subject) reports the same message.
func AuthMiddleware(cfg *config.Config, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			utils.Unauthorized(c, "Could not validate credentials")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, cfg.JWTSecret)
		if err != nil {
			utils.Unauthorized(c, "Could not validate credentials")
			c.Abort()
			return
		}

		// The token subject is the user's email; it must still map to an
		// existing account.
		var user models.User
		if err := db.Where("email = ?", claims.Subject).First(&user).Error; err != nil {
			utils.Unauthorized(c, "Could not validate credentials")
			c.Abort()
			return
		}

		c.Set(currentUserKey, &user)
		c.Next()
	}
}

// ActiveUserMiddleware rejects callers whose account has been
// deactivated. It must run after AuthMiddleware.
func ActiveUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok {
			utils.InternalServerError(c, "User not found in context. AuthMiddleware might be missing.")
			c.Abort()
			return
		}
		if !user.IsActive {
			utils.BadRequest(c, "Inactive user")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetCurrentUser returns the authenticated user stored in the context.
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return parts[1]
	}
	return ""
}
