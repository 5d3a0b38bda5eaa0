package middleware

import (
	"strings"

	"kidwallet-api/internal/config"
	"kidwallet-api/internal/pkg/jwt"
	"kidwallet-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware. It turns a valid bearer
// token into the explicit session context every operation receives: userId,
// username and the admin flag in the request locals.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set session context in request locals
		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)
		c.Locals("isAdmin", claims.IsAdmin)

		return c.Next()
	}
}

// AdminOnly middleware allows only admin users
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isAdmin, ok := c.Locals("isAdmin").(bool)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !isAdmin {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
		return c.Next()
	}
}

// UserID extracts the session user id set by AuthMiddleware
func UserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("userID").(string)
	return userID
}
