// Package middleware provides authentication, logging, metrics, tracing and
// rate limiting middleware for the application.
package middleware

import (
	"context"
	"strings"

	"mingle/internal/auth"
	"mingle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// TokenHeader is the request header carrying the bearer token. The login
// response sets the same header.
const TokenHeader = "auth-token"

// ExtractToken reads the token from the auth-token header, falling back to
// "Authorization: Bearer <token>".
func ExtractToken(c *fiber.Ctx) string {
	if token := strings.TrimSpace(c.Get(TokenHeader)); token != "" {
		return token
	}

	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// AuthRequired rejects requests without a valid token and stores the caller's
// id in c.Locals("userID").
func AuthRequired(tokens auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := ExtractToken(c)
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Access denied"))
		}

		userID, err := tokens.Verify(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token"))
		}

		c.Locals("userID", userID)
		ctx := context.WithValue(c.UserContext(), UserIDKey, userID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}
