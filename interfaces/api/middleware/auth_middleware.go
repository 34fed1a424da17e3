package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"task-tracker/pkg/logger"
	"task-tracker/pkg/utils"
)

// Protected validates the bearer token and stores the caller in fiber locals
// and in the request context used for logging.
func Protected(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.UnauthorizedResponse(c, "Missing authorization header")
		}

		// Extract token from header
		token := utils.ExtractTokenFromHeader(authHeader)
		if token == "" {
			return utils.UnauthorizedResponse(c, "Invalid authorization header format")
		}

		userCtx, err := utils.ValidateToken(token, jwtSecret)
		if err != nil {
			logger.WarnContext(ctx, "Token validation failed", "path", c.Path(), "error", err)
			switch {
			case errors.Is(err, utils.ErrExpiredToken):
				return utils.UnauthorizedResponse(c, "Token has expired")
			case errors.Is(err, utils.ErrInvalidToken):
				return utils.UnauthorizedResponse(c, "Invalid token")
			case errors.Is(err, utils.ErrMissingToken):
				return utils.UnauthorizedResponse(c, "Missing token")
			default:
				return utils.UnauthorizedResponse(c, "Token validation failed")
			}
		}

		c.Locals(utils.UserLocalsKey, userCtx)
		c.SetUserContext(logger.ContextWithOwnerID(ctx, userCtx.ID))

		return c.Next()
	}
}
