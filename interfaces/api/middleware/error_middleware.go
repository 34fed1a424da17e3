package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"task-tracker/pkg/apperror"
	"task-tracker/pkg/logger"
	"task-tracker/pkg/utils"
)

// ErrorHandler renders errors that escape a handler in the same body shape
// handlers use themselves.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		ctx := c.UserContext()

		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			if appErr.Kind == apperror.KindInternal {
				logger.ErrorContext(ctx, "Unhandled internal error", "path", c.Path(), "error", err)
			}
			return utils.AppErrorResponse(c, appErr)
		}

		code := fiber.StatusInternalServerError
		errCode := utils.ErrCodeInternalError
		message := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
			switch code {
			case fiber.StatusBadRequest:
				errCode = utils.ErrCodeBadRequest
			case fiber.StatusUnauthorized:
				errCode = utils.ErrCodeUnauthorized
			case fiber.StatusForbidden:
				errCode = utils.ErrCodeForbidden
			case fiber.StatusNotFound:
				errCode = utils.ErrCodeNotFound
			case fiber.StatusMethodNotAllowed, fiber.StatusUnprocessableEntity, fiber.StatusRequestEntityTooLarge:
				errCode = utils.ErrCodeBadRequest
			}
		}

		if code >= fiber.StatusInternalServerError {
			logger.ErrorContext(ctx, "Request failed", "path", c.Path(), "status", code, "error", err)
		} else {
			logger.WarnContext(ctx, "Request failed", "path", c.Path(), "status", code, "error", err)
		}

		return utils.ErrorResponse(c, code, errCode, message, "")
	}
}
