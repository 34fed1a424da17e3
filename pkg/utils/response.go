package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"task-tracker/pkg/apperror"
)

// ========== Response Structures ==========

// ErrorBody is the shape of every error response. Clients rely on Error;
// Code and Field are extra detail.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}

// ========== Error Code Constants ==========

const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInternalError = "INTERNAL_ERROR"
	ErrCodeBadRequest    = "BAD_REQUEST"
)

// ========== Success Responses ==========

func SuccessResponse(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

func CreatedResponse(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

func MessageResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": message})
}

// ========== Error Responses ==========

func ErrorResponse(c *fiber.Ctx, statusCode int, code, message, field string) error {
	return c.Status(statusCode).JSON(ErrorBody{
		Error: message,
		Code:  code,
		Field: field,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, field, message string) error {
	return ErrorResponse(c, fiber.StatusBadRequest, ErrCodeValidation, message, field)
}

func BadRequestResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, fiber.StatusBadRequest, ErrCodeBadRequest, message, "")
}

func UnauthorizedResponse(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Unauthorized"
	}
	return ErrorResponse(c, fiber.StatusUnauthorized, ErrCodeUnauthorized, message, "")
}

func NotFoundResponse(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return ErrorResponse(c, fiber.StatusNotFound, ErrCodeNotFound, message, "")
}

func InternalServerErrorResponse(c *fiber.Ctx) error {
	return ErrorResponse(c, fiber.StatusInternalServerError, ErrCodeInternalError, "Internal server error", "")
}

// AppErrorResponse maps a service error onto its HTTP status. Internal
// details never reach the body.
func AppErrorResponse(c *fiber.Ctx, err error) error {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		return InternalServerErrorResponse(c)
	}

	switch appErr.Kind {
	case apperror.KindUnauthenticated:
		return UnauthorizedResponse(c, appErr.Message)
	case apperror.KindInvalidArgument:
		return ValidationErrorResponse(c, appErr.Field, appErr.Message)
	case apperror.KindNotFound:
		return NotFoundResponse(c, appErr.Message)
	default:
		return InternalServerErrorResponse(c)
	}
}
