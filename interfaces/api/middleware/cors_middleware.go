package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const defaultAllowOrigins = "http://localhost:5173,http://localhost:3000"

// CorsMiddleware allows the browser client to call the API. allowOrigins is a
// comma separated list; empty means the local development origins.
func CorsMiddleware(allowOrigins string) fiber.Handler {
	if allowOrigins == "" {
		allowOrigins = defaultAllowOrigins
	}

	return cors.New(cors.Config{
		AllowOrigins:  allowOrigins,
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS,HEAD",
		AllowHeaders:  "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		ExposeHeaders: "Content-Length,Content-Type,X-Request-ID",
		// credentials ใช้กับ wildcard origin ไม่ได้
		AllowCredentials: allowOrigins != "*",
	})
}
