// Package api assembles the fiber application: middleware order, error
// handler and routes.
package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"task-tracker/interfaces/api/handlers"
	"task-tracker/interfaces/api/middleware"
	"task-tracker/interfaces/api/routes"
)

const defaultBodyLimit = 1 * 1024 * 1024

type ServerConfig struct {
	AppName          string
	JWTSecret        string
	CORSAllowOrigins string
	BodyLimit        int
}

// NewServer returns a ready-to-listen app. Used by cmd/api and by tests
// through app.Test.
func NewServer(cfg ServerConfig, h *handlers.Handlers) *fiber.App {
	bodyLimit := cfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = defaultBodyLimit
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		AppName:               cfg.AppName,
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
	})

	// Setup middleware (order matters!)
	app.Use(recover.New())
	app.Use(middleware.RequestIDMiddleware()) // ต้องมาก่อน logger
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.CorsMiddleware(cfg.CORSAllowOrigins))

	routes.SetupRoutes(app, h, cfg.JWTSecret)

	return app
}
