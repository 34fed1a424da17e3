package main

import (
	"context"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"task-tracker/interfaces/api"
	"task-tracker/interfaces/api/handlers"
	"task-tracker/pkg/di"
	"task-tracker/pkg/logger"
)

func main() {
	// Initialize DI container
	container := di.NewContainer()

	// Initialize all dependencies (including logger)
	if err := container.Initialize(); err != nil {
		// ใช้ log พื้นฐานก่อน logger init
		panic("Failed to initialize container: " + err.Error())
	}

	cfg := container.GetConfig()

	// Create handlers from services
	h := handlers.NewHandlers(container.GetHandlerServices())

	app := api.NewServer(api.ServerConfig{
		AppName:          cfg.App.Name,
		JWTSecret:        cfg.JWT.Secret,
		CORSAllowOrigins: cfg.CORS.AllowOrigins,
	}, h)

	port := cfg.App.Port
	logger.Info("Server starting",
		"port", port,
		"env", cfg.App.Env,
		"app", cfg.App.Name,
	)
	logger.Info("Endpoints available",
		"health", "http://localhost:"+port+"/health",
		"tasks", "http://localhost:"+port+"/api/v1/tasks",
	)

	go func() {
		if err := app.Listen(":" + port); err != nil {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// HTTP ต้องหยุดรับ request ก่อนปิด DB/Redis/NATS
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.App.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"api": func(ctx context.Context) error {
				logger.Info("Gracefully shutting down...")
				if err := app.ShutdownWithContext(ctx); err != nil {
					logger.Error("HTTP server shutdown failed", "error", err)
				}
				return container.Cleanup()
			},
		},
	)

	exitCode := <-wait
	logger.Info("Shutdown complete", "exit_code", exitCode)
	os.Exit(exitCode)
}
