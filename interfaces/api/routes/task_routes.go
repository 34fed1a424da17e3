package routes

import (
	"github.com/gofiber/fiber/v2"

	"task-tracker/interfaces/api/handlers"
	"task-tracker/interfaces/api/middleware"
)

func SetupTaskRoutes(api fiber.Router, h *handlers.Handlers, jwtSecret string) {
	tasks := api.Group("/tasks")
	tasks.Use(middleware.Protected(jwtSecret))
	tasks.Get("/", h.TaskHandler.ListTasks)
	tasks.Post("/", h.TaskHandler.CreateTask)
	tasks.Put("/", h.TaskHandler.UpdateTask)
	tasks.Delete("/", h.TaskHandler.DeleteTask)
	tasks.Get("/:id", h.TaskHandler.GetTask)
}
