package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"task-tracker/domain/dto"
	"task-tracker/domain/services"
	"task-tracker/pkg/logger"
	"task-tracker/pkg/utils"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ownerID returns the caller set by middleware.Protected, or "" so the
// service answers Unauthenticated.
func ownerID(c *fiber.Ctx) string {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return ""
	}
	return user.ID
}

func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	ctx := c.UserContext()

	tasks, err := h.taskService.ListTasks(ctx, ownerID(c))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, dto.TasksToTaskResponses(tasks))
}

func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	taskIDStr := c.Params("id")
	taskID, ok := parseTaskID(taskIDStr)
	if !ok {
		logger.WarnContext(ctx, "Invalid task ID", "task_id", taskIDStr)
		return utils.ValidationErrorResponse(c, "id", "Task ID must be a valid number")
	}

	task, err := h.taskService.GetTask(ctx, ownerID(c), taskID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	task, err := h.taskService.CreateTask(ctx, ownerID(c), &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.CreatedResponse(c, dto.TaskToTaskResponse(task))
}

// UpdateTask takes the task id from the body, not the path.
func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	task, err := h.taskService.UpdateTask(ctx, ownerID(c), &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task))
}

// DeleteTask takes the task id from the ?id= query parameter.
func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	taskIDStr := strings.TrimSpace(c.Query("id"))
	if taskIDStr == "" {
		return utils.ValidationErrorResponse(c, "id", "Task ID is required")
	}

	taskID, ok := parseTaskID(taskIDStr)
	if !ok {
		logger.WarnContext(ctx, "Invalid task ID", "task_id", taskIDStr)
		return utils.ValidationErrorResponse(c, "id", "Task ID must be a valid number")
	}

	if err := h.taskService.DeleteTask(ctx, ownerID(c), taskID); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.MessageResponse(c, "Task deleted successfully")
}

// parseTaskID accepts only a positive decimal integer: "12abc" and "1.5" are
// rejected rather than truncated.
func parseTaskID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
