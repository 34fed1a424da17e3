package services

import (
	"context"

	"task-tracker/domain/dto"
	"task-tracker/domain/models"
)

// TaskService takes the caller identity explicitly on every call. An empty
// ownerID fails with apperror.KindUnauthenticated.
type TaskService interface {
	ListTasks(ctx context.Context, ownerID string) ([]*models.Task, error)
	GetTask(ctx context.Context, ownerID string, taskID uint) (*models.Task, error)
	CreateTask(ctx context.Context, ownerID string, req *dto.CreateTaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, ownerID string, req *dto.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, ownerID string, taskID uint) error
}
