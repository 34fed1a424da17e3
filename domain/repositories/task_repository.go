package repositories

import (
	"context"
	"errors"

	"task-tracker/domain/models"
)

// ErrTaskNotFound is returned when no row matches both id and owner.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository scopes every lookup and write by owner.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByIDAndOwner(ctx context.Context, id uint, ownerID string) (*models.Task, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error)
	// UpdateFields writes columns on the (id, owner) row and returns the stored record.
	UpdateFields(ctx context.Context, id uint, ownerID string, columns map[string]any) (*models.Task, error)
	Delete(ctx context.Context, id uint, ownerID string) error
}
