package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"task-tracker/domain/models"
	"task-tracker/domain/repositories"
)

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repositories.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepositoryImpl) GetByIDAndOwner(ctx context.Context, id uint, ownerID string) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	tasks := []*models.Task{}
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) UpdateFields(ctx context.Context, id uint, ownerID string, columns map[string]any) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Task{}).
			Where("id = ? AND owner_id = ?", id, ownerID).
			Updates(columns)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repositories.ErrTaskNotFound
		}
		return tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&task).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id uint, ownerID string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrTaskNotFound
	}
	return nil
}
