package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"task-tracker/domain/dto"
	"task-tracker/domain/models"
	"task-tracker/domain/ports"
	"task-tracker/domain/repositories"
	"task-tracker/domain/services"
	"task-tracker/pkg/apperror"
	"task-tracker/pkg/logger"
)

const (
	// Cache keys และ TTL สำหรับรายการ task ของแต่ละ owner
	taskListCachePrefix = "tasks:owner:"
	taskGenCachePrefix  = "tasks:gen:"
	defaultTaskCacheTTL = 1 * time.Minute
)

// TaskListCacheKey is the list entry for one owner at one generation. Every
// mutation bumps the generation, so a list read that raced a write lands
// under a key nobody reads again.
func TaskListCacheKey(ownerID string, generation int64) string {
	return fmt.Sprintf("%s%s:v%d", taskListCachePrefix, ownerID, generation)
}

func taskGenCacheKey(ownerID string) string {
	return taskGenCachePrefix + ownerID
}

type TaskServiceImpl struct {
	taskRepo repositories.TaskRepository
	events   ports.TaskEventPublisher
	cache    ports.CachePort // nil = ไม่ใช้ cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewTaskService(taskRepo repositories.TaskRepository, events ports.TaskEventPublisher) services.TaskService {
	return &TaskServiceImpl{
		taskRepo: taskRepo,
		events:   events,
		now:      time.Now,
	}
}

// NewTaskServiceWithCache reads owner lists through cache and drops the
// owner's entry after every successful mutation.
func NewTaskServiceWithCache(taskRepo repositories.TaskRepository, events ports.TaskEventPublisher, cache ports.CachePort, ttl time.Duration) services.TaskService {
	if ttl <= 0 {
		ttl = defaultTaskCacheTTL
	}
	return &TaskServiceImpl{
		taskRepo: taskRepo,
		events:   events,
		cache:    cache,
		cacheTTL: ttl,
		now:      time.Now,
	}
}

func requireOwner(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return apperror.Unauthenticated()
	}
	return nil
}

func (s *TaskServiceImpl) ListTasks(ctx context.Context, ownerID string) ([]*models.Task, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		tasks, err := s.cachedList(ctx, ownerID)
		if err == nil {
			return tasks, nil
		}
		logger.WarnContext(ctx, "Task list cache unavailable, reading from DB", "owner_id", ownerID, "error", err)
	}

	tasks, err := s.taskRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list tasks", "owner_id", ownerID, "error", err)
		return nil, apperror.Internal(err)
	}
	return tasks, nil
}

// cachedList reads the generation before the list so a fill that started
// before a mutation is stored under the old generation.
func (s *TaskServiceImpl) cachedList(ctx context.Context, ownerID string) ([]*models.Task, error) {
	gen, err := s.cache.GetInt(ctx, taskGenCacheKey(ownerID))
	if err != nil {
		return nil, err
	}

	var tasks []*models.Task
	err = s.cache.GetOrSet(ctx, TaskListCacheKey(ownerID, gen), &tasks, s.cacheTTL, func() (interface{}, error) {
		logger.DebugContext(ctx, "Task list fetched from DB (cache miss)", "owner_id", ownerID, "generation", gen)
		return s.taskRepo.ListByOwner(ctx, ownerID)
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, ownerID string, taskID uint) (*models.Task, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.GetByIDAndOwner(ctx, taskID, ownerID)
	if err != nil {
		return nil, s.repoError(ctx, "get", taskID, err)
	}
	return task, nil
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, ownerID string, req *dto.CreateTaskRequest) (*models.Task, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	task, err := validateCreateTask(req)
	if err != nil {
		logger.WarnContext(ctx, "Task creation rejected", "owner_id", ownerID, "error", err)
		return nil, err
	}

	now := s.now()
	task.OwnerID = ownerID
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.taskRepo.Create(ctx, task); err != nil {
		logger.ErrorContext(ctx, "Failed to create task", "owner_id", ownerID, "error", err)
		return nil, apperror.Internal(err)
	}

	logger.InfoContext(ctx, "Task created successfully", "task_id", task.ID, "owner_id", ownerID)
	s.afterMutation(ctx, models.TaskEventCreated, ownerID, task.ID, task)

	return task, nil
}

func (s *TaskServiceImpl) UpdateTask(ctx context.Context, ownerID string, req *dto.UpdateTaskRequest) (*models.Task, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	taskID, changes, err := validateUpdateTask(req)
	if err != nil {
		logger.WarnContext(ctx, "Task update rejected", "owner_id", ownerID, "error", err)
		return nil, err
	}

	columns := changes.Columns()
	columns["updated_at"] = s.now()

	task, err := s.taskRepo.UpdateFields(ctx, taskID, ownerID, columns)
	if err != nil {
		return nil, s.repoError(ctx, "update", taskID, err)
	}

	logger.InfoContext(ctx, "Task updated successfully", "task_id", taskID, "fields", len(columns)-1)
	s.afterMutation(ctx, models.TaskEventUpdated, ownerID, taskID, task)

	return task, nil
}

func (s *TaskServiceImpl) DeleteTask(ctx context.Context, ownerID string, taskID uint) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID, ownerID); err != nil {
		return s.repoError(ctx, "delete", taskID, err)
	}

	logger.InfoContext(ctx, "Task deleted successfully", "task_id", taskID)
	s.afterMutation(ctx, models.TaskEventDeleted, ownerID, taskID, nil)

	return nil
}

func (s *TaskServiceImpl) invalidateList(ctx context.Context, ownerID string) {
	gen, err := s.cache.Incr(ctx, taskGenCacheKey(ownerID))
	if err != nil {
		logger.WarnContext(ctx, "Failed to invalidate task list cache", "owner_id", ownerID, "error", err)
		return
	}
	// ของเก่าหมดอายุเองตาม TTL อยู่แล้ว ลบทิ้งเพื่อคืน memory
	if err := s.cache.Del(ctx, TaskListCacheKey(ownerID, gen-1)); err != nil {
		logger.WarnContext(ctx, "Failed to drop stale task list", "owner_id", ownerID, "error", err)
	}
}

// repoError maps a missing (id, owner) row to NotFound and anything else to Internal.
func (s *TaskServiceImpl) repoError(ctx context.Context, op string, taskID uint, err error) error {
	if errors.Is(err, repositories.ErrTaskNotFound) {
		logger.WarnContext(ctx, "Task not found for "+op, "task_id", taskID)
		return apperror.NotFound("Task not found")
	}
	logger.ErrorContext(ctx, "Failed to "+op+" task", "task_id", taskID, "error", err)
	return apperror.Internal(err)
}

func (s *TaskServiceImpl) afterMutation(ctx context.Context, eventType models.TaskEventType, ownerID string, taskID uint, task *models.Task) {
	if s.cache != nil {
		s.invalidateList(ctx, ownerID)
	}

	if s.events == nil {
		return
	}
	event := &models.TaskEvent{
		Type:       eventType,
		TaskID:     taskID,
		OwnerID:    ownerID,
		Task:       task,
		OccurredAt: s.now(),
	}
	if err := s.events.PublishTaskEvent(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish task event", "task_id", taskID, "type", eventType, "error", err)
	}
}
