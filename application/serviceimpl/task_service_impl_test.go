package serviceimpl_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/application/serviceimpl"
	"task-tracker/domain/dto"
	"task-tracker/domain/models"
	"task-tracker/domain/repositories"
	"task-tracker/infrastructure/postgres"
	"task-tracker/internal/testutil"
	"task-tracker/pkg/apperror"
)

func createReq(t *testing.T, body string) *dto.CreateTaskRequest {
	t.Helper()
	var req dto.CreateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func updateReq(t *testing.T, body string) *dto.UpdateTaskRequest {
	t.Helper()
	var req dto.UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func idJSON(id uint) string {
	data, _ := json.Marshal(id)
	return string(data)
}

func TestTaskService_RequiresOwner(t *testing.T) {
	svc := serviceimpl.NewTaskService(postgres.NewTaskRepository(testutil.NewDB(t)), nil)
	ctx := context.Background()

	_, err := svc.ListTasks(ctx, "")
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)

	_, err = svc.CreateTask(ctx, "  ", createReq(t, `{"title":"a"}`))
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)

	_, err = svc.UpdateTask(ctx, "", updateReq(t, `{"id":1}`))
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)

	assert.ErrorIs(t, svc.DeleteTask(ctx, "", 1), apperror.ErrUnauthenticated)

	_, err = svc.GetTask(ctx, "", 1)
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
}

func TestTaskService_OwnerIsolation(t *testing.T) {
	svc := serviceimpl.NewTaskService(postgres.NewTaskRepository(testutil.NewDB(t)), nil)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, "alice", createReq(t, `{"title":"private"}`))
	require.NoError(t, err)

	_, err = svc.GetTask(ctx, "bob", task.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.UpdateTask(ctx, "bob", updateReq(t, `{"id":`+idJSON(task.ID)+`,"title":"mine now"}`))
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteTask(ctx, "bob", task.ID), apperror.ErrNotFound)

	tasks, err := svc.ListTasks(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	got, err := svc.GetTask(ctx, "alice", task.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", got.Title)
}

func TestTaskService_UpdateWithoutFieldsRefreshesUpdatedAt(t *testing.T) {
	svc := serviceimpl.NewTaskService(postgres.NewTaskRepository(testutil.NewDB(t)), nil)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "alice", createReq(t, `{"title":"same","description":"keep me"}`))
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	updated, err := svc.UpdateTask(ctx, "alice", updateReq(t, `{"id":`+idJSON(created.ID)+`}`))
	require.NoError(t, err)

	assert.Equal(t, created.Title, updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "keep me", *updated.Description)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt), "updatedAt %v should be after %v", updated.UpdatedAt, created.UpdatedAt)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
}

func TestTaskService_UpdateClearsNullableFields(t *testing.T) {
	svc := serviceimpl.NewTaskService(postgres.NewTaskRepository(testutil.NewDB(t)), nil)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "alice", createReq(t, `{
		"title": "full",
		"description": "text",
		"project": "Work",
		"dueDate": "2026-12-01"
	}`))
	require.NoError(t, err)

	updated, err := svc.UpdateTask(ctx, "alice", updateReq(t, `{
		"id": `+idJSON(created.ID)+`,
		"description": null,
		"project": "",
		"dueDate": null,
		"priority": "low"
	}`))
	require.NoError(t, err)

	assert.Nil(t, updated.Description)
	assert.Nil(t, updated.Project)
	assert.Nil(t, updated.DueDate)
	assert.Equal(t, models.PriorityLow, updated.Priority)
	assert.Equal(t, "full", updated.Title)
}

func TestTaskService_ListNewestFirst(t *testing.T) {
	svc := serviceimpl.NewTaskService(postgres.NewTaskRepository(testutil.NewDB(t)), nil)
	ctx := context.Background()

	var ids []uint
	for _, title := range []string{"one", "two", "three"} {
		task, err := svc.CreateTask(ctx, "alice", createReq(t, `{"title":"`+title+`"}`))
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}

	tasks, err := svc.ListTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, []uint{ids[2], ids[1], ids[0]}, []uint{tasks[0].ID, tasks[1].ID, tasks[2].ID})
}

func TestTaskService_PublishesEvents(t *testing.T) {
	events := &testutil.RecordingPublisher{}
	svc := serviceimpl.NewTaskService(postgres.NewTaskRepository(testutil.NewDB(t)), events)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, "alice", createReq(t, `{"title":"evented"}`))
	require.NoError(t, err)
	_, err = svc.UpdateTask(ctx, "alice", updateReq(t, `{"id":`+idJSON(task.ID)+`,"status":"completed"}`))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteTask(ctx, "alice", task.ID))

	// rejected requests publish nothing
	_, err = svc.CreateTask(ctx, "alice", createReq(t, `{"title":""}`))
	require.Error(t, err)

	got := events.Events()
	require.Len(t, got, 3)
	assert.Equal(t, models.TaskEventCreated, got[0].Type)
	assert.Equal(t, models.TaskEventUpdated, got[1].Type)
	require.NotNil(t, got[1].Task)
	assert.Equal(t, models.StatusCompleted, got[1].Task.Status)
	assert.Equal(t, models.TaskEventDeleted, got[2].Type)
	assert.Nil(t, got[2].Task)
	for _, e := range got {
		assert.Equal(t, task.ID, e.TaskID)
		assert.Equal(t, "alice", e.OwnerID)
	}
}

func TestTaskService_PublishFailureDoesNotFailMutation(t *testing.T) {
	events := &testutil.RecordingPublisher{Err: errors.New("nats down")}
	svc := serviceimpl.NewTaskService(postgres.NewTaskRepository(testutil.NewDB(t)), events)

	task, err := svc.CreateTask(context.Background(), "alice", createReq(t, `{"title":"still saved"}`))
	require.NoError(t, err)
	assert.NotZero(t, task.ID)
	assert.Len(t, events.Events(), 1)
}

func TestTaskService_CacheInvalidatedOnMutation(t *testing.T) {
	cache := testutil.NewMemoryCache()
	svc := serviceimpl.NewTaskServiceWithCache(postgres.NewTaskRepository(testutil.NewDB(t)), nil, cache, time.Minute)
	ctx := context.Background()

	tasks, err := svc.ListTasks(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.True(t, cache.Has(serviceimpl.TaskListCacheKey("alice", 0)))

	task, err := svc.CreateTask(ctx, "alice", createReq(t, `{"title":"cached"}`))
	require.NoError(t, err)
	assert.False(t, cache.Has(serviceimpl.TaskListCacheKey("alice", 0)))

	tasks, err = svc.ListTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, cache.Has(serviceimpl.TaskListCacheKey("alice", 1)))

	// second read is served from cache
	tasks, err = svc.ListTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 1, cache.Hits)

	_, err = svc.UpdateTask(ctx, "alice", updateReq(t, `{"id":`+idJSON(task.ID)+`,"title":"renamed"}`))
	require.NoError(t, err)
	assert.False(t, cache.Has(serviceimpl.TaskListCacheKey("alice", 1)))

	tasks, err = svc.ListTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "renamed", tasks[0].Title)

	require.NoError(t, svc.DeleteTask(ctx, "alice", task.ID))
	assert.False(t, cache.Has(serviceimpl.TaskListCacheKey("alice", 2)))

	tasks, err = svc.ListTasks(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	// other owners keep their own generation
	_, err = svc.ListTasks(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, cache.Has(serviceimpl.TaskListCacheKey("bob", 0)))
}

// slowListRepo holds one ListByOwner call after it has read the database.
type slowListRepo struct {
	repositories.TaskRepository
	armed   atomic.Bool
	read    chan struct{}
	release chan struct{}
}

func (r *slowListRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	tasks, err := r.TaskRepository.ListByOwner(ctx, ownerID)
	if r.armed.CompareAndSwap(true, false) {
		close(r.read)
		<-r.release
	}
	return tasks, err
}

func TestTaskService_CacheFillRacingMutation(t *testing.T) {
	repo := &slowListRepo{
		TaskRepository: postgres.NewTaskRepository(testutil.NewDB(t)),
		read:           make(chan struct{}),
		release:        make(chan struct{}),
	}
	repo.armed.Store(true)
	svc := serviceimpl.NewTaskServiceWithCache(repo, nil, testutil.NewMemoryCache(), time.Minute)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := svc.ListTasks(ctx, "alice")
		done <- err
	}()

	// the list has read an empty table but not stored it yet
	<-repo.read
	_, err := svc.CreateTask(ctx, "alice", createReq(t, `{"title":"written during a list"}`))
	require.NoError(t, err)

	close(repo.release)
	require.NoError(t, <-done)

	tasks, err := svc.ListTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "written during a list", tasks[0].Title)
}
