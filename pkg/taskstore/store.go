// Package taskstore keeps one session's task list in memory and reconciles
// it with the server after every round trip.
package taskstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"task-tracker/domain/dto"
	"task-tracker/domain/models"
	"task-tracker/pkg/taskclient"
)

const clearConcurrency = 8

var ErrUnknownTask = errors.New("task is not in the local list")

// API is the subset of *taskclient.Client the store needs.
type API interface {
	List(ctx context.Context) ([]dto.TaskResponse, error)
	Create(ctx context.Context, in taskclient.CreateInput) (*dto.TaskResponse, error)
	Update(ctx context.Context, in taskclient.UpdateInput) (*dto.TaskResponse, error)
	Delete(ctx context.Context, id uint) error
}

type ClearOutcome string

const (
	ClearNoOp    ClearOutcome = "noop"
	ClearCleared ClearOutcome = "cleared"
	ClearPartial ClearOutcome = "partial"
	ClearFailed  ClearOutcome = "failed"
)

type ClearResult struct {
	Outcome   ClearOutcome
	Requested int
	Deleted   []uint
	Failed    map[uint]error
}

// Store state only changes from server responses, never from local input.
type Store struct {
	api      API
	notifier Notifier

	mu    sync.RWMutex
	tasks []dto.TaskResponse

	refreshes singleflight.Group
}

func New(api API, notifier Notifier) *Store {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Store{
		api:      api,
		notifier: notifier,
		tasks:    []dto.TaskResponse{},
	}
}

// ========== Mutation helpers (caller must not hold mu) ==========

func (s *Store) prepend(t dto.TaskResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append([]dto.TaskResponse{t}, s.tasks...)
}

// replaceByID swaps the record in place; a record that is not held yet is
// prepended.
func (s *Store) replaceByID(t dto.TaskResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == t.ID {
			s.tasks[i] = t
			return
		}
	}
	s.tasks = append([]dto.TaskResponse{t}, s.tasks...)
}

func (s *Store) removeByID(ids ...uint) {
	drop := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.tasks[:0:0]
	for _, t := range s.tasks {
		if _, ok := drop[t.ID]; !ok {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
}

func (s *Store) reset(tasks []dto.TaskResponse) {
	copied := make([]dto.TaskResponse, len(tasks))
	copy(copied, tasks)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = copied
}

// ========== Server round trips ==========

// Refresh replaces local state with the server list. Concurrent calls share
// one request, which is detached from any single caller's cancellation and
// bounded by the HTTP client timeout instead. A caller whose ctx ends stops
// waiting and gets ctx.Err(); the others still receive the shared result.
func (s *Store) Refresh(ctx context.Context) error {
	ch := s.refreshes.DoChan("list", func() (interface{}, error) {
		return nil, s.reload(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) reload(ctx context.Context) error {
	tasks, err := s.api.List(ctx)
	if err != nil {
		s.notifier.Notify(Notice{Level: NoticeError, Title: "Load Failed", Message: describe(err, "Failed to load tasks.")})
		return err
	}
	s.reset(tasks)
	return nil
}

func (s *Store) Create(ctx context.Context, in taskclient.CreateInput) (*dto.TaskResponse, error) {
	task, err := s.api.Create(ctx, in)
	if err != nil {
		s.notifier.Notify(Notice{Level: NoticeError, Title: "Creation Failed", Message: describe(err, "Failed to create task.")})
		return nil, err
	}

	s.prepend(*task)
	s.notifier.Notify(Notice{Level: NoticeSuccess, Title: "Task Created!", Message: fmt.Sprintf("%q has been added to your tasks.", task.Title)})
	return task, nil
}

func (s *Store) Update(ctx context.Context, in taskclient.UpdateInput) (*dto.TaskResponse, error) {
	task, err := s.api.Update(ctx, in)
	if err != nil {
		s.notifier.Notify(Notice{Level: NoticeError, Title: "Update Failed", Message: describe(err, "Failed to update task.")})
		return nil, err
	}

	s.replaceByID(*task)
	s.notifier.Notify(Notice{Level: NoticeSuccess, Title: "Task Updated", Message: fmt.Sprintf("%q has been saved.", task.Title)})
	return task, nil
}

// ToggleStatus flips completed to pending and anything else to completed.
func (s *Store) ToggleStatus(ctx context.Context, id uint) (*dto.TaskResponse, error) {
	current, ok := s.find(id)
	if !ok {
		return nil, ErrUnknownTask
	}

	next := models.StatusCompleted
	if current.Status == models.StatusCompleted {
		next = models.StatusPending
	}

	task, err := s.api.Update(ctx, taskclient.UpdateInput{ID: id, Status: dto.Value(next)})
	if err != nil {
		s.notifier.Notify(Notice{Level: NoticeError, Title: "Update Failed", Message: describe(err, "Failed to update task status.")})
		return nil, err
	}

	s.replaceByID(*task)
	if next == models.StatusCompleted {
		s.notifier.Notify(Notice{Level: NoticeSuccess, Title: "Task Completed!", Message: fmt.Sprintf("%q is now done.", task.Title)})
	} else {
		s.notifier.Notify(Notice{Level: NoticeSuccess, Title: "Task Reopened", Message: fmt.Sprintf("%q is now pending.", task.Title)})
	}
	return task, nil
}

func (s *Store) Delete(ctx context.Context, id uint) error {
	if err := s.api.Delete(ctx, id); err != nil {
		s.notifier.Notify(Notice{Level: NoticeError, Title: "Delete Failed", Message: describe(err, "Failed to delete task.")})
		return err
	}

	s.removeByID(id)
	s.notifier.Notify(Notice{Level: NoticeSuccess, Title: "Task Deleted", Message: "The task has been removed."})
	return nil
}

// ClearCompleted deletes every completed task concurrently and waits for all
// of them. Any failure triggers a reload instead of guessing what is left.
func (s *Store) ClearCompleted(ctx context.Context) (ClearResult, error) {
	var ids []uint
	for _, t := range s.Tasks() {
		if t.Status == models.StatusCompleted {
			ids = append(ids, t.ID)
		}
	}

	result := ClearResult{Requested: len(ids), Failed: map[uint]error{}}
	if len(ids) == 0 {
		result.Outcome = ClearNoOp
		s.notifier.Notify(Notice{Level: NoticeInfo, Title: "No Completed Tasks", Message: "There are no completed tasks to clear."})
		return result, nil
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(clearConcurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			err := s.api.Delete(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed[id] = err
			} else {
				result.Deleted = append(result.Deleted, id)
			}
			// failures are collected, not returned, so no sibling is cancelled
			return nil
		})
	}
	_ = g.Wait()

	if len(result.Failed) == 0 {
		result.Outcome = ClearCleared
		s.removeByID(result.Deleted...)
		s.notifier.Notify(Notice{Level: NoticeSuccess, Title: "Tasks Cleared", Message: fmt.Sprintf("Successfully deleted %s.", plural(len(result.Deleted), "completed task"))})
		return result, nil
	}

	if len(result.Deleted) > 0 {
		result.Outcome = ClearPartial
		s.notifier.Notify(Notice{Level: NoticeWarning, Title: "Partial Success", Message: fmt.Sprintf("Deleted %d of %d tasks. Some deletions failed.", len(result.Deleted), len(ids))})
	} else {
		result.Outcome = ClearFailed
		s.notifier.Notify(Notice{Level: NoticeError, Title: "Bulk Delete Failed", Message: "Failed to clear completed tasks. Please try again."})
	}

	errs := make([]error, 0, len(result.Failed)+1)
	for id, err := range result.Failed {
		errs = append(errs, fmt.Errorf("delete task %d: %w", id, err))
	}
	if err := s.reload(ctx); err != nil {
		errs = append(errs, fmt.Errorf("reload after clear: %w", err))
	}
	return result, errors.Join(errs...)
}

// ========== Read access ==========

// Tasks returns a copy of the current list in display order.
func (s *Store) Tasks() []dto.TaskResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]dto.TaskResponse, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Filtered(f Filter) []dto.TaskResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return f.Apply(s.tasks)
}

// Counts summarizes the tasks that pass f.
func (s *Store) Counts(f Filter) Counts {
	return Summarize(s.Filtered(f))
}

func (s *Store) Projects() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return DistinctProjects(s.tasks)
}

func (s *Store) find(id uint) (dto.TaskResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return dto.TaskResponse{}, false
}

// describe prefers the server's message over the generic fallback.
func describe(err error, fallback string) string {
	var apiErr *taskclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
