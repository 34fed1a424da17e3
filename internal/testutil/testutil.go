// Package testutil wires the real task stack over in-memory SQLite for tests.
package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"task-tracker/application/serviceimpl"
	"task-tracker/domain/models"
	"task-tracker/domain/repositories"
	"task-tracker/domain/services"
	"task-tracker/infrastructure/postgres"
	api "task-tracker/interfaces/api"
	"task-tracker/interfaces/api/handlers"
	"task-tracker/pkg/logger"
	"task-tracker/pkg/utils"
)

const JWTSecret = "test-secret"

// NewDB opens an isolated in-memory database with the schema applied.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Silence()

	db, err := postgres.NewDatabase(postgres.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: ":memory:",
		LogLevel:   gormlogger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))
	t.Cleanup(func() { _ = postgres.Close(db) })
	return db
}

// Stack is a fully wired server plus the pieces tests want to poke at.
type Stack struct {
	App     *fiber.App
	Repo    repositories.TaskRepository
	Service services.TaskService
	Events  *RecordingPublisher
}

func NewStack(t *testing.T) *Stack {
	t.Helper()

	repo := postgres.NewTaskRepository(NewDB(t))
	events := &RecordingPublisher{}
	service := serviceimpl.NewTaskService(repo, events)
	h := handlers.NewHandlers(&handlers.Services{TaskService: service})
	app := api.NewServer(api.ServerConfig{AppName: "task-tracker-test", JWTSecret: JWTSecret}, h)

	return &Stack{App: app, Repo: repo, Service: service, Events: events}
}

// Token mints a bearer token for ownerID signed with JWTSecret.
func Token(t *testing.T, ownerID string) string {
	t.Helper()
	token, err := utils.GenerateToken(ownerID, ownerID+"@example.com", "test", JWTSecret, time.Hour)
	require.NoError(t, err)
	return token
}

// FiberDoer sends requests straight into a fiber app without a listener.
type FiberDoer struct {
	App *fiber.App
}

func (d FiberDoer) Do(req *http.Request) (*http.Response, error) {
	return d.App.Test(req, -1)
}

// RecordingPublisher keeps every published event in memory.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []models.TaskEvent
	Err    error
}

func (p *RecordingPublisher) PublishTaskEvent(_ context.Context, event *models.TaskEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *event)
	return p.Err
}

func (p *RecordingPublisher) Events() []models.TaskEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.TaskEvent(nil), p.events...)
}

// MemoryCache is a map-backed ports.CachePort.
type MemoryCache struct {
	mu       sync.Mutex
	entries  map[string][]byte
	counters map[string]int64
	Hits     int
	Misses   int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte), counters: make(map[string]int64)}
}

func (c *MemoryCache) GetOrSet(_ context.Context, key string, target interface{}, _ time.Duration, getter func() (interface{}, error)) error {
	c.mu.Lock()
	data, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		c.mu.Lock()
		c.Hits++
		c.mu.Unlock()
		return json.Unmarshal(data, target)
	}

	result, err := getter()
	if err != nil {
		return err
	}
	data, err = json.Marshal(result)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.Misses++
	c.entries[key] = data
	c.mu.Unlock()
	return json.Unmarshal(data, target)
}

func (c *MemoryCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

func (c *MemoryCache) GetInt(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[key], nil
}

func (c *MemoryCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[key]++
	return c.counters[key], nil
}

func (c *MemoryCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}
