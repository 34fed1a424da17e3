package messaging

import (
	"context"

	"task-tracker/domain/models"
	"task-tracker/domain/ports"
	"task-tracker/pkg/logger"
)

// NoopTaskEventPublisher - publisher ที่ไม่ส่งอะไรเลย ใช้เมื่อไม่มี NATS
type NoopTaskEventPublisher struct{}

func NewNoopTaskEventPublisher() ports.TaskEventPublisher {
	return &NoopTaskEventPublisher{}
}

func (p *NoopTaskEventPublisher) PublishTaskEvent(ctx context.Context, event *models.TaskEvent) error {
	logger.DebugContext(ctx, "Task event (noop)", "type", event.Type, "task_id", event.TaskID)
	return nil
}
