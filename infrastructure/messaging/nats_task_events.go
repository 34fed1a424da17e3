package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/nats-io/nats.go/jetstream"

	"task-tracker/domain/models"
	"task-tracker/domain/ports"
	natspkg "task-tracker/infrastructure/nats"
	"task-tracker/pkg/logger"
)

// NATSTaskEventPublisher implements TaskEventPublisher using JetStream
type NATSTaskEventPublisher struct {
	js jetstream.JetStream
}

// NewNATSTaskEventPublisher สร้าง TaskEventPublisher adapter สำหรับ JetStream
func NewNATSTaskEventPublisher(js jetstream.JetStream) ports.TaskEventPublisher {
	return &NATSTaskEventPublisher{
		js: js,
	}
}

// Subject returns tasks.events.<type>
func Subject(eventType models.TaskEventType) string {
	return natspkg.SubjectTaskEventsPrefix + string(eventType)
}

// PublishTaskEvent ส่ง event ไปยัง stream TASK_EVENTS
func (p *NATSTaskEventPublisher) PublishTaskEvent(ctx context.Context, event *models.TaskEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.TaskID == 0 {
		return fmt.Errorf("task_id is required")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal task event: %w", err)
	}

	// same (type, task, time) is dropped by the stream's duplicate window
	msgID := string(event.Type) + ":" + strconv.FormatUint(uint64(event.TaskID), 10) + ":" + strconv.FormatInt(event.OccurredAt.UnixNano(), 10)

	ack, err := p.js.Publish(ctx, Subject(event.Type), data, jetstream.WithMsgID(msgID))
	if err != nil {
		return fmt.Errorf("failed to publish task event: %w", err)
	}

	logger.DebugContext(ctx, "Task event published",
		"type", event.Type,
		"task_id", event.TaskID,
		"stream", ack.Stream,
		"sequence", ack.Sequence,
	)

	return nil
}
