package ports

import (
	"context"

	"task-tracker/domain/models"
)

// ═══════════════════════════════════════════════════════════════════════════════
// Task Event Port - แจ้ง mutation ของ task ออกไปภายนอก
// ═══════════════════════════════════════════════════════════════════════════════

// TaskEventPublisher is called after a mutation has been committed. An error
// never rolls the mutation back.
type TaskEventPublisher interface {
	PublishTaskEvent(ctx context.Context, event *models.TaskEvent) error
}
