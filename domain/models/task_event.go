package models

import "time"

type TaskEventType string

const (
	TaskEventCreated TaskEventType = "created"
	TaskEventUpdated TaskEventType = "updated"
	TaskEventDeleted TaskEventType = "deleted"
)

// TaskEvent ถูก publish หลัง mutation สำเร็จ (Task เป็น nil สำหรับ deleted)
type TaskEvent struct {
	Type       TaskEventType `json:"type"`
	TaskID     uint          `json:"taskId"`
	OwnerID    string        `json:"ownerId"`
	Task       *Task         `json:"task,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
}
