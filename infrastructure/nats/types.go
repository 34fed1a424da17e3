package nats

import "time"

// Stream and subject names
const (
	StreamName = "TASK_EVENTS"

	// SubjectTaskEventsPrefix + event type, e.g. tasks.events.created
	SubjectTaskEventsPrefix = "tasks.events."
	SubjectTaskEvents       = SubjectTaskEventsPrefix + ">"

	// events เก็บไว้ให้ consumer ตามอ่านย้อนหลังได้ 7 วัน
	StreamMaxAge = 7 * 24 * time.Hour
)

// StreamInfo สรุปสถานะ stream สำหรับ log ตอน startup
type StreamInfo struct {
	Name     string `json:"name"`
	Messages uint64 `json:"messages"`
	Bytes    uint64 `json:"bytes"`
	LastSeq  uint64 `json:"last_seq"`
}
