package taskstore

import (
	"task-tracker/pkg/logger"
)

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a user-facing message about the outcome of a store operation.
type Notice struct {
	Level   NoticeLevel
	Title   string
	Message string
}

type Notifier interface {
	Notify(n Notice)
}

type NotifierFunc func(n Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// LogNotifier writes notices to the structured logger.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notice) {
	switch n.Level {
	case NoticeError:
		logger.Error(n.Title, "message", n.Message)
	case NoticeWarning:
		logger.Warn(n.Title, "message", n.Message)
	default:
		logger.Info(n.Title, "message", n.Message)
	}
}
