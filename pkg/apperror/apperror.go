// Package apperror defines the failure kinds surfaced by the task service.
package apperror

import "fmt"

type Kind string

const (
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	KindNotFound        Kind = "NOT_FOUND"
	KindInternal        Kind = "INTERNAL"
)

// Error carries a caller-safe Message. Err holds the underlying cause and is
// only ever logged.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	msg += ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so errors.Is(err, ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Field == "" || t.Field == e.Field)
}

var (
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated, Message: "Unauthorized"}
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "Task not found"}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument, Message: "Invalid argument"}
	ErrInternal        = &Error{Kind: KindInternal, Message: "Internal server error"}
)

func Unauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Message: "Unauthorized"}
}

func InvalidArgument(field, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Field: field, Message: fmt.Sprintf(format, args...)}
}

func NotFound(message string) *Error {
	if message == "" {
		message = "Task not found"
	}
	return &Error{Kind: KindNotFound, Message: message}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}
