package serviceimpl

import (
	"fmt"
	"strings"
	"time"

	"task-tracker/domain/dto"
	"task-tracker/domain/models"
	"task-tracker/pkg/apperror"
	"task-tracker/pkg/utils"
)

const (
	maxTitleLength       = 255
	maxDescriptionLength = 2000
	maxProjectLength     = 100
)

var (
	priorityTag = fmt.Sprintf("oneof=%s %s %s", models.PriorityLow, models.PriorityMedium, models.PriorityHigh)
	statusTag   = fmt.Sprintf("oneof=%s %s %s", models.StatusPending, models.StatusInProgress, models.StatusCompleted)

	// dueDateLayouts are tried in order; only the calendar day is kept.
	dueDateLayouts = []string{
		dto.DateLayout,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
	}
)

// validateCreateTask checks fields in a fixed order and stops at the first
// failure: title, description, priority, project, dueDate.
func validateCreateTask(req *dto.CreateTaskRequest) (*models.Task, error) {
	title, err := validateTitle(req.Title, true)
	if err != nil {
		return nil, err
	}

	description, err := validateText(req.Description, "description", "Description", maxDescriptionLength)
	if err != nil {
		return nil, err
	}

	// absent, null and "" all take the default
	priority := models.PriorityMedium
	if req.Priority.Present() && !req.Priority.IsNull() {
		if s, ok := req.Priority.String(); !ok || s != "" {
			priority, err = validateEnum(req.Priority, "priority", priorityTag, "Priority must be low, medium, or high")
			if err != nil {
				return nil, err
			}
		}
	}

	project, err := validateText(req.Project, "project", "Project", maxProjectLength)
	if err != nil {
		return nil, err
	}

	dueDate, err := validateDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	return &models.Task{
		Title:       title,
		Description: description.Ptr(),
		DueDate:     dueDate.Ptr(),
		Priority:    priority,
		Status:      models.StatusPending,
		Project:     project.Ptr(),
	}, nil
}

// validateUpdateTask returns the target id and the provided changes. Order:
// id, title, description, priority, project, status, dueDate.
func validateUpdateTask(req *dto.UpdateTaskRequest) (uint, *dto.TaskChanges, error) {
	id, ok := req.ID.Uint()
	if !ok {
		return 0, nil, apperror.InvalidArgument("id", "Task ID is required and must be a number")
	}

	changes := &dto.TaskChanges{}

	if req.Title.Present() {
		title, err := validateTitle(req.Title, false)
		if err != nil {
			return 0, nil, err
		}
		changes.Title = dto.Value(title)
	}

	var err error
	if changes.Description, err = validateText(req.Description, "description", "Description", maxDescriptionLength); err != nil {
		return 0, nil, err
	}

	if req.Priority.Present() {
		priority, err := validateEnum(req.Priority, "priority", priorityTag, "Priority must be low, medium, or high")
		if err != nil {
			return 0, nil, err
		}
		changes.Priority = dto.Value(priority)
	}

	if changes.Project, err = validateText(req.Project, "project", "Project", maxProjectLength); err != nil {
		return 0, nil, err
	}

	if req.Status.Present() {
		status, err := validateEnum(req.Status, "status", statusTag, "Status must be pending, in_progress, or completed")
		if err != nil {
			return 0, nil, err
		}
		changes.Status = dto.Value(status)
	}

	if changes.DueDate, err = validateDueDate(req.DueDate); err != nil {
		return 0, nil, err
	}

	return id, changes, nil
}

func validateTitle(f dto.Field, creating bool) (string, error) {
	raw, ok := f.String()
	if !ok {
		if creating {
			return "", apperror.InvalidArgument("title", "Title is required and must be a string")
		}
		return "", apperror.InvalidArgument("title", "Title must be a string")
	}

	title := strings.TrimSpace(raw)
	if utils.ValidateVar(title, "required") != nil {
		return "", apperror.InvalidArgument("title", "Title cannot be empty")
	}
	if utils.ValidateVar(title, fmt.Sprintf("max=%d", maxTitleLength)) != nil {
		return "", apperror.InvalidArgument("title", "Title must be %d characters or fewer", maxTitleLength)
	}
	return title, nil
}

// validateText handles the nullable free-text fields. Null and blank both
// clear the value.
func validateText(f dto.Field, field, label string, maxLength int) (dto.Patch[string], error) {
	if !f.Present() {
		return dto.Omit[string](), nil
	}
	if f.IsNull() {
		return dto.Null[string](), nil
	}

	raw, ok := f.String()
	if !ok {
		return dto.Omit[string](), apperror.InvalidArgument(field, "%s must be a string", label)
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return dto.Null[string](), nil
	}
	if utils.ValidateVar(value, fmt.Sprintf("max=%d", maxLength)) != nil {
		return dto.Omit[string](), apperror.InvalidArgument(field, "%s must be %d characters or fewer", label, maxLength)
	}
	return dto.Value(value), nil
}

// validateEnum matches the exact value; " high" is not high.
func validateEnum(f dto.Field, field, tag, message string) (string, error) {
	value, ok := f.String()
	if !ok {
		return "", apperror.InvalidArgument(field, "%s", message)
	}
	if utils.ValidateVar(value, "required,"+tag) != nil {
		return "", apperror.InvalidArgument(field, "%s", message)
	}
	return value, nil
}

func validateDueDate(f dto.Field) (dto.Patch[time.Time], error) {
	if !f.Present() {
		return dto.Omit[time.Time](), nil
	}
	if f.IsNull() {
		return dto.Null[time.Time](), nil
	}

	raw, ok := f.String()
	if !ok {
		return dto.Omit[time.Time](), apperror.InvalidArgument("dueDate", "Invalid due date format")
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return dto.Null[time.Time](), nil
	}

	due, ok := parseDueDate(raw)
	if !ok {
		return dto.Omit[time.Time](), apperror.InvalidArgument("dueDate", "Invalid due date format")
	}
	return dto.Value(due), nil
}

// parseDueDate keeps the calendar day as written, in its own offset.
func parseDueDate(raw string) (time.Time, bool) {
	for _, layout := range dueDateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
