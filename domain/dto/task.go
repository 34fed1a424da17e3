package dto

import (
	"time"
)

// DateLayout is the wire format of Task.dueDate.
const DateLayout = "2006-01-02"

// CreateTaskRequest and UpdateTaskRequest keep every member raw; the task
// service validates them in a fixed order and reports the first failure.
type CreateTaskRequest struct {
	Title       Field `json:"title"`
	Description Field `json:"description"`
	DueDate     Field `json:"dueDate"`
	Priority    Field `json:"priority"`
	Project     Field `json:"project"`
}

type UpdateTaskRequest struct {
	ID          Field `json:"id"`
	Title       Field `json:"title"`
	Description Field `json:"description"`
	DueDate     Field `json:"dueDate"`
	Priority    Field `json:"priority"`
	Status      Field `json:"status"`
	Project     Field `json:"project"`
}

// TaskChanges is a validated, normalized partial update.
type TaskChanges struct {
	Title       Patch[string]
	Description Patch[string]
	DueDate     Patch[time.Time]
	Priority    Patch[string]
	Status      Patch[string]
	Project     Patch[string]
}

// Columns returns the provided changes keyed by column name. Null patches map
// to nil so the column is cleared.
func (c *TaskChanges) Columns() map[string]any {
	columns := make(map[string]any)
	if !c.Title.IsOmitted() {
		columns["title"] = c.Title.value
	}
	if !c.Description.IsOmitted() {
		columns["description"] = c.Description.Ptr()
	}
	if !c.DueDate.IsOmitted() {
		columns["due_date"] = c.DueDate.Ptr()
	}
	if !c.Priority.IsOmitted() {
		columns["priority"] = c.Priority.value
	}
	if !c.Status.IsOmitted() {
		columns["status"] = c.Status.value
	}
	if !c.Project.IsOmitted() {
		columns["project"] = c.Project.Ptr()
	}
	return columns
}

type TaskResponse struct {
	ID          uint      `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	DueDate     *string   `json:"dueDate"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	Project     *string   `json:"project"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
