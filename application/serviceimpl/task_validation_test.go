package serviceimpl

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/domain/dto"
	"task-tracker/domain/models"
	"task-tracker/pkg/apperror"
)

func decodeCreate(t *testing.T, body string) *dto.CreateTaskRequest {
	t.Helper()
	var req dto.CreateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func decodeUpdate(t *testing.T, body string) *dto.UpdateTaskRequest {
	t.Helper()
	var req dto.UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func invalidField(t *testing.T, err error) string {
	t.Helper()
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperror.KindInvalidArgument, appErr.Kind)
	return appErr.Field
}

func TestValidateCreateTask_Normalizes(t *testing.T) {
	req := decodeCreate(t, `{
		"title": "  Buy milk  ",
		"description": "   ",
		"project": " Home ",
		"dueDate": "2026-11-02"
	}`)

	task, err := validateCreateTask(req)
	require.NoError(t, err)

	assert.Equal(t, "Buy milk", task.Title)
	assert.Nil(t, task.Description)
	require.NotNil(t, task.Project)
	assert.Equal(t, "Home", *task.Project)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, models.StatusPending, task.Status)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), *task.DueDate)
}

func TestValidateCreateTask_TitleLength(t *testing.T) {
	ok := decodeCreate(t, `{"title":"`+strings.Repeat("a", 255)+`"}`)
	_, err := validateCreateTask(ok)
	assert.NoError(t, err)

	tooLong := decodeCreate(t, `{"title":"`+strings.Repeat("a", 256)+`"}`)
	_, err = validateCreateTask(tooLong)
	assert.Equal(t, "title", invalidField(t, err))

	// surrounding whitespace does not count
	padded := decodeCreate(t, `{"title":"  `+strings.Repeat("a", 255)+`  "}`)
	_, err = validateCreateTask(padded)
	assert.NoError(t, err)

	// multi-byte characters count once each
	runes := decodeCreate(t, `{"title":"`+strings.Repeat("é", 255)+`"}`)
	_, err = validateCreateTask(runes)
	assert.NoError(t, err)
}

func TestValidateCreateTask_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing title", `{}`, "title"},
		{"null title", `{"title":null}`, "title"},
		{"numeric title", `{"title":42}`, "title"},
		{"blank title", `{"title":"   "}`, "title"},
		{"numeric description", `{"title":"a","description":7}`, "description"},
		{"long description", `{"title":"a","description":"` + strings.Repeat("d", 2001) + `"}`, "description"},
		{"unknown priority", `{"title":"a","priority":"urgent"}`, "priority"},
		{"numeric priority", `{"title":"a","priority":3}`, "priority"},
		{"padded priority", `{"title":"a","priority":" high"}`, "priority"},
		{"uppercase priority", `{"title":"a","priority":"HIGH"}`, "priority"},
		{"array project", `{"title":"a","project":["x"]}`, "project"},
		{"long project", `{"title":"a","project":"` + strings.Repeat("p", 101) + `"}`, "project"},
		{"bad due date", `{"title":"a","dueDate":"next tuesday"}`, "dueDate"},
		{"impossible due date", `{"title":"a","dueDate":"2026-02-30"}`, "dueDate"},
		{"numeric due date", `{"title":"a","dueDate":1700000000}`, "dueDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateCreateTask(decodeCreate(t, tt.body))
			assert.Equal(t, tt.field, invalidField(t, err))
		})
	}
}

func TestValidateCreateTask_FirstFailureWins(t *testing.T) {
	req := decodeCreate(t, `{
		"title": "",
		"description": 1,
		"priority": "urgent",
		"project": 2,
		"dueDate": "nope"
	}`)
	_, err := validateCreateTask(req)
	assert.Equal(t, "title", invalidField(t, err))

	req = decodeCreate(t, `{"title":"ok","priority":"urgent","project":2,"dueDate":"nope"}`)
	_, err = validateCreateTask(req)
	assert.Equal(t, "priority", invalidField(t, err))

	req = decodeCreate(t, `{"title":"ok","project":2,"dueDate":"nope"}`)
	_, err = validateCreateTask(req)
	assert.Equal(t, "project", invalidField(t, err))
}

func TestValidateCreateTask_PriorityDefaults(t *testing.T) {
	for _, body := range []string{
		`{"title":"a"}`,
		`{"title":"a","priority":null}`,
		`{"title":"a","priority":""}`,
	} {
		task, err := validateCreateTask(decodeCreate(t, body))
		require.NoError(t, err, body)
		assert.Equal(t, models.PriorityMedium, task.Priority, body)
	}

	task, err := validateCreateTask(decodeCreate(t, `{"title":"a","priority":"high"}`))
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, task.Priority)
}

func TestValidateCreateTask_DueDateFormats(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2026-10-19", time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)},
		{"2026-10-19T23:30:00Z", time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)},
		{"2026-10-20T01:00:00+07:00", time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)},
		{"2026-10-19T08:15", time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			task, err := validateCreateTask(decodeCreate(t, `{"title":"a","dueDate":"`+tt.input+`"}`))
			require.NoError(t, err)
			require.NotNil(t, task.DueDate)
			assert.True(t, tt.want.Equal(*task.DueDate), "got %v", task.DueDate)
		})
	}

	task, err := validateCreateTask(decodeCreate(t, `{"title":"a","dueDate":""}`))
	require.NoError(t, err)
	assert.Nil(t, task.DueDate)
}

func TestValidateUpdateTask_ID(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"id":null}`,
		`{"id":"3"}`,
		`{"id":0}`,
		`{"id":-4}`,
		`{"id":1.5}`,
	} {
		_, _, err := validateUpdateTask(decodeUpdate(t, body))
		assert.Equal(t, "id", invalidField(t, err), body)
	}

	id, changes, err := validateUpdateTask(decodeUpdate(t, `{"id":12}`))
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)
	assert.Equal(t, map[string]any{}, changes.Columns())
}

func TestValidateUpdateTask_ThreeWay(t *testing.T) {
	_, changes, err := validateUpdateTask(decodeUpdate(t, `{
		"id": 1,
		"description": null,
		"project": "  Work ",
		"dueDate": ""
	}`))
	require.NoError(t, err)

	assert.True(t, changes.Title.IsOmitted())
	assert.True(t, changes.Description.IsNull())
	assert.True(t, changes.DueDate.IsNull())
	project, ok := changes.Project.Get()
	require.True(t, ok)
	assert.Equal(t, "Work", project)
	assert.True(t, changes.Status.IsOmitted())
	assert.True(t, changes.Priority.IsOmitted())

	columns := changes.Columns()
	assert.Len(t, columns, 3)
	assert.Nil(t, columns["description"])
	assert.NotContains(t, columns, "title")
}

func TestValidateUpdateTask_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"empty title", `{"id":1,"title":""}`, "title"},
		{"null title", `{"id":1,"title":null}`, "title"},
		{"numeric title", `{"id":1,"title":5}`, "title"},
		{"long title", `{"id":1,"title":"` + strings.Repeat("t", 256) + `"}`, "title"},
		{"numeric description", `{"id":1,"description":false}`, "description"},
		{"null priority", `{"id":1,"priority":null}`, "priority"},
		{"empty priority", `{"id":1,"priority":""}`, "priority"},
		{"unknown status", `{"id":1,"status":"done"}`, "status"},
		{"null status", `{"id":1,"status":null}`, "status"},
		{"padded status", `{"id":1,"status":"completed "}`, "status"},
		{"padded priority", `{"id":1,"priority":"low "}`, "priority"},
		{"long project", `{"id":1,"project":"` + strings.Repeat("p", 101) + `"}`, "project"},
		{"bad due date", `{"id":1,"dueDate":"31/12/2026"}`, "dueDate"},
		{"status checked before due date", `{"id":1,"status":"done","dueDate":"bad"}`, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := validateUpdateTask(decodeUpdate(t, tt.body))
			assert.Equal(t, tt.field, invalidField(t, err))
		})
	}
}
