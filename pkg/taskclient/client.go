// Package taskclient talks to the /api/v1/tasks endpoints.
package taskclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"task-tracker/domain/dto"
)

const (
	tasksPath      = "/api/v1/tasks"
	defaultTimeout = 15 * time.Second
)

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	baseURL string
	http    Doer
	token   string
}

type Option func(*Client)

func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.http = d }
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateInput mirrors the POST body. Nil pointers are left out.
type CreateInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Project     *string `json:"project,omitempty"`
}

// UpdateInput sends only the fields that are not omitted; a null patch
// clears the field on the server.
type UpdateInput struct {
	ID          uint
	Title       dto.Patch[string]
	Description dto.Patch[string]
	DueDate     dto.Patch[string]
	Priority    dto.Patch[string]
	Status      dto.Patch[string]
	Project     dto.Patch[string]
}

func (u UpdateInput) MarshalJSON() ([]byte, error) {
	body := map[string]any{"id": u.ID}
	for name, p := range map[string]dto.Patch[string]{
		"title":       u.Title,
		"description": u.Description,
		"dueDate":     u.DueDate,
		"priority":    u.Priority,
		"status":      u.Status,
		"project":     u.Project,
	} {
		if v, ok := p.JSON(); ok {
			body[name] = v
		}
	}
	return json.Marshal(body)
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
	Field      string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Field, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

func (c *Client) List(ctx context.Context) ([]dto.TaskResponse, error) {
	var tasks []dto.TaskResponse
	if err := c.do(ctx, http.MethodGet, tasksPath, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []dto.TaskResponse{}
	}
	return tasks, nil
}

func (c *Client) Get(ctx context.Context, id uint) (*dto.TaskResponse, error) {
	var task dto.TaskResponse
	path := tasksPath + "/" + strconv.FormatUint(uint64(id), 10)
	if err := c.do(ctx, http.MethodGet, path, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) Create(ctx context.Context, in CreateInput) (*dto.TaskResponse, error) {
	var task dto.TaskResponse
	if err := c.do(ctx, http.MethodPost, tasksPath, in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) Update(ctx context.Context, in UpdateInput) (*dto.TaskResponse, error) {
	var task dto.TaskResponse
	if err := c.do(ctx, http.MethodPut, tasksPath, in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) Delete(ctx context.Context, id uint) error {
	query := url.Values{"id": {strconv.FormatUint(uint64(id), 10)}}
	var msg dto.MessageResponse
	return c.do(ctx, http.MethodDelete, tasksPath+"?"+query.Encode(), nil, &msg)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(status int, data []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
		Field string `json:"field"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Code = body.Code
		apiErr.Field = body.Field
		return apiErr
	}

	apiErr.Message = http.StatusText(status)
	return apiErr
}
