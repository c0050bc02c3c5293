package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cone387/ttask/internal/models"
)

// TaskCreate is the payload for a new task. Zero-valued optional fields
// are omitted so the backend applies its defaults.
type TaskCreate struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Project     *int64          `json:"project,omitempty"`
	Priority    models.Priority `json:"priority,omitempty"`
	Status      models.Status   `json:"status,omitempty"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	CustomGroup string          `json:"custom_group,omitempty"`
	Tags        []int64         `json:"tags,omitempty"`
}

// TaskPatch carries a partial update; nil fields are left untouched by the
// backend. Pointer fields deliberately serialize their zero values, so an
// explicit empty custom group or order 0 goes over the wire.
type TaskPatch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Project     *int64           `json:"project,omitempty"`
	Priority    *models.Priority `json:"priority,omitempty"`
	Status      *models.Status   `json:"status,omitempty"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	StartDate   *time.Time       `json:"start_date,omitempty"`
	CustomGroup *string          `json:"custom_group,omitempty"`
	Order       *int             `json:"order,omitempty"`
	Starred     *bool            `json:"is_starred,omitempty"`
	Tags        []int64          `json:"tags,omitempty"`
}

// ListTasks returns the tasks visible to the session, optionally narrowed
// to one project. Pagination is unwrapped; callers always get a flat list.
func (c *Client) ListTasks(ctx context.Context, projectID *int64) ([]models.Task, error) {
	path := "/tasks/"
	if projectID != nil {
		path += "?project=" + strconv.FormatInt(*projectID, 10)
	}
	tasks, err := getList[models.Task](ctx, c, path)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// SystemList returns one of the fixed virtual views: inbox, completed or
// trash.
func (c *Client) SystemList(ctx context.Context, list models.SystemList) ([]models.Task, error) {
	tasks, err := getList[models.Task](ctx, c, "/tasks/system/?type="+string(list))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", list, err)
	}
	return tasks, nil
}

// TodayTasks returns uncompleted tasks due today.
func (c *Client) TodayTasks(ctx context.Context) ([]models.Task, error) {
	tasks, err := getList[models.Task](ctx, c, "/tasks/today/")
	if err != nil {
		return nil, fmt.Errorf("list today: %w", err)
	}
	return tasks, nil
}

// GetTask fetches a single task by id.
func (c *Client) GetTask(ctx context.Context, id int64) (models.Task, error) {
	var t models.Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &t); err != nil {
		return models.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// CreateTask creates a task; the backend assigns id, order and timestamps.
func (c *Client) CreateTask(ctx context.Context, in TaskCreate) (models.Task, error) {
	var t models.Task
	if err := c.do(ctx, http.MethodPost, "/tasks/", in, &t); err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// UpdateTask applies a partial update and returns the fresh record.
func (c *Client) UpdateTask(ctx context.Context, id int64, patch TaskPatch) (models.Task, error) {
	var t models.Task
	if err := c.do(ctx, http.MethodPatch, taskPath(id), patch, &t); err != nil {
		return models.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}
	return t, nil
}

// DeleteTask soft-deletes: the backend moves the task to the trash list.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, taskPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

// CompleteTask marks a task completed and stamps completed_at server-side.
func (c *Client) CompleteTask(ctx context.Context, id int64) (models.Task, error) {
	var t models.Task
	if err := c.do(ctx, http.MethodPost, taskPath(id)+"complete/", nil, &t); err != nil {
		return models.Task{}, fmt.Errorf("complete task %d: %w", id, err)
	}
	return t, nil
}

// ToggleStar flips the starred flag.
func (c *Client) ToggleStar(ctx context.Context, id int64) (models.Task, error) {
	var t models.Task
	if err := c.do(ctx, http.MethodPost, taskPath(id)+"toggle_star/", nil, &t); err != nil {
		return models.Task{}, fmt.Errorf("toggle star %d: %w", id, err)
	}
	return t, nil
}

// Statistics is the aggregate counters the reports view renders.
type Statistics struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	Todo       int `json:"todo"`
	Overdue    int `json:"overdue"`
}

// GetStatistics fetches the task counters.
func (c *Client) GetStatistics(ctx context.Context) (Statistics, error) {
	var s Statistics
	if err := c.do(ctx, http.MethodGet, "/tasks/statistics/", nil, &s); err != nil {
		return Statistics{}, fmt.Errorf("statistics: %w", err)
	}
	return s, nil
}

// UpdateOrder, UpdateGroup and UpdateStatus are the narrow write surface
// the view engine persists through (view.Persister).

func (c *Client) UpdateOrder(ctx context.Context, id int64, order int) error {
	_, err := c.UpdateTask(ctx, id, TaskPatch{Order: &order})
	return err
}

func (c *Client) UpdateGroup(ctx context.Context, id int64, group string) error {
	_, err := c.UpdateTask(ctx, id, TaskPatch{CustomGroup: &group})
	return err
}

func (c *Client) UpdateStatus(ctx context.Context, id int64, status models.Status) error {
	_, err := c.UpdateTask(ctx, id, TaskPatch{Status: &status})
	return err
}

func taskPath(id int64) string {
	return "/tasks/" + strconv.FormatInt(id, 10) + "/"
}
