package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/runoshun/taskdesk/internal/domain"
)

type tasksEnvelope struct {
	Tasks []domain.Task `json:"tasks_all"`
}

type taskEnvelope struct {
	Task *domain.Task `json:"task"`
}

type tagsEnvelope struct {
	Tags []string `json:"tags"`
}

type priorityRequest struct {
	Priority domain.Priority `json:"priority"`
	TaskID   int             `json:"task_id"`
}

type visibilityRequest struct {
	Visibility domain.Visibility `json:"visibility"`
	TaskID     int               `json:"task_id"`
}

func (e taskEnvelope) task(op string) (*domain.Task, error) {
	if e.Task == nil {
		return nil, fmt.Errorf("%s: %w: missing task", op, domain.ErrUnexpectedResponse)
	}
	return e.Task, nil
}

// ListTasks fetches every task.
func (c *Client) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var env tasksEnvelope
	if err := c.do(ctx, http.MethodGet, "/tasks/", nil, nil, &env); err != nil {
		return nil, err
	}
	return env.Tasks, nil
}

// GetTask fetches one task.
func (c *Client) GetTask(ctx context.Context, id int) (*domain.Task, error) {
	var env taskEnvelope
	if err := c.do(ctx, http.MethodGet, "/tasks/id", idQuery("id", id), nil, &env); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", domain.ErrTaskNotFound, err)
		}
		return nil, err
	}
	return env.task("get task")
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	var env taskEnvelope
	if err := c.do(ctx, http.MethodPost, "/tasks/", nil, task, &env); err != nil {
		return nil, err
	}
	return env.task("create task")
}

// UpdateTask replaces a task.
func (c *Client) UpdateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	var env taskEnvelope
	path := "/tasks/id/" + strconv.Itoa(task.ID)
	if err := c.do(ctx, http.MethodPut, path, nil, task, &env); err != nil {
		return nil, err
	}
	return env.task("update task")
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/tasks/id", idQuery("id", id), nil, nil)
}

// ChangePriority moves a task to another column.
func (c *Client) ChangePriority(ctx context.Context, id int, priority domain.Priority) (*domain.Task, error) {
	var env taskEnvelope
	body := priorityRequest{TaskID: id, Priority: priority}
	if err := c.do(ctx, http.MethodPost, "/task/change-priority", nil, body, &env); err != nil {
		return nil, err
	}
	return env.task("change priority")
}

// ChangeVisibility sets a task's visibility.
func (c *Client) ChangeVisibility(ctx context.Context, id int, visibility domain.Visibility) (*domain.Task, error) {
	var env taskEnvelope
	body := visibilityRequest{TaskID: id, Visibility: visibility}
	if err := c.do(ctx, http.MethodPost, "/task/change-visibility", nil, body, &env); err != nil {
		return nil, err
	}
	return env.task("change visibility")
}

// GetTags fetches a task's tags.
func (c *Client) GetTags(ctx context.Context, id int) ([]string, error) {
	var env tagsEnvelope
	if err := c.do(ctx, http.MethodGet, "/task/get-tags", idQuery("task_id", id), nil, &env); err != nil {
		return nil, err
	}
	return env.Tags, nil
}

// userQuery is shared by the user-scoped lookups.
func userQuery(userID string) url.Values {
	return url.Values{"user_id": []string{userID}}
}
