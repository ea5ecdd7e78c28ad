package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/runoshun/taskdesk/internal/domain"
)

type assigneesEnvelope struct {
	Data []domain.Assignee `json:"data"`
}

type assigneeEnvelope struct {
	Assignee *domain.Assignee `json:"assignee"`
}

// ListAssignees fetches every assignment.
func (c *Client) ListAssignees(ctx context.Context) ([]domain.Assignee, error) {
	var env assigneesEnvelope
	if err := c.do(ctx, http.MethodGet, "/assignees/", nil, nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// ListTaskAssignees fetches the assignments of one task.
func (c *Client) ListTaskAssignees(ctx context.Context, taskID int) ([]domain.Assignee, error) {
	var env assigneesEnvelope
	if err := c.do(ctx, http.MethodGet, "/assignee/task_id", idQuery("task_id", taskID), nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// ListUserAssignments fetches the assignments of one user.
func (c *Client) ListUserAssignments(ctx context.Context, userID string) ([]domain.Assignee, error) {
	var env assigneesEnvelope
	if err := c.do(ctx, http.MethodGet, "/task/user_id", userQuery(userID), nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// CreateAssignee assigns a user to a task.
func (c *Client) CreateAssignee(ctx context.Context, a domain.Assignee) (*domain.Assignee, error) {
	var env assigneeEnvelope
	if err := c.do(ctx, http.MethodPost, "/assignees/", nil, a, &env); err != nil {
		return nil, err
	}
	if env.Assignee == nil {
		return nil, fmt.Errorf("create assignee: %w", domain.ErrUnexpectedResponse)
	}
	return env.Assignee, nil
}

// DeleteAssignee removes an assignment.
func (c *Client) DeleteAssignee(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/assignees/id", idQuery("id", id), nil, nil)
}
