package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/store"
)

// CreateTaskInput contains the form for the new task.
type CreateTaskInput struct {
	Form domain.TaskForm
}

// CreateTaskOutput contains the created task.
type CreateTaskOutput struct {
	Task domain.Task
}

// CreateTask is the use case for creating a task.
type CreateTask struct {
	repo   *store.Repository
	logger domain.Logger
}

// NewCreateTask creates a new CreateTask use case.
func NewCreateTask(repo *store.Repository, logger domain.Logger) *CreateTask {
	return &CreateTask{repo: repo, logger: logger}
}

// Execute validates the form and creates the task.
// Priority defaults to Normal and visibility to Private.
func (uc *CreateTask) Execute(ctx context.Context, in CreateTaskInput) (*CreateTaskOutput, error) {
	task, err := in.Form.Validate()
	if err != nil {
		return nil, err
	}
	created, err := uc.repo.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	uc.logger.Info(created.ID, "task", fmt.Sprintf("created: %q", created.TaskName))
	return &CreateTaskOutput{Task: *created}, nil
}
