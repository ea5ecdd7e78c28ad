package usecase

import (
	"context"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/store"
)

// DeleteTaskInput contains the task to delete.
type DeleteTaskInput struct {
	TaskID int
}

// DeleteTaskOutput is empty.
type DeleteTaskOutput struct{}

// DeleteTask removes a task.
type DeleteTask struct {
	repo   *store.Repository
	logger domain.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(repo *store.Repository, logger domain.Logger) *DeleteTask {
	return &DeleteTask{repo: repo, logger: logger}
}

// Execute deletes the task on the server and drops it from the cache.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	if err := uc.repo.Delete(ctx, in.TaskID); err != nil {
		return nil, err
	}
	uc.logger.Info(in.TaskID, "task", "deleted")
	return &DeleteTaskOutput{}, nil
}
