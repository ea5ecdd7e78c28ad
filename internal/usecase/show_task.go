package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/store"
)

// ShowTaskInput contains the task to show.
type ShowTaskInput struct {
	TaskID int
}

// ShowTaskOutput contains the task and its assignees.
type ShowTaskOutput struct {
	Assignees []domain.Assignee
	Task      domain.Task
}

// ShowTask loads one task with its assignees.
type ShowTask struct {
	repo     *store.Repository
	sessions domain.SessionStore
	clock    domain.Clock
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(repo *store.Repository, sessions domain.SessionStore, clock domain.Clock) *ShowTask {
	return &ShowTask{repo: repo, sessions: sessions, clock: clock}
}

// Execute fetches the task. Private tasks the viewer may not see are
// reported as not found.
func (uc *ShowTask) Execute(ctx context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	viewer, err := loadViewer(ctx, uc.repo, uc.sessions, uc.clock)
	if err != nil {
		return nil, err
	}
	task, err := uc.repo.LoadOne(ctx, in.TaskID)
	if err != nil {
		return nil, err
	}
	if !viewer.CanSee(task) {
		return nil, fmt.Errorf("task %d: %w", in.TaskID, domain.ErrTaskNotFound)
	}

	assignees, err := uc.repo.LoadAssignees(ctx, in.TaskID)
	if err != nil && !errors.Is(err, domain.ErrRejected) {
		return nil, err
	}
	return &ShowTaskOutput{Task: *task, Assignees: assignees}, nil
}
