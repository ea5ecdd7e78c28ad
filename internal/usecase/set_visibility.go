package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/store"
)

// SetVisibilityInput contains the task and the wanted visibility.
type SetVisibilityInput struct {
	Visibility domain.Visibility // Empty toggles the current value
	TaskID     int
}

// SetVisibilityOutput contains the updated task.
type SetVisibilityOutput struct {
	Task    domain.Task
	Changed bool
}

// SetVisibility makes a task public or private.
type SetVisibility struct {
	repo   *store.Repository
	logger domain.Logger
}

// NewSetVisibility creates a new SetVisibility use case.
func NewSetVisibility(repo *store.Repository, logger domain.Logger) *SetVisibility {
	return &SetVisibility{repo: repo, logger: logger}
}

// Execute changes the visibility. Setting the current value makes no call.
func (uc *SetVisibility) Execute(ctx context.Context, in SetVisibilityInput) (*SetVisibilityOutput, error) {
	if in.Visibility != "" && !in.Visibility.IsValid() {
		return nil, domain.ErrInvalidVisibility
	}
	current, err := uc.repo.LoadOne(ctx, in.TaskID)
	if err != nil {
		return nil, err
	}

	want := in.Visibility
	if want == "" {
		want = current.Visibility.Toggle()
	}
	if want == current.Visibility {
		return &SetVisibilityOutput{Task: *current}, nil
	}

	updated, err := uc.repo.ChangeVisibility(ctx, in.TaskID, want)
	if err != nil {
		return nil, err
	}
	uc.logger.Info(in.TaskID, "task", fmt.Sprintf("visibility: %s -> %s", current.Visibility, updated.Visibility))
	return &SetVisibilityOutput{Task: *updated, Changed: true}, nil
}
