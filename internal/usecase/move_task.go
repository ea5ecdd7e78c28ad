package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdesk/internal/board"
	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/store"
)

// MoveTaskInput contains the task and destination column.
type MoveTaskInput struct {
	Priority domain.Priority
	TaskID   int
}

// MoveTaskOutput contains the task after the move.
type MoveTaskOutput struct {
	From    domain.Priority
	Task    domain.Task
	Changed bool // False when the task was already in the destination column
}

// MoveTask moves a task to another priority column with the same optimistic
// flow the board uses for a drag and drop.
type MoveTask struct {
	repo       *store.Repository
	reconciler *board.Reconciler
}

// NewMoveTask creates a new MoveTask use case.
func NewMoveTask(repo *store.Repository, reconciler *board.Reconciler) *MoveTask {
	return &MoveTask{repo: repo, reconciler: reconciler}
}

// Execute loads the task, then drops it on the destination column.
func (uc *MoveTask) Execute(ctx context.Context, in MoveTaskInput) (*MoveTaskOutput, error) {
	if !in.Priority.IsValid() {
		return nil, fmt.Errorf("move task %d: %w", in.TaskID, domain.ErrInvalidPriority)
	}
	current, err := uc.repo.LoadOne(ctx, in.TaskID)
	if err != nil {
		return nil, err
	}

	moved, err := uc.reconciler.Move(ctx, in.TaskID, in.Priority)
	if err != nil {
		return nil, err
	}
	return &MoveTaskOutput{
		From:    current.Priority,
		Task:    *moved,
		Changed: current.Priority != in.Priority,
	}, nil
}
