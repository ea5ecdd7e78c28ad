package usecase

import (
	"context"
	"slices"

	"github.com/runoshun/taskdesk/internal/domain"
)

// ListTasksInput contains the filters.
type ListTasksInput struct {
	Priority domain.Priority // Only this column (optional)
	Tag      string          // Only tasks carrying this tag (optional)
}

// ListTasksOutput contains the visible tasks in column order.
type ListTasksOutput struct {
	Tasks []domain.Task
}

// ListTasks returns the tasks the current viewer may see.
type ListTasks struct {
	board *ShowBoard
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(board *ShowBoard) *ListTasks {
	return &ListTasks{board: board}
}

// Execute loads the board and flattens it.
func (uc *ListTasks) Execute(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	if in.Priority != "" && !in.Priority.IsValid() {
		return nil, domain.ErrInvalidPriority
	}
	out, err := uc.board.Execute(ctx, ShowBoardInput{})
	if err != nil {
		return nil, err
	}

	var tasks []domain.Task
	for _, col := range out.Board.Columns {
		if in.Priority != "" && col.Priority != in.Priority {
			continue
		}
		for _, t := range col.Tasks {
			if in.Tag != "" && !slices.Contains(t.Tags, in.Tag) {
				continue
			}
			tasks = append(tasks, t)
		}
	}
	return &ListTasksOutput{Tasks: tasks}, nil
}
