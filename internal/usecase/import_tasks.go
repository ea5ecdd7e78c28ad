package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/store"
)

// ImportTasksInput contains the Markdown file content.
type ImportTasksInput struct {
	Content string // One or more frontmatter blocks
	DryRun  bool   // Parse and validate without creating anything
}

// ImportTasksOutput contains the created (or, in dry-run mode, parsed) tasks.
type ImportTasksOutput struct {
	Tasks []domain.Task
}

// ImportTasks creates tasks from a Markdown file with YAML frontmatter.
type ImportTasks struct {
	repo   *store.Repository
	logger domain.Logger
}

// NewImportTasks creates a new ImportTasks use case.
func NewImportTasks(repo *store.Repository, logger domain.Logger) *ImportTasks {
	return &ImportTasks{repo: repo, logger: logger}
}

// Execute validates every block before creating any task, so a bad block
// leaves the server untouched. A failure mid-way reports the tasks created so far.
func (uc *ImportTasks) Execute(ctx context.Context, in ImportTasksInput) (*ImportTasksOutput, error) {
	forms, err := domain.ParseTaskForms(in.Content)
	if err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(forms))
	for i, f := range forms {
		t, err := f.Validate()
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		tasks = append(tasks, t)
	}
	if in.DryRun {
		return &ImportTasksOutput{Tasks: tasks}, nil
	}

	out := &ImportTasksOutput{}
	for i, t := range tasks {
		created, err := uc.repo.Create(ctx, t)
		if err != nil {
			return out, fmt.Errorf("task %d: %w", i+1, err)
		}
		out.Tasks = append(out.Tasks, *created)
	}
	uc.logger.Info(0, "task", fmt.Sprintf("imported %d task(s)", len(out.Tasks)))
	return out, nil
}
