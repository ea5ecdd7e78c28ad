package usecase

import (
	"context"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/store"
)

// EditTaskInput contains the changes. Nil fields are left unchanged.
// Fields are ordered to minimize memory padding.
type EditTaskInput struct {
	TaskCode    *string   // New task_id code
	Name        *string   // New task name
	Description *string   // New description
	Status      *string   // New status
	DueDate     *string   // New due date (YYYY-MM-DD, "" clears)
	Tags        *[]string // Replace all tags
	EditorText  string    // Markdown produced by the editor
	TaskID      int       // Task to edit
	EditorEdit  bool      // Take every field from EditorText
}

// EditTaskOutput contains the updated task.
type EditTaskOutput struct {
	Task domain.Task
}

// EditTask updates a task's fields.
type EditTask struct {
	repo   *store.Repository
	logger domain.Logger
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(repo *store.Repository, logger domain.Logger) *EditTask {
	return &EditTask{repo: repo, logger: logger}
}

// HasFieldChanges reports whether any individual field was set.
func (in EditTaskInput) HasFieldChanges() bool {
	return in.TaskCode != nil || in.Name != nil || in.Description != nil ||
		in.Status != nil || in.DueDate != nil || in.Tags != nil
}

// Execute applies the changes and sends the full task.
func (uc *EditTask) Execute(ctx context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	if !in.EditorEdit && !in.HasFieldChanges() {
		return nil, domain.ErrNoFieldsToUpdate
	}

	current, err := uc.repo.LoadOne(ctx, in.TaskID)
	if err != nil {
		return nil, err
	}

	var form domain.TaskForm
	if in.EditorEdit {
		form, err = domain.ParseTaskMarkdown(in.EditorText)
		if err != nil {
			return nil, err
		}
	} else {
		form = domain.FormFromTask(*current)
		applyEdits(&form, in)
	}

	task, err := form.Validate()
	if err != nil {
		return nil, err
	}
	task.ID = current.ID

	updated, err := uc.repo.Update(ctx, task)
	if err != nil {
		return nil, err
	}
	uc.logger.Info(updated.ID, "task", "edited")
	return &EditTaskOutput{Task: *updated}, nil
}

func applyEdits(form *domain.TaskForm, in EditTaskInput) {
	if in.TaskCode != nil {
		form.TaskID = *in.TaskCode
	}
	if in.Name != nil {
		form.TaskName = *in.Name
	}
	if in.Description != nil {
		form.AskDescription = *in.Description
	}
	if in.Status != nil {
		form.Status = *in.Status
	}
	if in.DueDate != nil {
		form.DueDate = *in.DueDate
	}
	if in.Tags != nil {
		form.Tags = domain.NormalizeTags(*in.Tags)
	}
}
