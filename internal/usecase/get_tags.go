package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdesk/internal/domain"
)

// GetTagsInput contains the task.
type GetTagsInput struct {
	TaskID int
}

// GetTagsOutput contains the tags.
type GetTagsOutput struct {
	Tags []string
}

// GetTags fetches a task's tags.
type GetTags struct {
	tasks domain.TaskAPI
}

// NewGetTags creates a new GetTags use case.
func NewGetTags(tasks domain.TaskAPI) *GetTags {
	return &GetTags{tasks: tasks}
}

// Execute fetches the tags.
func (uc *GetTags) Execute(ctx context.Context, in GetTagsInput) (*GetTagsOutput, error) {
	tags, err := uc.tasks.GetTags(ctx, in.TaskID)
	if err != nil {
		return nil, fmt.Errorf("get tags %d: %w", in.TaskID, err)
	}
	return &GetTagsOutput{Tags: domain.NormalizeTags(tags)}, nil
}
