package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/store"
)

// ListAssigneesInput contains the task.
type ListAssigneesInput struct {
	TaskID int
}

// ListAssigneesOutput contains the task's assignments.
type ListAssigneesOutput struct {
	Assignees []domain.Assignee
}

// ListAssignees lists who is assigned to a task.
type ListAssignees struct {
	repo *store.Repository
}

// NewListAssignees creates a new ListAssignees use case.
func NewListAssignees(repo *store.Repository) *ListAssignees {
	return &ListAssignees{repo: repo}
}

// Execute fetches the assignments.
func (uc *ListAssignees) Execute(ctx context.Context, in ListAssigneesInput) (*ListAssigneesOutput, error) {
	assignees, err := uc.repo.LoadAssignees(ctx, in.TaskID)
	if err != nil {
		return nil, err
	}
	return &ListAssigneesOutput{Assignees: assignees}, nil
}

// AssignUserInput contains the assignment form.
type AssignUserInput struct {
	Form domain.AssignForm
}

// AssignUserOutput contains the created assignment.
type AssignUserOutput struct {
	Assignee domain.Assignee
}

// AssignUser assigns a user to a task.
type AssignUser struct {
	assignees domain.AssigneeAPI
	users     domain.UserAPI
	logger    domain.Logger
}

// NewAssignUser creates a new AssignUser use case.
func NewAssignUser(assignees domain.AssigneeAPI, users domain.UserAPI, logger domain.Logger) *AssignUser {
	return &AssignUser{assignees: assignees, users: users, logger: logger}
}

// Execute validates the form, resolves the user's display name and creates
// the assignment. The user must exist.
func (uc *AssignUser) Execute(ctx context.Context, in AssignUserInput) (*AssignUserOutput, error) {
	a, err := in.Form.Validate()
	if err != nil {
		return nil, err
	}

	user, err := uc.users.GetUser(ctx, a.UserID)
	if err != nil {
		return nil, fmt.Errorf("assign user %s: %w", a.UserID, err)
	}
	a.UserName = user.Name
	if a.UserName == "" {
		a.UserName = user.Username
	}

	created, err := uc.assignees.CreateAssignee(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("assign user %s: %w", a.UserID, err)
	}
	uc.logger.Info(a.TaskID, "assignee", fmt.Sprintf("assigned %s (%s)", a.UserID, a.Capabilities()))
	return &AssignUserOutput{Assignee: *created}, nil
}

// UnassignUserInput contains the assignment id.
type UnassignUserInput struct {
	AssigneeID int
}

// UnassignUserOutput is empty.
type UnassignUserOutput struct{}

// UnassignUser removes an assignment.
type UnassignUser struct {
	assignees domain.AssigneeAPI
	logger    domain.Logger
}

// NewUnassignUser creates a new UnassignUser use case.
func NewUnassignUser(assignees domain.AssigneeAPI, logger domain.Logger) *UnassignUser {
	return &UnassignUser{assignees: assignees, logger: logger}
}

// Execute deletes the assignment.
func (uc *UnassignUser) Execute(ctx context.Context, in UnassignUserInput) (*UnassignUserOutput, error) {
	if err := uc.assignees.DeleteAssignee(ctx, in.AssigneeID); err != nil {
		return nil, fmt.Errorf("unassign %d: %w", in.AssigneeID, err)
	}
	uc.logger.Info(0, "assignee", fmt.Sprintf("removed assignment %d", in.AssigneeID))
	return &UnassignUserOutput{}, nil
}
