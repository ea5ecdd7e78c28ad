package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/testutil"
)

func TestListAssignees_Execute(t *testing.T) {
	api := testutil.NewMockAPI()
	seedBoard(api)
	repo := newTestRepo(api)
	uc := NewListAssignees(repo)

	out, err := uc.Execute(context.Background(), ListAssigneesInput{TaskID: 2})

	require.NoError(t, err)
	require.Len(t, out.Assignees, 1)
	cached, ok := repo.Store().Assignees(2)
	require.True(t, ok)
	assert.Equal(t, out.Assignees, cached)
}

func TestAssignUser_Execute(t *testing.T) {
	// Setup
	api := testutil.NewMockAPI()
	api.AddUser(domain.User{UUID: "bob", Username: "bob", Name: "Bob"})
	logger := &testutil.MockLogger{}
	uc := NewAssignUser(api, api, logger)

	// Execute
	out, err := uc.Execute(context.Background(), AssignUserInput{Form: domain.AssignForm{
		UserID: "bob", TaskID: 4, Capabilities: domain.Capabilities{View: true, Edit: true},
	}})

	// Assert
	require.NoError(t, err)
	assert.NotZero(t, out.Assignee.ID)
	assert.Equal(t, "Bob", out.Assignee.UserName)
	assert.Equal(t, domain.Capabilities{View: true, Edit: true}, out.Assignee.Capabilities())
	assert.True(t, logger.Contains("assigned bob (v-e)"))
}

func TestAssignUser_Execute_UnknownUser(t *testing.T) {
	api := testutil.NewMockAPI()
	uc := NewAssignUser(api, api, domain.NopLogger{})

	_, err := uc.Execute(context.Background(), AssignUserInput{Form: domain.AssignForm{UserID: "ghost", TaskID: 4}})

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Zero(t, api.CallCount("CreateAssignee"))
}

func TestAssignUser_Execute_Validation(t *testing.T) {
	api := testutil.NewMockAPI()
	uc := NewAssignUser(api, api, domain.NopLogger{})

	_, err := uc.Execute(context.Background(), AssignUserInput{Form: domain.AssignForm{}})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, api.RecordedCalls())
}

func TestUnassignUser_Execute(t *testing.T) {
	api := testutil.NewMockAPI()
	api.Assignees = []domain.Assignee{{ID: 5, TaskID: 1, UserID: "bob"}}
	uc := NewUnassignUser(api, domain.NopLogger{})

	_, err := uc.Execute(context.Background(), UnassignUserInput{AssigneeID: 5})

	require.NoError(t, err)
	assert.Empty(t, api.Assignees)
}
