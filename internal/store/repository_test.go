package store

import (
	"context"
	"errors"
	"testing"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*Repository, *testutil.MockAPI) {
	t.Helper()
	api := testutil.NewMockAPI()
	api.AddTask(domain.Task{ID: 1, TaskID: "A-1", TaskName: "one", Priority: domain.PriorityMedium, Visibility: domain.VisibilityPublic})
	api.AddTask(domain.Task{ID: 2, TaskID: "A-2", TaskName: "two", Priority: domain.PriorityHigh, Visibility: domain.VisibilityPrivate})
	return NewRepository(api, New(nil), nil), api
}

func TestRepository_LoadAll(t *testing.T) {
	repo, _ := newRepo(t)

	tasks, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Equal(t, 2, repo.Store().Len())
}

func TestRepository_LoadAllError(t *testing.T) {
	repo, api := newRepo(t)
	_, err := repo.LoadAll(context.Background())
	require.NoError(t, err)

	api.ListErr = domain.ErrTransport
	_, err = repo.LoadAll(context.Background())
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Equal(t, 2, repo.Store().Len(), "cache untouched on failure")
}

func TestRepository_ChangePriorityMergesServerCopy(t *testing.T) {
	repo, api := newRepo(t)
	ctx := context.Background()
	_, err := repo.LoadAll(ctx)
	require.NoError(t, err)

	updated, err := repo.ChangePriority(ctx, 1, domain.PriorityNormal)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityNormal, updated.Priority)

	cached, _ := repo.Store().Task(1)
	assert.Equal(t, domain.PriorityNormal, cached.Priority)
	assert.Equal(t, 1, api.CallCount("ChangePriority(1,Normal)"))
	assert.Equal(t, 1, api.CallCount("ListTasks"), "no reload after a priority change")
}

func TestRepository_ChangePriorityFailureLeavesCache(t *testing.T) {
	repo, api := newRepo(t)
	ctx := context.Background()
	_, err := repo.LoadAll(ctx)
	require.NoError(t, err)

	api.ChangePriorityErr = errors.New("nope")
	_, err = repo.ChangePriority(ctx, 1, domain.PriorityHigh)
	require.Error(t, err)

	cached, _ := repo.Store().Task(1)
	assert.Equal(t, domain.PriorityMedium, cached.Priority)

	_, err = repo.ChangePriority(ctx, 1, "Urgent")
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
	assert.Equal(t, 1, api.CallCount("ChangePriority"))
}

func TestRepository_CreateUpdateDelete(t *testing.T) {
	repo, api := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.Task{TaskID: "B-1", TaskName: "new", Priority: domain.PriorityNormal, Visibility: domain.VisibilityPrivate})
	require.NoError(t, err)
	_, ok := repo.Store().Task(created.ID)
	assert.True(t, ok)

	created.TaskName = "renamed"
	_, err = repo.Update(ctx, *created)
	require.NoError(t, err)
	cached, _ := repo.Store().Task(created.ID)
	assert.Equal(t, "renamed", cached.TaskName)

	vis, err := repo.ChangeVisibility(ctx, created.ID, domain.VisibilityPublic)
	require.NoError(t, err)
	assert.Equal(t, domain.VisibilityPublic, vis.Visibility)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, ok = repo.Store().Task(created.ID)
	assert.False(t, ok)

	api.DeleteErr = errors.New("denied")
	_, err = repo.LoadOne(ctx, 1)
	require.NoError(t, err)
	require.Error(t, repo.Delete(ctx, 1))
	_, ok = repo.Store().Task(1)
	assert.True(t, ok)
}

func TestRepository_Assignments(t *testing.T) {
	repo, api := newRepo(t)
	ctx := context.Background()
	api.Assignees = []domain.Assignee{
		{ID: 10, TaskID: 2, UserID: "u-1"},
		{ID: 11, TaskID: 1, UserID: "u-2"},
	}
	_, err := repo.LoadAll(ctx)
	require.NoError(t, err)

	viewer, err := repo.LoadViewerAssignments(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, viewer.IsAssigned(2))
	assert.Equal(t, 2, repo.Store().Board().Total())

	viewer, err = repo.LoadViewerAssignments(ctx, "")
	require.NoError(t, err)
	assert.True(t, viewer.IsAnonymous())
	assert.Equal(t, 1, api.CallCount("ListUserAssignments"))

	assignees, err := repo.LoadAssignees(ctx, 1)
	require.NoError(t, err)
	require.Len(t, assignees, 1)
	assert.Equal(t, "u-2", assignees[0].UserID)
}
