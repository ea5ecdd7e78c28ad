package board

import (
	"context"
	"errors"
	"testing"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openEditor(t *testing.T, f *fixture, taskID int) *Editor {
	t.Helper()
	e := NewEditor(f.repo, f.store, nil)
	ticket := e.Open(taskID)
	assert.Equal(t, EditorLoading, e.State())
	_, ok := e.Task()
	assert.False(t, ok, "no task while loading")

	require.True(t, e.ApplyLoad(e.Fetch(context.Background(), ticket)))
	require.Equal(t, EditorViewing, e.State())
	return e
}

func TestEditor_OpenLoadsTaskAndAssignees(t *testing.T) {
	f := newFixture(t)
	f.api.Assignees = []domain.Assignee{{ID: 5, TaskID: 1, UserID: "u-1", UserName: "ana"}}

	e := openEditor(t, f, 1)

	task, ok := e.Task()
	require.True(t, ok)
	assert.Equal(t, "one", task.TaskName)
	require.Len(t, e.Assignees(), 1)
	assert.Equal(t, "ana", e.Assignees()[0].UserName)
	assert.Equal(t, 1, e.TaskID())
}

func TestEditor_StaleLoadDiscarded(t *testing.T) {
	f := newFixture(t)
	e := NewEditor(f.repo, f.store, nil)
	ctx := context.Background()

	first := e.Open(1)
	second := e.Open(2)

	assert.False(t, e.ApplyLoad(e.Fetch(ctx, first)))
	assert.Equal(t, EditorLoading, e.State())

	assert.True(t, e.ApplyLoad(e.Fetch(ctx, second)))
	task, _ := e.Task()
	assert.Equal(t, 2, task.ID)

	e.Close()
	assert.False(t, e.ApplyLoad(e.Fetch(ctx, second)), "closed overlay ignores results")
	assert.Equal(t, EditorClosed, e.State())
}

func TestEditor_EditSaveCommit(t *testing.T) {
	f := newFixture(t)
	e := openEditor(t, f, 1)
	ctx := context.Background()

	require.NoError(t, e.BeginEdit())
	assert.Equal(t, "one", e.DraftValue(FieldTaskName))
	require.NoError(t, e.SetField(FieldTaskName, "one edited"))
	require.NoError(t, e.SetField(FieldTaskID, "a-1"))
	require.NoError(t, e.SetField(FieldAskDescription, "details"))
	require.NoError(t, e.SetField(FieldTags, "x, y"))

	req, err := e.Save()
	require.NoError(t, err)
	assert.True(t, e.Busy())
	assert.Equal(t, "A-1", req.Task.TaskID)
	assert.Equal(t, domain.PriorityMedium, req.Task.Priority)

	require.True(t, e.ApplyTask(e.Commit(ctx, req)))
	assert.Equal(t, EditorViewing, e.State())
	assert.False(t, e.Busy())

	cached, _ := f.store.Task(1)
	assert.Equal(t, "one edited", cached.TaskName)
	assert.Equal(t, []string{"x", "y"}, cached.Tags)
	assert.Equal(t, 1, f.api.CallCount("UpdateTask(1)"))
}

func TestEditor_SaveValidationBlocksNetwork(t *testing.T) {
	f := newFixture(t)
	e := openEditor(t, f, 1)

	require.NoError(t, e.BeginEdit())
	require.NoError(t, e.SetField(FieldTaskName, "  "))
	require.NoError(t, e.SetField(FieldDueDate, "tomorrow"))

	_, err := e.Save()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, e.FieldErrors(), "task_name")
	assert.Contains(t, e.FieldErrors(), "due_date")
	assert.Equal(t, EditorEditing, e.State())
	assert.False(t, e.Busy())
	assert.Equal(t, 0, f.api.CallCount("UpdateTask"))
}

func TestEditor_CancelEditDiscardsDraft(t *testing.T) {
	f := newFixture(t)
	e := openEditor(t, f, 1)

	require.NoError(t, e.BeginEdit())
	require.NoError(t, e.SetField(FieldTaskName, "changed"))
	e.CancelEdit()

	assert.Equal(t, EditorViewing, e.State())
	task, _ := e.Task()
	assert.Equal(t, "one", task.TaskName)
	assert.Error(t, e.SetField(FieldTaskName, "x"))
}

func TestEditor_FailedSaveKeepsDraft(t *testing.T) {
	f := newFixture(t)
	e := openEditor(t, f, 1)
	f.api.UpdateErr = errors.New("conflict")

	require.NoError(t, e.BeginEdit())
	require.NoError(t, e.SetField(FieldTaskID, "A-1"))
	require.NoError(t, e.SetField(FieldAskDescription, "d"))
	req, err := e.Save()
	require.NoError(t, err)

	require.True(t, e.ApplyTask(e.Commit(context.Background(), req)))
	assert.Equal(t, EditorEditing, e.State())
	assert.EqualError(t, errors.Unwrap(e.Err()), "conflict")
	assert.Equal(t, "A-1", e.DraftValue(FieldTaskID))
}

func TestEditor_PriorityAndVisibilityReachSharedCache(t *testing.T) {
	f := newFixture(t)
	e := openEditor(t, f, 1)
	ctx := context.Background()

	ticket, err := e.PrepareMutation()
	require.NoError(t, err)
	require.True(t, e.ApplyTask(e.ChangePriority(ctx, ticket, domain.PriorityNormal)))
	assert.Equal(t, 1, f.store.Board().Column(domain.PriorityNormal).Len())

	ticket, err = e.PrepareMutation()
	require.NoError(t, err)
	require.True(t, e.ApplyTask(e.ToggleVisibility(ctx, ticket, domain.VisibilityPublic)))

	task, _ := e.Task()
	assert.Equal(t, domain.PriorityNormal, task.Priority)
	assert.Equal(t, domain.VisibilityPrivate, task.Visibility)
	assert.Equal(t, 1, f.api.CallCount("ChangeVisibility(1,Private)"))
}

func TestEditor_ResultAfterCloseDiscarded(t *testing.T) {
	f := newFixture(t)
	e := openEditor(t, f, 1)

	ticket, err := e.PrepareMutation()
	require.NoError(t, err)
	res := e.ChangePriority(context.Background(), ticket, domain.PriorityHigh)
	e.Close()

	assert.False(t, e.ApplyTask(res))
	// The shared cache still took the server copy.
	cached, _ := f.store.Task(1)
	assert.Equal(t, domain.PriorityHigh, cached.Priority)
}

func TestEditor_TransitionsFromWrongState(t *testing.T) {
	f := newFixture(t)
	e := NewEditor(f.repo, f.store, nil)

	assert.ErrorIs(t, e.BeginEdit(), domain.ErrInvalidTransition)
	_, err := e.Save()
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = e.PrepareMutation()
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, "closed", e.State().String())
}
