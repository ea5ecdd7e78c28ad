package store

import (
	"errors"
	"testing"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(s *Store) {
	s.ReplaceAll([]domain.Task{
		{ID: 1, TaskName: "one", Priority: domain.PriorityMedium, Visibility: domain.VisibilityPublic},
		{ID: 2, TaskName: "two", Priority: domain.PriorityHigh, Visibility: domain.VisibilityPublic},
	})
}

func TestStore_ReplaceAllRejectsUnknownPriority(t *testing.T) {
	logger := &testutil.MockLogger{}
	s := New(logger)

	dropped := s.ReplaceAll([]domain.Task{
		{ID: 1, Priority: domain.PriorityHigh},
		{ID: 2, Priority: "Someday"},
		{ID: 3, Priority: domain.PriorityNormal},
	})

	assert.Equal(t, 1, dropped)
	assert.Equal(t, 2, s.Len())
	_, ok := s.Task(2)
	assert.False(t, ok)
	assert.True(t, logger.Contains(`"Someday"`))
}

func TestStore_SnapshotsAreCopies(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Put(domain.Task{ID: 1, Priority: domain.PriorityHigh, Tags: []string{"a"}}))

	tasks := s.Tasks()
	tasks[0].Priority = domain.PriorityNormal
	tasks[0].Tags[0] = "changed"

	got, ok := s.Task(1)
	require.True(t, ok)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	assert.Equal(t, []string{"a"}, got.Tags)
}

func TestStore_PutKeepsOrder(t *testing.T) {
	s := New(nil)
	seed(s)
	require.NoError(t, s.Put(domain.Task{ID: 3, Priority: domain.PriorityNormal}))
	require.NoError(t, s.Put(domain.Task{ID: 1, TaskName: "renamed", Priority: domain.PriorityMedium}))

	ids := []int{}
	for _, task := range s.Tasks() {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []int{1, 2, 3}, ids)

	err := s.Put(domain.Task{ID: 4, Priority: "Low-ish"})
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
}

func TestStore_Remove(t *testing.T) {
	s := New(nil)
	seed(s)
	s.SetAssignees(1, []domain.Assignee{{ID: 9, TaskID: 1}})

	s.Remove(1)

	_, ok := s.Task(1)
	assert.False(t, ok)
	_, loaded := s.Assignees(1)
	assert.False(t, loaded)
	assert.Equal(t, 1, s.Len())
}

func TestStore_SubscribeCoalesces(t *testing.T) {
	s := New(nil)
	ch, unsubscribe := s.Subscribe()

	seed(s)
	require.NoError(t, s.Put(domain.Task{ID: 3, Priority: domain.PriorityNormal}))
	s.Remove(2)

	select {
	case <-ch:
	default:
		t.Fatal("expected a notification")
	}
	select {
	case <-ch:
		t.Fatal("notifications should coalesce")
	default:
	}

	unsubscribe()
	unsubscribe()
	_, open := <-ch
	assert.False(t, open)

	// Writes after unsubscribe must not panic.
	s.Remove(3)
}

func TestStore_BoardUsesViewer(t *testing.T) {
	s := New(nil)
	s.ReplaceAll([]domain.Task{
		{ID: 1, Priority: domain.PriorityHigh, Visibility: domain.VisibilityPrivate},
		{ID: 2, Priority: domain.PriorityHigh, Visibility: domain.VisibilityPublic},
	})

	assert.Equal(t, 1, s.Board().Total())

	s.SetViewer("u-1", []int{1})
	assert.Equal(t, 2, s.Board().Total())
}

func TestOptimistic_SuccessTakesServerCopy(t *testing.T) {
	s := New(nil)
	seed(s)

	p, err := s.Optimistic(1, func(task *domain.Task) { task.Priority = domain.PriorityHigh })
	require.NoError(t, err)
	assert.True(t, s.IsPending(1))

	got, _ := s.Task(1)
	assert.Equal(t, domain.PriorityHigh, got.Priority)

	server := domain.Task{ID: 1, TaskName: "one (server)", Priority: domain.PriorityHigh}
	rolledBack := p.Resolve(&server, nil)

	assert.False(t, rolledBack)
	assert.False(t, s.IsPending(1))
	got, _ = s.Task(1)
	assert.Equal(t, "one (server)", got.TaskName)
}

func TestOptimistic_FailureRestoresSnapshot(t *testing.T) {
	s := New(nil)
	seed(s)

	p, err := s.Optimistic(1, func(task *domain.Task) { task.Priority = domain.PriorityHigh })
	require.NoError(t, err)

	rolledBack := p.Resolve(nil, errors.New("boom"))

	assert.True(t, rolledBack)
	got, _ := s.Task(1)
	assert.Equal(t, domain.PriorityMedium, got.Priority)
	assert.Equal(t, domain.PriorityMedium, p.Snapshot().Priority)

	// Second resolve is ignored.
	assert.False(t, p.Resolve(nil, errors.New("again")))
}

func TestOptimistic_NoRollbackOverNewerWrite(t *testing.T) {
	s := New(nil)
	seed(s)

	p, err := s.Optimistic(1, func(task *domain.Task) { task.Priority = domain.PriorityHigh })
	require.NoError(t, err)

	// A newer server response lands before the failure is reported.
	require.NoError(t, s.Put(domain.Task{ID: 1, TaskName: "fresh", Priority: domain.PriorityNormal}))

	rolledBack := p.Resolve(nil, errors.New("boom"))
	assert.False(t, rolledBack)
	got, _ := s.Task(1)
	assert.Equal(t, domain.PriorityNormal, got.Priority)
	assert.Equal(t, "fresh", got.TaskName)
}

func TestOptimistic_Errors(t *testing.T) {
	s := New(nil)
	seed(s)

	_, err := s.Optimistic(42, func(*domain.Task) {})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	gen := s.Generation(1)
	_, err = s.Optimistic(1, func(task *domain.Task) { task.Priority = "Urgent" })
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
	assert.Equal(t, gen, s.Generation(1), "rejected change must not write")
	assert.False(t, s.IsPending(1))
}
