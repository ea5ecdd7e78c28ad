package board

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/store"
	"github.com/runoshun/taskdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	api   *testutil.MockAPI
	store *store.Store
	repo  *store.Repository
	rec   *Reconciler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	api := testutil.NewMockAPI()
	api.AddTask(domain.Task{ID: 1, TaskName: "one", Priority: domain.PriorityMedium, Visibility: domain.VisibilityPublic})
	api.AddTask(domain.Task{ID: 2, TaskName: "two", Priority: domain.PriorityHigh, Visibility: domain.VisibilityPublic})

	s := store.New(nil)
	repo := store.NewRepository(api, s, nil)
	_, err := repo.LoadAll(context.Background())
	require.NoError(t, err)

	return &fixture{api: api, store: s, repo: repo, rec: NewReconciler(s, repo, nil)}
}

func (f *fixture) priority(t *testing.T, id int) domain.Priority {
	t.Helper()
	task, ok := f.store.Task(id)
	require.True(t, ok)
	return task.Priority
}

func TestReconciler_DropOnOtherColumn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.rec.Pick(1))
	assert.Equal(t, DragDragging, f.rec.State())
	assert.Equal(t, domain.PriorityMedium, f.rec.Target())

	intent, err := f.rec.Drop(domain.PriorityHigh)
	require.NoError(t, err)
	require.NotNil(t, intent)
	assert.Equal(t, DragReconciling, f.rec.State())

	// Optimistic: visible before the server answers.
	assert.Equal(t, domain.PriorityHigh, f.priority(t, 1))
	assert.True(t, f.store.IsPending(1))
	assert.Equal(t, 0, f.api.CallCount("ChangePriority"))

	require.NoError(t, f.rec.Settle(f.rec.Commit(ctx, intent)))

	assert.Equal(t, DragIdle, f.rec.State())
	assert.Equal(t, domain.PriorityHigh, f.priority(t, 1))
	assert.False(t, f.store.IsPending(1))
	assert.Equal(t, []string{"ListTasks", "ChangePriority(1,High)"}, f.api.RecordedCalls())
}

func TestReconciler_FailureRestoresPreDragPriority(t *testing.T) {
	f := newFixture(t)
	f.api.ChangePriorityErr = domain.ErrTransport

	require.NoError(t, f.rec.Pick(1))
	intent, err := f.rec.Drop(domain.PriorityHigh)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, f.priority(t, 1))

	err = f.rec.Settle(f.rec.Commit(context.Background(), intent))

	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Equal(t, domain.PriorityMedium, f.priority(t, 1))
	assert.Equal(t, DragIdle, f.rec.State())
	assert.Equal(t, 1, f.api.CallCount("ChangePriority(1,High)"))
}

func TestReconciler_SameColumnIsNoop(t *testing.T) {
	f := newFixture(t)
	gen := f.store.Generation(1)

	require.NoError(t, f.rec.Pick(1))
	intent, err := f.rec.Drop(domain.PriorityMedium)

	require.NoError(t, err)
	assert.Nil(t, intent)
	assert.Equal(t, DragIdle, f.rec.State())
	assert.Equal(t, gen, f.store.Generation(1))
	assert.Equal(t, 0, f.api.CallCount("ChangePriority"))
}

func TestReconciler_DropOutsideAndCancel(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.rec.Pick(1))
	intent, err := f.rec.Drop("")
	require.NoError(t, err)
	assert.Nil(t, intent)
	assert.Equal(t, DragIdle, f.rec.State())

	require.NoError(t, f.rec.Pick(2))
	require.NoError(t, f.rec.Aim(domain.PriorityNormal))
	f.rec.Cancel()
	assert.Equal(t, DragIdle, f.rec.State())
	assert.Equal(t, 0, f.rec.TaskID())
	assert.Equal(t, domain.PriorityHigh, f.priority(t, 2))
	assert.Equal(t, 0, f.api.CallCount("ChangePriority"))
}

func TestReconciler_InvalidTransitions(t *testing.T) {
	f := newFixture(t)

	_, err := f.rec.Drop(domain.PriorityHigh)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.ErrorIs(t, f.rec.Aim(domain.PriorityHigh), domain.ErrInvalidTransition)
	assert.ErrorIs(t, f.rec.Pick(99), domain.ErrTaskNotFound)

	require.NoError(t, f.rec.Pick(1))
	assert.ErrorIs(t, f.rec.Pick(2), domain.ErrInvalidTransition)

	_, err = f.rec.Drop(domain.PriorityNormal)
	require.NoError(t, err)
	assert.ErrorIs(t, f.rec.Pick(1), domain.ErrInvalidTransition, "task 1 is still saving")
}

func TestReconciler_DragWhileAnotherMoveSaves(t *testing.T) {
	for _, order := range []string{"first-settles-first", "second-settles-first"} {
		t.Run(order, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			require.NoError(t, f.rec.Pick(1))
			first, err := f.rec.Drop(domain.PriorityNormal)
			require.NoError(t, err)
			assert.Equal(t, DragReconciling, f.rec.State())

			require.NoError(t, f.rec.Pick(2), "another card can be picked while task 1 saves")
			assert.Equal(t, DragDragging, f.rec.State())
			second, err := f.rec.Drop(domain.PriorityMedium)
			require.NoError(t, err)
			assert.Equal(t, 2, f.rec.InFlight())
			assert.True(t, f.store.IsPending(1))
			assert.True(t, f.store.IsPending(2))

			f.api.ChangePriorityErr = domain.ErrServer
			firstOut := f.rec.Commit(ctx, first)
			f.api.ChangePriorityErr = nil
			secondOut := f.rec.Commit(ctx, second)

			if order == "first-settles-first" {
				assert.ErrorIs(t, f.rec.Settle(firstOut), domain.ErrServer)
				assert.Equal(t, DragReconciling, f.rec.State())
				require.NoError(t, f.rec.Settle(secondOut))
			} else {
				require.NoError(t, f.rec.Settle(secondOut))
				assert.True(t, f.rec.IsInFlight(1))
				assert.ErrorIs(t, f.rec.Settle(firstOut), domain.ErrServer)
			}

			assert.Equal(t, DragIdle, f.rec.State())
			assert.Zero(t, f.rec.InFlight())
			assert.Equal(t, domain.PriorityMedium, f.priority(t, 1), "failed move rolled back")
			assert.Equal(t, domain.PriorityMedium, f.priority(t, 2), "successful move kept")
			assert.False(t, f.store.IsPending(1))
			assert.False(t, f.store.IsPending(2))
		})
	}
}

func TestReconciler_RepickAfterSettle(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.rec.Pick(1))
	intent, err := f.rec.Drop(domain.PriorityHigh)
	require.NoError(t, err)
	require.ErrorIs(t, f.rec.Pick(1), domain.ErrInvalidTransition)

	require.NoError(t, f.rec.Settle(f.rec.Commit(context.Background(), intent)))

	assert.NoError(t, f.rec.Pick(1))
}

func TestReconciler_FailureAfterNewerWriteKeepsNewer(t *testing.T) {
	f := newFixture(t)
	f.api.ChangePriorityErr = errors.New("rejected")

	require.NoError(t, f.rec.Pick(1))
	intent, err := f.rec.Drop(domain.PriorityHigh)
	require.NoError(t, err)

	// A refresh lands while the change is in flight.
	require.NoError(t, f.store.Put(domain.Task{ID: 1, TaskName: "one", Priority: domain.PriorityNormal}))

	err = f.rec.Settle(f.rec.Commit(context.Background(), intent))
	require.Error(t, err)
	assert.Equal(t, domain.PriorityNormal, f.priority(t, 1))
}

func TestReconciler_CommitOffLoop(t *testing.T) {
	f := newFixture(t)
	gate := make(chan struct{})
	f.api.ChangePriorityGate = gate

	require.NoError(t, f.rec.Pick(1))
	intent, err := f.rec.Drop(domain.PriorityNormal)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var out Outcome
	wg.Add(1)
	go func() {
		defer wg.Done()
		out = f.rec.Commit(context.Background(), intent)
	}()

	// The board already shows the new column while the request is blocked.
	assert.Equal(t, 1, f.store.Board().Column(domain.PriorityNormal).Len())
	close(gate)
	wg.Wait()

	require.NoError(t, f.rec.Settle(out))
	assert.Equal(t, domain.PriorityNormal, f.priority(t, 1))
}

func TestReconciler_Move(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.rec.Move(ctx, 2, domain.PriorityMedium)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityMedium, task.Priority)

	task, err = f.rec.Move(ctx, 2, domain.PriorityMedium)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityMedium, task.Priority)
	assert.Equal(t, 1, f.api.CallCount("ChangePriority"))

	_, err = f.rec.Move(ctx, 2, "Sideways")
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
	assert.Equal(t, DragIdle, f.rec.State())
}

func TestDragState_String(t *testing.T) {
	assert.Equal(t, "idle", DragIdle.String())
	assert.Equal(t, "dragging", DragDragging.String())
	assert.Equal(t, "reconciling", DragReconciling.String())
}
