package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/testutil"
)

func TestWatch_Execute(t *testing.T) {
	// Setup
	api := testutil.NewMockAPI()
	seedBoard(api)
	sched := &testutil.MockScheduler{}
	uc := NewWatch(NewShowBoard(newTestRepo(api), &testutil.MockSessionStore{}, newTestClock()), sched, domain.NopLogger{})

	var mu sync.Mutex
	var totals []int
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Execute
	out, err := uc.Execute(ctx, WatchInput{
		Schedule: "*/5 * * * *",
		OnTick: func(out *ShowBoardOutput, err error) {
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				totals = append(totals, out.Board.Total())
			}
		},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, out.Ticks, "one immediate reload")
	assert.Equal(t, []string{"*/5 * * * *"}, sched.Specs)
	assert.True(t, sched.Started)
	assert.True(t, sched.Stopped)

	api.AddTask(domain.Task{ID: 4, TaskID: "OPS-2", TaskName: "More", Priority: domain.PriorityHigh, Visibility: domain.VisibilityPublic})
	sched.Fire()
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{2, 3}, totals)
}

func TestWatch_Execute_DefaultSchedule(t *testing.T) {
	sched := &testutil.MockScheduler{}
	uc := NewWatch(NewShowBoard(newTestRepo(testutil.NewMockAPI()), &testutil.MockSessionStore{}, newTestClock()), sched, domain.NopLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.Execute(ctx, WatchInput{})

	require.NoError(t, err)
	assert.Equal(t, []string{domain.DefaultWatchSchedule}, sched.Specs)
}

func TestWatch_Execute_ReloadFailureKeepsWatching(t *testing.T) {
	api := testutil.NewMockAPI()
	api.ListErr = domain.ErrTransport
	logger := &testutil.MockLogger{}
	uc := NewWatch(NewShowBoard(newTestRepo(api), &testutil.MockSessionStore{}, newTestClock()), &testutil.MockScheduler{}, logger)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var gotErr error
	out, err := uc.Execute(ctx, WatchInput{OnTick: func(_ *ShowBoardOutput, err error) { gotErr = err }})

	require.NoError(t, err)
	assert.Equal(t, 1, out.Ticks)
	assert.ErrorIs(t, gotErr, domain.ErrTransport)
	assert.True(t, logger.Contains("reload failed"))
}

func TestWatch_Execute_InvalidSchedule(t *testing.T) {
	api := testutil.NewMockAPI()
	sched := &testutil.MockScheduler{ScheduleErr: domain.ErrInvalidSchedule}
	uc := NewWatch(NewShowBoard(newTestRepo(api), &testutil.MockSessionStore{}, newTestClock()), sched, domain.NopLogger{})

	_, err := uc.Execute(context.Background(), WatchInput{Schedule: "nonsense"})

	assert.ErrorIs(t, err, domain.ErrInvalidSchedule)
	assert.Empty(t, api.RecordedCalls())
	assert.False(t, sched.Started)
}
