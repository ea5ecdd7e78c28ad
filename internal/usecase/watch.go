package usecase

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/runoshun/taskdesk/internal/domain"
)

// WatchInput configures a watch run.
type WatchInput struct {
	// OnTick receives each reload. err is set when the reload failed;
	// the watch keeps running.
	OnTick   func(out *ShowBoardOutput, err error)
	Schedule string
}

// WatchOutput reports how many reloads ran.
type WatchOutput struct {
	Ticks int
}

// Watch reloads the board on a schedule until the context is cancelled.
type Watch struct {
	board     *ShowBoard
	scheduler domain.Scheduler
	logger    domain.Logger
}

// NewWatch creates a new Watch use case.
func NewWatch(board *ShowBoard, scheduler domain.Scheduler, logger domain.Logger) *Watch {
	return &Watch{board: board, scheduler: scheduler, logger: logger}
}

// Execute reloads once immediately, then on every scheduled tick.
// It blocks until ctx is done.
func (uc *Watch) Execute(ctx context.Context, in WatchInput) (*WatchOutput, error) {
	spec := strings.TrimSpace(in.Schedule)
	if spec == "" {
		spec = domain.DefaultWatchSchedule
	}

	var ticks atomic.Int64
	tick := func() {
		ticks.Add(1)
		out, err := uc.board.Execute(ctx, ShowBoardInput{})
		if err != nil {
			uc.logger.Warn(0, "watch", "reload failed: "+err.Error())
		}
		if in.OnTick != nil {
			in.OnTick(out, err)
		}
	}

	if err := uc.scheduler.Schedule(spec, tick); err != nil {
		return nil, err
	}
	uc.logger.Info(0, "watch", "watching with schedule "+spec)

	tick()
	uc.scheduler.Start()
	<-ctx.Done()
	uc.scheduler.Stop()

	return &WatchOutput{Ticks: int(ticks.Load())}, nil
}
