// Package scheduler runs recurring jobs on cron specs.
package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/runoshun/taskdesk/internal/domain"
)

// Ensure Scheduler implements domain.Scheduler.
var _ domain.Scheduler = (*Scheduler)(nil)

// Scheduler wraps a cron runner. Overlapping runs of the same job are skipped.
type Scheduler struct {
	cron *cron.Cron
}

// New creates a Scheduler accepting standard five-field specs and
// descriptors such as "@every 30s" or "@hourly".
func New(loc *time.Location, logger domain.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = domain.NopLogger{}
	}
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}
}

// Validate reports whether spec parses.
func Validate(spec string) error {
	if _, err := cron.ParseStandard(strings.TrimSpace(spec)); err != nil {
		return fmt.Errorf("%w: %q: %v", domain.ErrInvalidSchedule, spec, err)
	}
	return nil
}

// Schedule registers job under spec.
func (s *Scheduler) Schedule(spec string, job func()) error {
	if err := Validate(spec); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(strings.TrimSpace(spec), job); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidSchedule, err)
	}
	return nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// cronLogger forwards cron's diagnostics to domain.Logger.
type cronLogger struct {
	logger domain.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(0, "cron", formatKV(msg, keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(0, "cron", formatKV(msg+": "+err.Error(), keysAndValues))
}

func formatKV(msg string, kv []any) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	return b.String()
}
