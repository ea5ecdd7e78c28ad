// Package board holds the interaction state machines behind the task board:
// the drag-and-drop reconciler and the task detail overlay.
package board

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/store"
)

// DragState is the reconciler's gesture state.
type DragState int

// Drag states.
const (
	DragIdle DragState = iota
	DragDragging
	DragReconciling
)

// String returns the state name.
func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragDragging:
		return "dragging"
	case DragReconciling:
		return "reconciling"
	default:
		return "unknown"
	}
}

// PriorityChanger performs the remote priority change.
// store.Repository implements it.
type PriorityChanger interface {
	ChangePriority(ctx context.Context, id int, priority domain.Priority) (*domain.Task, error)
}

// Intent is a cross-column drop that has been applied optimistically.
type Intent struct {
	pending *store.Pending
	From    domain.Priority
	To      domain.Priority
	TaskID  int
}

// Outcome is the result of committing an Intent.
type Outcome struct {
	Err    error
	Intent *Intent
	Task   *domain.Task
}

// Reconciler turns drag gestures into priority changes.
// One gesture is active at a time, but any number of dropped moves may be
// in flight; a new card can be picked while earlier moves are still saving.
// Pick, Aim, Cancel, Drop and Settle must be called from one goroutine
// (the TUI update loop). Commit may run anywhere.
// Fields are ordered to minimize memory padding.
type Reconciler struct {
	store    *store.Store
	repo     PriorityChanger
	logger   domain.Logger
	inflight map[int]*Intent
	target   domain.Priority
	taskID   int
	dragging bool
}

// NewReconciler creates a Reconciler over the shared store.
func NewReconciler(s *store.Store, repo PriorityChanger, logger domain.Logger) *Reconciler {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Reconciler{store: s, repo: repo, logger: logger, inflight: make(map[int]*Intent)}
}

// State returns DragDragging during a gesture, otherwise DragReconciling
// while any dropped move is unsettled, otherwise DragIdle.
func (r *Reconciler) State() DragState {
	switch {
	case r.dragging:
		return DragDragging
	case len(r.inflight) > 0:
		return DragReconciling
	default:
		return DragIdle
	}
}

// InFlight returns the number of dropped moves awaiting Settle.
func (r *Reconciler) InFlight() int {
	return len(r.inflight)
}

// IsInFlight reports whether a dropped move of the task awaits Settle.
func (r *Reconciler) IsInFlight(taskID int) bool {
	_, ok := r.inflight[taskID]
	return ok
}

// TaskID returns the dragged task, or 0 when no gesture is active.
func (r *Reconciler) TaskID() int {
	if !r.dragging {
		return 0
	}
	return r.taskID
}

// Target returns the column currently aimed at while dragging.
func (r *Reconciler) Target() domain.Priority {
	return r.target
}

// Pick starts dragging a task. A task whose previous move is still in
// flight cannot be picked again until that move settles.
func (r *Reconciler) Pick(taskID int) error {
	if r.dragging {
		return fmt.Errorf("pick task %d while dragging task %d: %w", taskID, r.taskID, domain.ErrInvalidTransition)
	}
	if r.IsInFlight(taskID) {
		return fmt.Errorf("pick task %d while its move is saving: %w", taskID, domain.ErrInvalidTransition)
	}
	t, ok := r.store.Task(taskID)
	if !ok {
		return fmt.Errorf("pick task %d: %w", taskID, domain.ErrTaskNotFound)
	}
	r.dragging = true
	r.taskID = taskID
	r.target = t.Priority
	return nil
}

// Aim moves the drop target while dragging.
func (r *Reconciler) Aim(dest domain.Priority) error {
	if !r.dragging {
		return fmt.Errorf("aim while %s: %w", r.State(), domain.ErrInvalidTransition)
	}
	r.target = dest
	return nil
}

// Cancel abandons the drag without side effects.
func (r *Reconciler) Cancel() {
	if r.dragging {
		r.reset()
	}
}

// reset ends the gesture. In-flight moves are untouched.
func (r *Reconciler) reset() {
	r.dragging = false
	r.taskID = 0
	r.target = ""
}

// Drop ends the drag on dest. Dropping outside any column (an invalid
// priority) or on the task's current column returns a nil Intent and makes
// no change. Otherwise the new priority is applied to the cache at once and
// the returned Intent must be passed to Commit and then Settle.
func (r *Reconciler) Drop(dest domain.Priority) (*Intent, error) {
	if !r.dragging {
		return nil, fmt.Errorf("drop while %s: %w", r.State(), domain.ErrInvalidTransition)
	}
	taskID := r.taskID

	if !dest.IsValid() {
		r.reset()
		return nil, nil
	}
	cur, ok := r.store.Task(taskID)
	if !ok {
		r.reset()
		return nil, fmt.Errorf("drop task %d: %w", taskID, domain.ErrTaskNotFound)
	}
	if cur.Priority == dest {
		r.reset()
		return nil, nil
	}

	pending, err := r.store.Optimistic(taskID, func(t *domain.Task) { t.Priority = dest })
	r.reset()
	if err != nil {
		return nil, err
	}
	intent := &Intent{pending: pending, TaskID: taskID, From: cur.Priority, To: dest}
	r.inflight[taskID] = intent
	r.logger.Debug(taskID, "board", fmt.Sprintf("drop %s -> %s", cur.Priority, dest))
	return intent, nil
}

// Commit issues exactly one remote priority change for the intent.
// It does not touch reconciler state and is safe to run in a tea.Cmd.
func (r *Reconciler) Commit(ctx context.Context, in *Intent) Outcome {
	task, err := r.repo.ChangePriority(ctx, in.TaskID, in.To)
	return Outcome{Intent: in, Task: task, Err: err}
}

// Settle reconciles the cache with the commit outcome and forgets the move.
// Outcomes may arrive in any order. On failure the pre-drag priority is
// restored unless a newer write already replaced the task, and the error is
// returned.
func (r *Reconciler) Settle(o Outcome) error {
	in := o.Intent
	rolledBack := in.pending.Resolve(o.Task, o.Err)
	if r.inflight[in.TaskID] == in {
		delete(r.inflight, in.TaskID)
	}
	if o.Err != nil {
		if rolledBack {
			r.logger.Warn(in.TaskID, "board", fmt.Sprintf("move to %s failed, restored %s: %v", in.To, in.From, o.Err))
		}
		return fmt.Errorf("move task %d to %s: %w", in.TaskID, in.To, o.Err)
	}
	r.logger.Info(in.TaskID, "board", fmt.Sprintf("moved %s -> %s", in.From, in.To))
	return nil
}

// Move runs a whole gesture synchronously: pick, drop on dest, commit, settle.
// It returns the settled task as cached afterwards. A same-column move returns
// the cached task without a network call.
func (r *Reconciler) Move(ctx context.Context, taskID int, dest domain.Priority) (*domain.Task, error) {
	if err := r.Pick(taskID); err != nil {
		return nil, err
	}
	if !dest.IsValid() {
		r.Cancel()
		return nil, fmt.Errorf("move task %d: %w", taskID, domain.ErrInvalidPriority)
	}
	intent, err := r.Drop(dest)
	if err != nil {
		return nil, err
	}
	if intent != nil {
		if err := r.Settle(r.Commit(ctx, intent)); err != nil {
			return nil, err
		}
	}
	t, ok := r.store.Task(taskID)
	if !ok {
		return nil, fmt.Errorf("move task %d: %w", taskID, domain.ErrTaskNotFound)
	}
	return &t, nil
}
