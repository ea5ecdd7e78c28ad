package board

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/store"
)

// EditorState is the overlay lifecycle state.
type EditorState int

// Overlay states.
const (
	EditorClosed EditorState = iota
	EditorLoading
	EditorViewing
	EditorEditing
)

// String returns the state name.
func (s EditorState) String() string {
	switch s {
	case EditorClosed:
		return "closed"
	case EditorLoading:
		return "loading"
	case EditorViewing:
		return "viewing"
	case EditorEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// TaskLoader is the repository surface the overlay needs.
// store.Repository implements it.
type TaskLoader interface {
	LoadOne(ctx context.Context, id int) (*domain.Task, error)
	LoadAssignees(ctx context.Context, taskID int) ([]domain.Assignee, error)
	Update(ctx context.Context, task domain.Task) (*domain.Task, error)
	ChangePriority(ctx context.Context, id int, priority domain.Priority) (*domain.Task, error)
	ChangeVisibility(ctx context.Context, id int, visibility domain.Visibility) (*domain.Task, error)
}

// Ticket identifies one opening of the overlay. Results carrying an older
// ticket are discarded.
type Ticket struct {
	TaskID  int
	session uint64
}

// LoadResult carries the task and assignees fetched for a Ticket.
type LoadResult struct {
	Err       error
	Task      *domain.Task
	Assignees []domain.Assignee
	Ticket    Ticket
}

// ResultKind says which overlay action produced a TaskResult.
type ResultKind int

// Result kinds.
const (
	ResultSave ResultKind = iota
	ResultPriority
	ResultVisibility
)

// TaskResult carries the server copy returned by an overlay mutation.
type TaskResult struct {
	Err    error
	Task   *domain.Task
	Ticket Ticket
	Kind   ResultKind
}

// SaveRequest is a validated edit ready to be committed.
type SaveRequest struct {
	Task   domain.Task
	Ticket Ticket
}

// Draft field names accepted by SetField.
const (
	FieldTaskID         = "task_id"
	FieldTaskName       = "task_name"
	FieldAskDescription = "ask_description"
	FieldStatus         = "status"
	FieldDueDate        = "due_date"
	FieldTags           = "tags"
)

// DraftFields lists the editable fields in tab order.
func DraftFields() []string {
	return []string{FieldTaskID, FieldTaskName, FieldAskDescription, FieldStatus, FieldDueDate, FieldTags}
}

// Editor is the task detail/editor overlay. Like Reconciler, its state
// methods belong to the TUI update loop; Fetch, Commit, ChangePriority and
// ToggleVisibility only use the repository and may run in a tea.Cmd.
// Fields are ordered to minimize memory padding.
type Editor struct {
	repo      TaskLoader
	store     *store.Store
	logger    domain.Logger
	err       error
	fieldErrs domain.FieldErrors
	assignees []domain.Assignee
	draft     domain.TaskForm
	loaded    domain.Task
	session   uint64
	taskID    int
	state     EditorState
	busy      bool
}

// NewEditor creates a closed overlay.
func NewEditor(repo TaskLoader, s *store.Store, logger domain.Logger) *Editor {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Editor{repo: repo, store: s, logger: logger}
}

// State returns the overlay state.
func (e *Editor) State() EditorState { return e.state }

// Busy reports whether a mutation started from the overlay is in flight.
func (e *Editor) Busy() bool { return e.busy }

// Err returns the last load or save error for display.
func (e *Editor) Err() error { return e.err }

// FieldErrors returns validation errors from the last Save.
func (e *Editor) FieldErrors() domain.FieldErrors { return e.fieldErrs }

// TaskID returns the task the overlay is open on, or 0 when closed.
func (e *Editor) TaskID() int {
	if e.state == EditorClosed {
		return 0
	}
	return e.taskID
}

// Ticket returns the current session ticket.
func (e *Editor) Ticket() Ticket {
	return Ticket{TaskID: e.taskID, session: e.session}
}

// Open starts a new overlay session in the Loading state.
func (e *Editor) Open(taskID int) Ticket {
	e.session++
	e.taskID = taskID
	e.state = EditorLoading
	e.loaded = domain.Task{}
	e.assignees = nil
	e.draft = domain.TaskForm{}
	e.err = nil
	e.fieldErrs = nil
	e.busy = false
	return e.Ticket()
}

// Close ends the session. Results still in flight will be discarded.
func (e *Editor) Close() {
	e.session++
	e.state = EditorClosed
	e.taskID = 0
	e.busy = false
	e.err = nil
	e.fieldErrs = nil
}

func (e *Editor) current(t Ticket) bool {
	return e.state != EditorClosed && t.session == e.session && t.TaskID == e.taskID
}

// Fetch loads the task and its assignees.
func (e *Editor) Fetch(ctx context.Context, t Ticket) LoadResult {
	task, err := e.repo.LoadOne(ctx, t.TaskID)
	if err != nil {
		return LoadResult{Ticket: t, Err: err}
	}
	assignees, err := e.repo.LoadAssignees(ctx, t.TaskID)
	if err != nil {
		return LoadResult{Ticket: t, Task: task, Err: err}
	}
	return LoadResult{Ticket: t, Task: task, Assignees: assignees}
}

// ApplyLoad moves Loading to Viewing. It returns false if the result is stale.
func (e *Editor) ApplyLoad(r LoadResult) bool {
	if !e.current(r.Ticket) {
		e.logger.Debug(r.Ticket.TaskID, "overlay", "discarding stale load")
		return false
	}
	if r.Err != nil {
		e.err = r.Err
		return true
	}
	e.loaded = r.Task.Clone()
	e.assignees = slices.Clone(r.Assignees)
	e.err = nil
	if e.state == EditorLoading {
		e.state = EditorViewing
	}
	return true
}

// Task returns the task shown by the overlay. The shared cache wins over the
// copy fetched on open, so changes made elsewhere are reflected.
func (e *Editor) Task() (domain.Task, bool) {
	if e.state != EditorViewing && e.state != EditorEditing {
		return domain.Task{}, false
	}
	if e.store != nil {
		if t, ok := e.store.Task(e.taskID); ok {
			return t, true
		}
	}
	return e.loaded.Clone(), true
}

// Assignees returns the assignees fetched on open.
func (e *Editor) Assignees() []domain.Assignee {
	return slices.Clone(e.assignees)
}

// BeginEdit stages a draft from the current task.
func (e *Editor) BeginEdit() error {
	if e.state != EditorViewing {
		return fmt.Errorf("edit while %s: %w", e.state, domain.ErrInvalidTransition)
	}
	t, _ := e.Task()
	e.draft = domain.FormFromTask(t)
	e.fieldErrs = nil
	e.state = EditorEditing
	return nil
}

// Draft returns a copy of the staged edits.
func (e *Editor) Draft() domain.TaskForm {
	d := e.draft
	d.Tags = slices.Clone(d.Tags)
	return d
}

// DraftValue returns one draft field as text.
func (e *Editor) DraftValue(field string) string {
	switch field {
	case FieldTaskID:
		return e.draft.TaskID
	case FieldTaskName:
		return e.draft.TaskName
	case FieldAskDescription:
		return e.draft.AskDescription
	case FieldStatus:
		return e.draft.Status
	case FieldDueDate:
		return e.draft.DueDate
	case FieldTags:
		return strings.Join(e.draft.Tags, ", ")
	default:
		return ""
	}
}

// SetField stages one field edit.
func (e *Editor) SetField(field, value string) error {
	if e.state != EditorEditing {
		return fmt.Errorf("set %s while %s: %w", field, e.state, domain.ErrInvalidTransition)
	}
	switch field {
	case FieldTaskID:
		e.draft.TaskID = value
	case FieldTaskName:
		e.draft.TaskName = value
	case FieldAskDescription:
		e.draft.AskDescription = value
	case FieldStatus:
		e.draft.Status = value
	case FieldDueDate:
		e.draft.DueDate = value
	case FieldTags:
		e.draft.Tags = domain.SplitTags(value)
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// CancelEdit discards the draft.
func (e *Editor) CancelEdit() {
	if e.state == EditorEditing {
		e.state = EditorViewing
		e.draft = domain.TaskForm{}
		e.fieldErrs = nil
	}
}

// Save validates the draft. Validation failures are returned as
// domain.FieldErrors and no request is produced.
// Priority and visibility are taken from the current task, since they are
// changed through their own actions.
func (e *Editor) Save() (SaveRequest, error) {
	if e.state != EditorEditing {
		return SaveRequest{}, fmt.Errorf("save while %s: %w", e.state, domain.ErrInvalidTransition)
	}
	cur, _ := e.Task()
	form := e.draft
	form.Priority = string(cur.Priority)
	form.Visibility = string(cur.Visibility)

	task, err := form.Validate()
	if err != nil {
		var fe domain.FieldErrors
		if errors.As(err, &fe) {
			e.fieldErrs = fe
		}
		return SaveRequest{}, err
	}
	task.ID = cur.ID
	e.fieldErrs = nil
	e.busy = true
	return SaveRequest{Ticket: e.Ticket(), Task: task}, nil
}

// Commit sends a validated edit.
func (e *Editor) Commit(ctx context.Context, req SaveRequest) TaskResult {
	task, err := e.repo.Update(ctx, req.Task)
	return TaskResult{Ticket: req.Ticket, Kind: ResultSave, Task: task, Err: err}
}

// PrepareMutation marks the overlay busy and returns the ticket to pass to
// ChangePriority or ToggleVisibility.
func (e *Editor) PrepareMutation() (Ticket, error) {
	if e.state != EditorViewing && e.state != EditorEditing {
		return Ticket{}, fmt.Errorf("change task while %s: %w", e.state, domain.ErrInvalidTransition)
	}
	e.busy = true
	return e.Ticket(), nil
}

// ChangePriority moves the task through the repository, which updates the shared cache.
func (e *Editor) ChangePriority(ctx context.Context, t Ticket, p domain.Priority) TaskResult {
	task, err := e.repo.ChangePriority(ctx, t.TaskID, p)
	return TaskResult{Ticket: t, Kind: ResultPriority, Task: task, Err: err}
}

// ToggleVisibility flips the task's visibility through the repository.
func (e *Editor) ToggleVisibility(ctx context.Context, t Ticket, current domain.Visibility) TaskResult {
	task, err := e.repo.ChangeVisibility(ctx, t.TaskID, current.Toggle())
	return TaskResult{Ticket: t, Kind: ResultVisibility, Task: task, Err: err}
}

// ApplyTask records a mutation result. A successful save returns to Viewing;
// a failed one keeps the draft. Stale results return false.
func (e *Editor) ApplyTask(r TaskResult) bool {
	if !e.current(r.Ticket) {
		e.logger.Debug(r.Ticket.TaskID, "overlay", "discarding stale result")
		return false
	}
	e.busy = false
	if r.Err != nil {
		e.err = r.Err
		return true
	}
	e.err = nil
	if r.Task != nil {
		e.loaded = r.Task.Clone()
	}
	if r.Kind == ResultSave && e.state == EditorEditing {
		e.state = EditorViewing
		e.draft = domain.TaskForm{}
	}
	return true
}
