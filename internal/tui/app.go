package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/taskdesk/internal/app"
	"github.com/runoshun/taskdesk/internal/board"
	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/store"
	"github.com/runoshun/taskdesk/internal/usecase"
)

// draftField is one single-line input of the edit form.
type draftField struct {
	name  string
	label string
	input textinput.Model
}

// Model is the main bubbletea model for the TUI.
type Model struct {
	// Dependencies (pointers first for alignment)
	container  *app.Container
	store      *store.Store
	reconciler *board.Reconciler
	editor     *board.Editor
	err        error

	changes     <-chan struct{}
	unsubscribe func()

	// Edit form
	fields []draftField

	// Components
	keys    KeyMap
	styles  Styles
	help    help.Model
	spinner spinner.Model
	desc    textarea.Model

	viewer  domain.Viewer
	status  string
	refresh time.Duration

	// Numeric state (smaller types last)
	width      int
	height     int
	col        int
	rows       [3]int
	fieldIdx   int
	pickerIdx  int
	loading    bool
	showPicker bool
	showHelp   bool
}

// New creates a new TUI Model with the given container.
func New(c *app.Container) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	desc := textarea.New()
	desc.Placeholder = "Description"
	desc.ShowLineNumbers = false
	desc.SetHeight(5)
	desc.CharLimit = 4000

	labels := map[string]string{
		board.FieldTaskID:   "Code",
		board.FieldTaskName: "Name",
		board.FieldStatus:   "Status",
		board.FieldDueDate:  "Due",
		board.FieldTags:     "Tags",
	}
	var fields []draftField
	for _, name := range board.DraftFields() {
		if name == board.FieldAskDescription {
			fields = append(fields, draftField{name: name, label: "Description"})
			continue
		}
		ti := textinput.New()
		ti.CharLimit = 200
		ti.Placeholder = labels[name]
		fields = append(fields, draftField{name: name, label: labels[name], input: ti})
	}

	m := &Model{
		container: c,
		keys:      DefaultKeyMap(),
		styles:    DefaultStyles(),
		help:      help.New(),
		spinner:   sp,
		desc:      desc,
		fields:    fields,
		loading:   true,
	}
	if c != nil {
		m.store = c.Store()
		m.reconciler = c.NewReconciler()
		m.editor = c.NewEditor()
		m.refresh = c.RefreshInterval()
		m.changes, m.unsubscribe = m.store.Subscribe()
	}
	return m
}

// Init initializes the model and returns the initial command.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadBoard(), m.waitForChange(), m.spinner.Tick}
	if m.refresh > 0 {
		cmds = append(cmds, m.scheduleRefresh())
	}
	return tea.Batch(cmds...)
}

// Mode returns the current UI mode derived from the overlay and drag state.
func (m *Model) Mode() Mode {
	switch {
	case m.showHelp:
		return ModeHelp
	case m.showPicker:
		return ModePicker
	}
	if m.editor != nil {
		switch m.editor.State() {
		case board.EditorEditing:
			return ModeEdit
		case board.EditorLoading, board.EditorViewing:
			return ModeOverlay
		}
	}
	if m.reconciler != nil && m.reconciler.State() == board.DragDragging {
		return ModeDrag
	}
	return ModeBoard
}

// loadBoard returns a command that reloads every task and the viewer.
func (m *Model) loadBoard() tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.ShowBoardUseCase().Execute(context.Background(), usecase.ShowBoardInput{})
		if err != nil {
			return MsgBoardLoaded{Err: err}
		}
		return MsgBoardLoaded{Viewer: out.Viewer}
	}
}

// waitForChange blocks until the cache changes. It returns nil once unsubscribed.
func (m *Model) waitForChange() tea.Cmd {
	ch := m.changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return MsgStoreChanged{}
	}
}

func (m *Model) scheduleRefresh() tea.Cmd {
	return tea.Tick(m.refresh, func(time.Time) tea.Msg {
		return MsgRefreshTick{}
	})
}

// commitDrop sends the remote priority change for a drop.
func (m *Model) commitDrop(in *board.Intent) tea.Cmd {
	return func() tea.Msg {
		return MsgDropSettled{Outcome: m.reconciler.Commit(context.Background(), in)}
	}
}

// fetchOverlay loads the task and assignees for an overlay opening.
func (m *Model) fetchOverlay(t board.Ticket) tea.Cmd {
	return func() tea.Msg {
		return MsgOverlayLoaded{Result: m.editor.Fetch(context.Background(), t)}
	}
}

func (m *Model) commitSave(req board.SaveRequest) tea.Cmd {
	return func() tea.Msg {
		return MsgOverlayResult{Result: m.editor.Commit(context.Background(), req)}
	}
}

func (m *Model) changePriority(t board.Ticket, p domain.Priority) tea.Cmd {
	return func() tea.Msg {
		return MsgOverlayResult{Result: m.editor.ChangePriority(context.Background(), t, p)}
	}
}

func (m *Model) toggleVisibility(t board.Ticket, current domain.Visibility) tea.Cmd {
	return func() tea.Msg {
		return MsgOverlayResult{Result: m.editor.ToggleVisibility(context.Background(), t, current)}
	}
}

// Board returns the current projection of the cache.
func (m *Model) Board() domain.Board {
	if m.store == nil {
		return domain.Board{}
	}
	return m.store.Board()
}

// SelectedTask returns the focused card, or nil if the focused column is empty.
func (m *Model) SelectedTask() *domain.Task {
	b := m.Board()
	col := b.Columns[m.col]
	row := m.rows[m.col]
	if row < 0 || row >= col.Len() {
		return nil
	}
	t := col.Tasks[row]
	return &t
}

// clampRows keeps each column's cursor on an existing card.
func (m *Model) clampRows() {
	b := m.Board()
	for i, col := range b.Columns {
		switch {
		case col.Len() == 0:
			m.rows[i] = 0
		case m.rows[i] >= col.Len():
			m.rows[i] = col.Len() - 1
		case m.rows[i] < 0:
			m.rows[i] = 0
		}
	}
}

// focusTask moves the cursor onto a task if it is on the board.
func (m *Model) focusTask(taskID int) {
	b := m.Board()
	if col, row, ok := b.Find(taskID); ok {
		m.col = col
		m.rows[col] = row
	}
}

// close releases the cache subscription.
func (m *Model) close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}
