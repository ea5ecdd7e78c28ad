package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/taskdesk/internal/board"
	"github.com/runoshun/taskdesk/internal/domain"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.desc.SetWidth(min(max(msg.Width-20, 20), 80))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case MsgBoardLoaded:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.viewer = msg.Viewer
		m.clampRows()
		return m, nil

	case MsgStoreChanged:
		m.clampRows()
		return m, m.waitForChange()

	case MsgDropSettled:
		return m.handleDropSettled(msg.Outcome)

	case MsgOverlayLoaded:
		m.editor.ApplyLoad(msg.Result)
		return m, nil

	case MsgOverlayResult:
		return m.handleOverlayResult(msg.Result)

	case MsgRefreshTick:
		return m, tea.Batch(m.loadBoard(), m.scheduleRefresh())

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.Mode() == ModeEdit {
		return m, m.updateFocusedInput(msg)
	}
	return m, nil
}

func (m *Model) handleDropSettled(o board.Outcome) (tea.Model, tea.Cmd) {
	err := m.reconciler.Settle(o)
	// A gesture in progress keeps the cursor on its target column
	if m.reconciler.State() != board.DragDragging {
		m.focusTask(o.Intent.TaskID)
	}
	if err != nil {
		m.err = err
		return m, nil
	}
	if t, ok := m.store.Task(o.Intent.TaskID); ok {
		m.status = fmt.Sprintf("Moved %s to %s", t.Label(), t.Priority.Display())
	}
	return m, nil
}

func (m *Model) handleOverlayResult(r board.TaskResult) (tea.Model, tea.Cmd) {
	wasEditing := m.editor.State() == board.EditorEditing
	if !m.editor.ApplyTask(r) {
		return m, nil
	}
	if r.Err != nil {
		m.err = r.Err
		return m, nil
	}
	if wasEditing && m.editor.State() == board.EditorViewing {
		m.blurFields()
	}
	t, ok := m.editor.Task()
	if !ok {
		return m, nil
	}
	switch r.Kind {
	case board.ResultSave:
		m.status = "Saved " + t.Label()
	case board.ResultPriority:
		m.status = fmt.Sprintf("Moved %s to %s", t.Label(), t.Priority.Display())
		m.focusTask(t.ID)
	case board.ResultVisibility:
		m.status = fmt.Sprintf("%s is now %s", t.Label(), t.Visibility)
	}
	return m, nil
}

// handleKeyMsg handles keyboard input.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Errors and notices last until the next key
	m.err = nil
	m.status = ""

	if msg.String() == "ctrl+c" {
		m.close()
		return m, tea.Quit
	}

	switch m.Mode() {
	case ModeHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Escape, m.keys.Quit) {
			m.showHelp = false
			m.help.ShowAll = false
		}
		return m, nil
	case ModeEdit:
		return m.handleEditMode(msg)
	case ModePicker:
		return m.handlePickerMode(msg)
	case ModeOverlay:
		return m.handleOverlayMode(msg)
	case ModeDrag:
		return m.handleDragMode(msg)
	default:
		return m.handleBoardMode(msg)
	}
}

func (m *Model) handleBoardMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.help.ShowAll = true
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.col < len(domain.Priorities())-1 {
			m.col++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.rows[m.col] > 0 {
			m.rows[m.col]--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.rows[m.col]++
		m.clampRows()
		return m, nil

	case key.Matches(msg, m.keys.Pick):
		t := m.SelectedTask()
		if t == nil {
			return m, nil
		}
		if err := m.reconciler.Pick(t.ID); err != nil {
			m.err = err
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		t := m.SelectedTask()
		if t == nil {
			return m, nil
		}
		ticket := m.editor.Open(t.ID)
		return m, tea.Batch(m.fetchOverlay(ticket), m.spinner.Tick)

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, tea.Batch(m.loadBoard(), m.spinner.Tick)
	}
	return m, nil
}

func (m *Model) handleDragMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left, m.keys.Right):
		idx := m.reconciler.Target().Index()
		if key.Matches(msg, m.keys.Left) {
			idx--
		} else {
			idx++
		}
		if idx >= 0 && idx < len(domain.Priorities()) {
			_ = m.reconciler.Aim(domain.PriorityAt(idx))
			m.col = idx
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		intent, err := m.reconciler.Drop(m.reconciler.Target())
		if err != nil {
			m.err = err
			return m, nil
		}
		if intent == nil {
			return m, nil
		}
		m.focusTask(intent.TaskID)
		return m, tea.Batch(m.commitDrop(intent), m.spinner.Tick)

	case key.Matches(msg, m.keys.Escape):
		id := m.reconciler.TaskID()
		m.reconciler.Cancel()
		m.focusTask(id)
		return m, nil

	case key.Matches(msg, m.keys.Quit):
		m.reconciler.Cancel()
		m.close()
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleOverlayMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) {
		m.editor.Close()
		return m, nil
	}
	if m.editor.State() != board.EditorViewing || m.editor.Busy() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Edit):
		if err := m.editor.BeginEdit(); err != nil {
			m.err = err
			return m, nil
		}
		return m, m.loadFields()

	case key.Matches(msg, m.keys.Priority):
		t, ok := m.editor.Task()
		if !ok {
			return m, nil
		}
		m.pickerIdx = max(t.Priority.Index(), 0)
		m.showPicker = true
		return m, nil

	case key.Matches(msg, m.keys.Visibility):
		t, ok := m.editor.Task()
		if !ok {
			return m, nil
		}
		ticket, err := m.editor.PrepareMutation()
		if err != nil {
			m.err = err
			return m, nil
		}
		return m, m.toggleVisibility(ticket, t.Visibility)

	case key.Matches(msg, m.keys.Quit):
		m.close()
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handlePickerMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	last := len(domain.Priorities()) - 1
	switch {
	case key.Matches(msg, m.keys.Left, m.keys.Up):
		if m.pickerIdx > 0 {
			m.pickerIdx--
		}
	case key.Matches(msg, m.keys.Right, m.keys.Down):
		if m.pickerIdx < last {
			m.pickerIdx++
		}
	case key.Matches(msg, m.keys.Escape):
		m.showPicker = false
	case key.Matches(msg, m.keys.Enter):
		m.showPicker = false
		t, ok := m.editor.Task()
		p := domain.PriorityAt(m.pickerIdx)
		if !ok || t.Priority == p {
			return m, nil
		}
		ticket, err := m.editor.PrepareMutation()
		if err != nil {
			m.err = err
			return m, nil
		}
		return m, m.changePriority(ticket, p)
	}
	return m, nil
}

func (m *Model) handleEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editor.Busy() {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.editor.CancelEdit()
		m.blurFields()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		if err := m.syncDraft(); err != nil {
			m.err = err
			return m, nil
		}
		req, err := m.editor.Save()
		if err != nil {
			m.err = err
			return m, nil
		}
		return m, m.commitSave(req)

	case key.Matches(msg, m.keys.NextField):
		return m, m.focusField((m.fieldIdx + 1) % len(m.fields))

	case key.Matches(msg, m.keys.PrevField):
		return m, m.focusField((m.fieldIdx + len(m.fields) - 1) % len(m.fields))
	}
	return m, m.updateFocusedInput(msg)
}

// loadFields copies the draft into the inputs and focuses the first one.
func (m *Model) loadFields() tea.Cmd {
	for i := range m.fields {
		f := &m.fields[i]
		if f.name == board.FieldAskDescription {
			m.desc.SetValue(m.editor.DraftValue(f.name))
			continue
		}
		f.input.SetValue(m.editor.DraftValue(f.name))
	}
	return m.focusField(0)
}

func (m *Model) focusField(idx int) tea.Cmd {
	m.blurFields()
	m.fieldIdx = idx
	f := &m.fields[idx]
	if f.name == board.FieldAskDescription {
		return m.desc.Focus()
	}
	return f.input.Focus()
}

func (m *Model) blurFields() {
	for i := range m.fields {
		m.fields[i].input.Blur()
	}
	m.desc.Blur()
}

// syncDraft stages every input value on the editor.
func (m *Model) syncDraft() error {
	for _, f := range m.fields {
		value := f.input.Value()
		if f.name == board.FieldAskDescription {
			value = m.desc.Value()
		}
		if err := m.editor.SetField(f.name, value); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f := &m.fields[m.fieldIdx]
	if f.name == board.FieldAskDescription {
		m.desc, cmd = m.desc.Update(msg)
		return cmd
	}
	f.input, cmd = f.input.Update(msg)
	return cmd
}
