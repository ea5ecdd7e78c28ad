package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/runoshun/taskdesk/internal/board"
	"github.com/runoshun/taskdesk/internal/domain"
)

const (
	defaultWidth   = 96
	pendingMarker  = "⟳ "
	privateMarker  = "⊘ "
	draggedMarker  = "» "
	minColumnWidth = 16
)

// View renders the TUI.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	switch m.Mode() {
	case ModeHelp:
		b.WriteString(m.help.View(m.keys))
	case ModeOverlay, ModeEdit, ModePicker:
		b.WriteString(m.viewOverlay())
	default:
		b.WriteString(m.viewColumns())
	}

	b.WriteString("\n")
	b.WriteString(m.viewStatusLine())
	return b.String()
}

func (m *Model) viewHeader() string {
	who := "anonymous (public tasks only)"
	if !m.viewer.IsAnonymous() {
		who = m.viewer.UserID()
	}
	title := m.styles.HeaderText.Render("taskdesk")
	if m.loading {
		title += " " + m.spinner.View()
	}
	return m.styles.Header.Render(title + "  " + m.styles.Viewer.Render(who))
}

func (m *Model) columnWidth() int {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}
	// Three columns, each with a border and one cell of padding per side
	return max(w/3-4, minColumnWidth)
}

func (m *Model) viewColumns() string {
	brd := m.Board()
	width := m.columnWidth()
	dragging := m.reconciler != nil && m.reconciler.State() == board.DragDragging
	draggedID := 0
	var target domain.Priority
	if dragging {
		draggedID = m.reconciler.TaskID()
		target = m.reconciler.Target()
	}

	cols := make([]string, 0, len(brd.Columns))
	for i, col := range brd.Columns {
		style := m.styles.Column
		switch {
		case dragging && col.Priority == target:
			style = m.styles.ColumnTarget
		case !dragging && i == m.col:
			style = m.styles.ColumnFocused
		}

		title := m.styles.ColumnTitle.
			Foreground(PriorityColor(col.Priority)).
			Render(fmt.Sprintf("%s (%d)", col.Priority.Display(), col.Len()))

		lines := []string{title}
		if col.Len() == 0 {
			lines = append(lines, m.styles.Empty.Render("no tasks"))
		}
		for row, t := range col.Tasks {
			selected := i == m.col && row == m.rows[i]
			lines = append(lines, m.renderCard(t, width, selected, t.ID == draggedID))
		}
		cols = append(cols, style.Width(width).Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m *Model) renderCard(t domain.Task, width int, selected, dragged bool) string {
	prefix := "  "
	switch {
	case dragged:
		prefix = draggedMarker
	case m.store != nil && m.store.IsPending(t.ID):
		prefix = pendingMarker
	case !t.IsPublic():
		prefix = privateMarker
	}
	text := runewidth.Truncate(prefix+t.Label(), width, "…")

	switch {
	case dragged:
		return m.styles.CardDragged.Render(text)
	case selected:
		return m.styles.CardSelected.Render(text)
	case m.store != nil && m.store.IsPending(t.ID):
		return m.styles.Pending.Render(text)
	default:
		return m.styles.Card.Render(text)
	}
}

func (m *Model) viewOverlay() string {
	var body string
	switch {
	case m.editor.State() == board.EditorLoading && m.editor.Err() == nil:
		body = m.spinner.View() + " Loading task..."
	case m.editor.State() == board.EditorLoading:
		body = m.styles.FieldError.Render("Could not load task: " + m.editor.Err().Error())
	case m.editor.State() == board.EditorEditing:
		body = m.viewEditForm()
	default:
		body = m.viewDetail()
	}

	width := min(m.columnWidth()*3, 90)
	box := m.styles.Overlay.Width(width).Render(body)
	if m.width <= 0 || m.height <= 0 {
		return box
	}
	return lipgloss.Place(m.width, max(m.height-4, lipgloss.Height(box)), lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) viewDetail() string {
	t, ok := m.editor.Task()
	if !ok {
		return ""
	}

	var b strings.Builder
	title := t.Label()
	if m.editor.Busy() {
		title = m.spinner.View() + " " + title
	}
	b.WriteString(m.styles.OverlayTitle.Render(title))
	b.WriteString("\n")

	row := func(label, value string) {
		if value == "" {
			value = "-"
		}
		b.WriteString(m.styles.Label.Render(label))
		b.WriteString(m.styles.Value.Render(value))
		b.WriteString("\n")
	}
	row("Priority", t.Priority.Display())
	row("Visibility", string(t.Visibility))
	row("Status", t.Status)
	row("Due", t.DueDate)
	row("Tags", strings.Join(t.Tags, ", "))

	b.WriteString("\n")
	b.WriteString(m.styles.Value.Render(t.AskDescription))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Label.Render("Assignees"))
	assignees := m.editor.Assignees()
	if len(assignees) == 0 {
		b.WriteString(m.styles.Empty.Render("none"))
	}
	for i, a := range assignees {
		if i > 0 {
			b.WriteString("\n" + strings.Repeat(" ", 12))
		}
		name := a.UserName
		if name == "" {
			name = a.UserID
		}
		b.WriteString(m.styles.Value.Render(fmt.Sprintf("%s %s", a.Capabilities(), name)))
	}

	if m.showPicker {
		b.WriteString("\n\n")
		b.WriteString(m.viewPicker())
	}
	if err := m.editor.Err(); err != nil {
		b.WriteString("\n\n")
		b.WriteString(m.styles.FieldError.Render(err.Error()))
	}
	return b.String()
}

func (m *Model) viewPicker() string {
	items := make([]string, 0, len(domain.Priorities()))
	for i, p := range domain.Priorities() {
		style := m.styles.PickerItem
		if i == m.pickerIdx {
			style = m.styles.PickerActive
		}
		items = append(items, style.Render(p.Display()))
	}
	return m.styles.Label.Render("Move to") + lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

func (m *Model) viewEditForm() string {
	var b strings.Builder
	t, _ := m.editor.Task()
	title := "Editing " + t.Label()
	if m.editor.Busy() {
		title = m.spinner.View() + " Saving " + t.Label()
	}
	b.WriteString(m.styles.OverlayTitle.Render(title))
	b.WriteString("\n")

	errs := m.editor.FieldErrors()
	for _, f := range m.fields {
		b.WriteString(m.styles.Label.Render(f.label))
		if f.name == board.FieldAskDescription {
			b.WriteString("\n")
			b.WriteString(m.desc.View())
		} else {
			b.WriteString(f.input.View())
		}
		if msg, ok := errs[f.name]; ok {
			b.WriteString(" " + m.styles.FieldError.Render(msg))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) viewStatusLine() string {
	var line string
	switch {
	case m.err != nil:
		line = m.styles.StatusError.Render("Error: " + statusMessage(m.err))
	case m.status != "":
		line = m.styles.Status.Render(m.status)
	case m.reconciler != nil && m.reconciler.InFlight() > 0:
		line = m.spinner.View() + " Saving move..."
	}

	helpView := m.styles.Help.Render(m.help.ShortHelpView(modeKeys{keys: m.keys, mode: m.Mode()}.ShortHelp()))
	if line == "" {
		return helpView
	}
	return line + "\n" + helpView
}

// statusMessage turns an error into status line text. Remote failures get a
// fixed message; their details are in the log.
func statusMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrTransport):
		return "could not reach the server, nothing was saved"
	case errors.Is(err, domain.ErrServer):
		return "the server failed to handle the request, nothing was saved"
	case errors.Is(err, domain.ErrRejected):
		return "the server rejected the change"
	default:
		return err.Error()
	}
}
