package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the TUI.
type KeyMap struct {
	// Navigation
	Left  key.Binding
	Right key.Binding
	Up    key.Binding
	Down  key.Binding

	// Board
	Pick    key.Binding // Pick up the focused card
	Enter   key.Binding // Drop, or open the overlay
	Refresh key.Binding // Reload every task

	// Overlay
	Edit       key.Binding // Start editing the task
	Priority   key.Binding // Open the priority picker
	Visibility key.Binding // Toggle Public/Private
	NextField  key.Binding // Next draft field
	PrevField  key.Binding // Previous draft field
	Save       key.Binding // Save the draft

	// General
	Help   key.Binding
	Quit   key.Binding
	Escape key.Binding // Cancel/back
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Pick: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pick up"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open/drop"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Priority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "priority"),
		),
		Visibility: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "visibility"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pick, k.Enter, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Pick, k.Enter, k.Escape, k.Refresh},
		{k.Edit, k.Priority, k.Visibility},
		{k.NextField, k.PrevField, k.Save},
		{k.Help, k.Quit},
	}
}

// modeKeys adapts the help bar to the current mode.
type modeKeys struct {
	keys KeyMap
	mode Mode
}

// ShortHelp implements help.KeyMap.
func (mk modeKeys) ShortHelp() []key.Binding {
	k := mk.keys
	switch mk.mode {
	case ModeDrag:
		return []key.Binding{k.Left, k.Right, withHelp(k.Enter, "drop"), k.Escape}
	case ModeOverlay:
		return []key.Binding{k.Edit, k.Priority, k.Visibility, withHelp(k.Escape, "close")}
	case ModeEdit:
		return []key.Binding{k.NextField, k.Save, withHelp(k.Escape, "discard")}
	case ModePicker:
		return []key.Binding{k.Left, k.Right, withHelp(k.Enter, "apply"), k.Escape}
	default:
		return k.ShortHelp()
	}
}

// FullHelp implements help.KeyMap.
func (mk modeKeys) FullHelp() [][]key.Binding {
	return mk.keys.FullHelp()
}

func withHelp(b key.Binding, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(b.Keys()...), key.WithHelp(b.Help().Key, desc))
}
