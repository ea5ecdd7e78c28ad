// Package tui provides the terminal task board for taskdesk.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeBoard   Mode = iota // Column and card navigation
	ModeDrag                // A card is picked up
	ModeOverlay             // Task detail overlay
	ModeEdit                // Overlay draft editing
	ModePicker              // Overlay priority picker
	ModeHelp                // Full key help
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeBoard:
		return "board"
	case ModeDrag:
		return "drag"
	case ModeOverlay:
		return "overlay"
	case ModeEdit:
		return "edit"
	case ModePicker:
		return "picker"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}

// IsInputMode returns true if keystrokes go to a text input.
func (m Mode) IsInputMode() bool {
	return m == ModeEdit
}
