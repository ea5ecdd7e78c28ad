package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/taskdesk/internal/domain"
)

// Colors defines the color palette for the TUI.
var Colors = struct {
	// Base colors
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Background lipgloss.Color

	// Card text
	TitleNormal   lipgloss.Color
	TitleSelected lipgloss.Color

	// Column accents
	High   lipgloss.Color
	Medium lipgloss.Color
	Normal lipgloss.Color
}{
	Primary:    lipgloss.Color("#6C5CE7"), // Purple
	Secondary:  lipgloss.Color("#A29BFE"), // Lavender
	Muted:      lipgloss.Color("#636E72"), // Gray
	Error:      lipgloss.Color("#D63031"), // Red
	Success:    lipgloss.Color("#00B894"), // Green
	Warning:    lipgloss.Color("#FDCB6E"), // Yellow
	Background: lipgloss.Color("#2D3436"), // Dark gray

	TitleNormal:   lipgloss.Color("#DFE6E9"), // Light gray
	TitleSelected: lipgloss.Color("#FFEAA7"), // Yellow

	High:   lipgloss.Color("#FF7675"), // Salmon
	Medium: lipgloss.Color("#FDCB6E"), // Yellow
	Normal: lipgloss.Color("#74B9FF"), // Light blue
}

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	// Header
	Header     lipgloss.Style
	HeaderText lipgloss.Style
	Viewer     lipgloss.Style

	// Columns
	Column        lipgloss.Style
	ColumnFocused lipgloss.Style
	ColumnTarget  lipgloss.Style
	ColumnTitle   lipgloss.Style
	Empty         lipgloss.Style

	// Cards
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardDragged  lipgloss.Style
	CardCode     lipgloss.Style
	Pending      lipgloss.Style
	Private      lipgloss.Style

	// Overlay
	Overlay      lipgloss.Style
	OverlayTitle lipgloss.Style
	Label        lipgloss.Style
	Value        lipgloss.Style
	FieldError   lipgloss.Style
	PickerItem   lipgloss.Style
	PickerActive lipgloss.Style

	// Status line
	Status      lipgloss.Style
	StatusError lipgloss.Style
	Help        lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	column := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Colors.Muted).
		Padding(0, 1)

	return Styles{
		Header: lipgloss.NewStyle().
			Padding(0, 1).
			MarginBottom(1),
		HeaderText: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),
		Viewer: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		Column:        column,
		ColumnFocused: column.BorderForeground(Colors.Secondary),
		ColumnTarget:  column.BorderForeground(Colors.Warning).BorderStyle(lipgloss.DoubleBorder()),
		ColumnTitle: lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1),
		Empty: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Italic(true),

		Card: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),
		CardSelected: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected).
			Bold(true),
		CardDragged: lipgloss.NewStyle().
			Foreground(Colors.Background).
			Background(Colors.Warning).
			Bold(true),
		CardCode: lipgloss.NewStyle().
			Foreground(Colors.Secondary),
		Pending: lipgloss.NewStyle().
			Foreground(Colors.Warning),
		Private: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		Overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Primary).
			Padding(1, 2),
		OverlayTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.TitleSelected).
			MarginBottom(1),
		Label: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Width(12),
		Value: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),
		FieldError: lipgloss.NewStyle().
			Foreground(Colors.Error),
		PickerItem: lipgloss.NewStyle().
			Padding(0, 1),
		PickerActive: lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(Colors.Background).
			Background(Colors.Secondary),

		Status: lipgloss.NewStyle().
			Foreground(Colors.Success),
		StatusError: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),
		Help: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			MarginTop(1),
	}
}

// PriorityColor returns the accent color for a column.
func PriorityColor(p domain.Priority) lipgloss.Color {
	switch p {
	case domain.PriorityHigh:
		return Colors.High
	case domain.PriorityMedium:
		return Colors.Medium
	default:
		return Colors.Normal
	}
}
