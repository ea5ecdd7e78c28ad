package domain

import "strings"

// Visibility controls who may see a task on the board.
type Visibility string

const (
	VisibilityPublic  Visibility = "Public"  // Visible to everyone, including anonymous viewers
	VisibilityPrivate Visibility = "Private" // Visible to assignees only
)

// ParseVisibility parses a visibility name case-insensitively.
func ParseVisibility(s string) (Visibility, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, string(VisibilityPublic)):
		return VisibilityPublic, nil
	case strings.EqualFold(s, string(VisibilityPrivate)):
		return VisibilityPrivate, nil
	default:
		return "", ErrInvalidVisibility
	}
}

// IsValid returns true if the visibility is a known value.
func (v Visibility) IsValid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Toggle returns the opposite visibility. Unknown values become Public.
func (v Visibility) Toggle() Visibility {
	if v == VisibilityPublic {
		return VisibilityPrivate
	}
	return VisibilityPublic
}
