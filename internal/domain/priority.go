package domain

import (
	"encoding/json"
	"strings"
)

// Priority is the board column a task lives in.
type Priority string

const (
	PriorityHigh   Priority = "High"   // Left column
	PriorityMedium Priority = "Medium" // Middle column
	PriorityNormal Priority = "Normal" // Right column

	// Legacy value written by an older board; read as Normal.
	priorityLowLegacy Priority = "Low"
)

// Priorities returns all valid priorities in column order.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityNormal}
}

// ParsePriority parses a priority name case-insensitively.
// The legacy "Low" value maps to Normal.
func ParsePriority(s string) (Priority, error) {
	p := canonicalPriority(s)
	if !p.IsValid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

func canonicalPriority(s string) Priority {
	s = strings.TrimSpace(s)
	for _, p := range Priorities() {
		if strings.EqualFold(s, string(p)) {
			return p
		}
	}
	if strings.EqualFold(s, string(priorityLowLegacy)) {
		return PriorityNormal
	}
	return Priority(s)
}

// IsValid returns true if the priority is one of the three columns.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityNormal:
		return true
	default:
		return false
	}
}

// Index returns the column index (0-2), or -1 for an invalid priority.
func (p Priority) Index() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityNormal:
		return 2
	default:
		return -1
	}
}

// PriorityAt returns the priority for a column index, clamped to the board.
func PriorityAt(i int) Priority {
	all := Priorities()
	if i < 0 {
		i = 0
	}
	if i >= len(all) {
		i = len(all) - 1
	}
	return all[i]
}

// Display returns the column heading.
func (p Priority) Display() string {
	if !p.IsValid() {
		return string(p)
	}
	return string(p) + " Priority"
}

// UnmarshalJSON canonicalizes case and the legacy value.
// Unknown values are kept verbatim so the cache can reject them.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = canonicalPriority(s)
	return nil
}
