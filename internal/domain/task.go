// Package domain contains core business entities and interfaces.
package domain

import (
	"slices"
	"strings"
)

// Task represents a unit of work managed by the remote API.
// Fields are ordered to minimize memory padding.
type Task struct {
	Tags           []string   `json:"tags,omitempty"`     // Free-form tags
	TaskID         string     `json:"task_id"`            // Human readable code (e.g. "WEB-12")
	TaskName       string     `json:"task_name"`          // Name (required)
	AskDescription string     `json:"ask_description"`    // Description (required on create)
	Priority       Priority   `json:"priority"`           // Board column
	Visibility     Visibility `json:"visibility"`         // Public or Private
	Status         string     `json:"status,omitempty"`   // Free-form status (optional)
	DueDate        string     `json:"due_date,omitempty"` // YYYY-MM-DD (optional)
	ID             int        `json:"id"`                 // Server-assigned identity
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	t.Tags = slices.Clone(t.Tags)
	return t
}

// IsPublic returns true if everyone may see the task.
func (t *Task) IsPublic() bool {
	return t.Visibility == VisibilityPublic
}

// Label returns the code and name for single-line display.
func (t *Task) Label() string {
	if t.TaskID == "" {
		return t.TaskName
	}
	return t.TaskID + " " + t.TaskName
}

// NormalizeTags trims, drops empties and de-duplicates tags, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// SplitTags parses a comma separated tag list as typed into a form.
func SplitTags(s string) []string {
	return NormalizeTags(strings.Split(s, ","))
}
