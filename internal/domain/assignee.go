package domain

// Assignee relates a task to a user within a team context.
// Fields are ordered to minimize memory padding.
type Assignee struct {
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	ID         int    `json:"id"`
	TaskID     int    `json:"task_id"`
	TeamID     int    `json:"team_id,omitempty"`
	CanView    Flag   `json:"can_view"`
	CanComment Flag   `json:"can_comment"`
	CanEdit    Flag   `json:"can_edit"`
}

// Capabilities returns the assignment's permission flags.
func (a *Assignee) Capabilities() Capabilities {
	return Capabilities{
		View:    bool(a.CanView),
		Comment: bool(a.CanComment),
		Edit:    bool(a.CanEdit),
	}
}

// SetCapabilities overwrites the permission flags.
func (a *Assignee) SetCapabilities(c Capabilities) {
	a.CanView = Flag(c.View)
	a.CanComment = Flag(c.Comment)
	a.CanEdit = Flag(c.Edit)
}

// AssignedTaskIDs collects the task ids from a list of assignments.
func AssignedTaskIDs(assignments []Assignee) []int {
	ids := make([]int, 0, len(assignments))
	seen := make(map[int]bool, len(assignments))
	for _, a := range assignments {
		if seen[a.TaskID] {
			continue
		}
		seen[a.TaskID] = true
		ids = append(ids, a.TaskID)
	}
	return ids
}
