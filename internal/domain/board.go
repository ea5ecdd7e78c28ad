package domain

// Viewer is the identity a board is projected for.
// The zero value is anonymous.
type Viewer struct {
	assigned map[int]bool
	userID   string
}

// AnonymousViewer returns a viewer that only sees Public tasks.
func AnonymousViewer() Viewer {
	return Viewer{}
}

// NewViewer returns a viewer for a logged-in user assigned to the given tasks.
func NewViewer(userID string, assignedTaskIDs []int) Viewer {
	if userID == "" {
		return AnonymousViewer()
	}
	assigned := make(map[int]bool, len(assignedTaskIDs))
	for _, id := range assignedTaskIDs {
		assigned[id] = true
	}
	return Viewer{userID: userID, assigned: assigned}
}

// UserID returns the viewer's user id, or "" when anonymous.
func (v Viewer) UserID() string {
	return v.userID
}

// IsAnonymous returns true if no user is logged in.
func (v Viewer) IsAnonymous() bool {
	return v.userID == ""
}

// IsAssigned returns true if the viewer is an assignee of the task.
func (v Viewer) IsAssigned(taskID int) bool {
	return v.assigned[taskID]
}

// CanSee applies the visibility rule: Public tasks are visible to everyone,
// Private tasks only to their assignees.
func (v Viewer) CanSee(t *Task) bool {
	if t.Visibility == VisibilityPublic {
		return true
	}
	if v.IsAnonymous() {
		return false
	}
	return v.IsAssigned(t.ID)
}

// Column is one priority bucket of the board.
type Column struct {
	Priority Priority
	Tasks    []Task
}

// Len returns the number of cards in the column.
func (c Column) Len() int {
	return len(c.Tasks)
}

// Board is the three-column projection of the task cache.
type Board struct {
	Columns [3]Column
}

// Project partitions tasks into High, Medium and Normal columns, keeping the
// input order within each column and dropping tasks the viewer cannot see.
// Tasks with a priority outside the three columns are skipped.
func Project(tasks []Task, viewer Viewer) Board {
	var b Board
	for i, p := range Priorities() {
		b.Columns[i].Priority = p
	}
	for i := range tasks {
		t := &tasks[i]
		idx := t.Priority.Index()
		if idx < 0 || !viewer.CanSee(t) {
			continue
		}
		b.Columns[idx].Tasks = append(b.Columns[idx].Tasks, t.Clone())
	}
	return b
}

// Column returns the bucket for a priority. Invalid priorities yield an empty column.
func (b Board) Column(p Priority) Column {
	idx := p.Index()
	if idx < 0 {
		return Column{Priority: p}
	}
	return b.Columns[idx]
}

// Find returns the column index and row of a task, or ok=false if it is not on the board.
func (b Board) Find(taskID int) (col, row int, ok bool) {
	for c := range b.Columns {
		for r, t := range b.Columns[c].Tasks {
			if t.ID == taskID {
				return c, r, true
			}
		}
	}
	return 0, 0, false
}

// Total returns the number of cards across all columns.
func (b Board) Total() int {
	n := 0
	for _, c := range b.Columns {
		n += c.Len()
	}
	return n
}

// Counts returns the card count per column in column order.
func (b Board) Counts() [3]int {
	var counts [3]int
	for i, c := range b.Columns {
		counts[i] = c.Len()
	}
	return counts
}
