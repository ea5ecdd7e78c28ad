// Package store holds the client-side task cache shared by the board and overlay.
package store

import (
	"fmt"
	"slices"
	"sync"

	"github.com/runoshun/taskdesk/internal/domain"
)

// Store is the in-memory cache of tasks and assignees.
// All methods are safe for concurrent use; readers get copies.
// Fields are ordered to minimize memory padding.
type Store struct {
	logger    domain.Logger
	tasks     map[int]domain.Task
	gen       map[int]uint64
	pending   map[int]int
	assignees map[int][]domain.Assignee
	subs      map[int]chan struct{}
	viewerID  string
	order     []int
	assigned  []int
	nextSub   int
	mu        sync.RWMutex
}

// New creates an empty Store.
func New(logger domain.Logger) *Store {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Store{
		logger:    logger,
		tasks:     make(map[int]domain.Task),
		gen:       make(map[int]uint64),
		pending:   make(map[int]int),
		assignees: make(map[int][]domain.Assignee),
		subs:      make(map[int]chan struct{}),
	}
}

// Subscribe returns a channel that receives a value after every change.
// Notifications coalesce: a slow reader sees one pending signal, not a backlog.
// Call the returned function to unsubscribe.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// notifyLocked must be called with mu held.
func (s *Store) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// checkIngest rejects tasks whose priority is not one of the board columns.
func (s *Store) checkIngest(t *domain.Task) error {
	if !t.Priority.IsValid() {
		s.logger.Warn(t.ID, "store", fmt.Sprintf("rejecting task with priority %q", t.Priority))
		return fmt.Errorf("task %d: %w", t.ID, domain.ErrInvalidPriority)
	}
	return nil
}

// ReplaceAll swaps the whole cache for a freshly loaded list.
// Tasks with an unknown priority are dropped and logged. It returns the number dropped.
func (s *Store) ReplaceAll(tasks []domain.Task) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	next := make(map[int]domain.Task, len(tasks))
	order := make([]int, 0, len(tasks))
	for i := range tasks {
		t := tasks[i]
		if err := s.checkIngest(&t); err != nil {
			dropped++
			continue
		}
		if _, dup := next[t.ID]; !dup {
			order = append(order, t.ID)
		}
		next[t.ID] = t.Clone()
	}

	for id := range s.tasks {
		if _, ok := next[id]; !ok {
			delete(s.assignees, id)
		}
	}
	for _, id := range order {
		s.gen[id]++
	}
	s.tasks = next
	s.order = order
	s.notifyLocked()
	return dropped
}

// Put inserts or overwrites one task. New tasks are appended to the cache order.
func (s *Store) Put(t domain.Task) error {
	if err := s.checkIngest(&t); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(t)
	s.notifyLocked()
	return nil
}

func (s *Store) putLocked(t domain.Task) {
	if _, ok := s.tasks[t.ID]; !ok {
		s.order = append(s.order, t.ID)
	}
	s.tasks[t.ID] = t.Clone()
	s.gen[t.ID]++
}

// Remove deletes a task and its assignees from the cache.
func (s *Store) Remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return
	}
	delete(s.tasks, id)
	delete(s.assignees, id)
	s.gen[id]++
	s.order = slices.DeleteFunc(s.order, func(v int) bool { return v == id })
	s.notifyLocked()
}

// Tasks returns a copy of every cached task in cache order.
func (s *Store) Tasks() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id].Clone())
	}
	return out
}

// Task returns a copy of one cached task.
func (s *Store) Task(id int) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, false
	}
	return t.Clone(), true
}

// Len returns the number of cached tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Generation returns the write counter of a task.
// It increases on every write, including optimistic ones and rollbacks.
func (s *Store) Generation(id int) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen[id]
}

// IsPending returns true while an optimistic change to the task is unresolved.
func (s *Store) IsPending(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending[id] > 0
}

// SetAssignees replaces the assignee list of a task.
func (s *Store) SetAssignees(taskID int, assignees []domain.Assignee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignees[taskID] = slices.Clone(assignees)
	s.notifyLocked()
}

// Assignees returns a copy of a task's assignee list and whether it was loaded.
func (s *Store) Assignees(taskID int) ([]domain.Assignee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignees[taskID]
	return slices.Clone(a), ok
}

// SetViewer records who is looking at the board and which tasks they are assigned to.
// An empty userID means anonymous.
func (s *Store) SetViewer(userID string, assignedTaskIDs []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewerID = userID
	s.assigned = slices.Clone(assignedTaskIDs)
	s.notifyLocked()
}

// Viewer returns the current viewer.
func (s *Store) Viewer() domain.Viewer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.NewViewer(s.viewerID, s.assigned)
}

// Board projects the cache for the current viewer.
func (s *Store) Board() domain.Board {
	return domain.Project(s.Tasks(), s.Viewer())
}
