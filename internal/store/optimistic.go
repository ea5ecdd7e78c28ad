package store

import (
	"fmt"

	"github.com/runoshun/taskdesk/internal/domain"
)

// Pending is an unresolved optimistic change to one task.
type Pending struct {
	store    *Store
	snapshot domain.Task
	taskID   int
	gen      uint64
	resolved bool
}

// TaskID returns the id of the task the change applies to.
func (p *Pending) TaskID() int {
	return p.taskID
}

// Snapshot returns the task as it was before the change.
func (p *Pending) Snapshot() domain.Task {
	return p.snapshot.Clone()
}

// Optimistic applies a local change to a cached task before the server confirms it.
// The caller must eventually call Resolve on the returned Pending.
func (s *Store) Optimistic(taskID int, apply func(*domain.Task)) (*Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("optimistic update %d: %w", taskID, domain.ErrTaskNotFound)
	}
	snapshot := cur.Clone()
	next := cur.Clone()
	apply(&next)
	if !next.Priority.IsValid() {
		return nil, fmt.Errorf("optimistic update %d: %w", taskID, domain.ErrInvalidPriority)
	}

	s.tasks[taskID] = next
	s.gen[taskID]++
	s.pending[taskID]++
	s.notifyLocked()

	return &Pending{
		store:    s,
		snapshot: snapshot,
		taskID:   taskID,
		gen:      s.gen[taskID],
	}, nil
}

// Resolve settles the change. On success the server copy (if any) replaces the
// cache entry. On failure the snapshot is restored, but only if nothing else
// wrote the task since the optimistic apply. It reports whether a rollback happened.
// Resolve is idempotent; later calls do nothing.
func (p *Pending) Resolve(server *domain.Task, err error) bool {
	s := p.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.resolved {
		return false
	}
	p.resolved = true
	if s.pending[p.taskID] > 0 {
		s.pending[p.taskID]--
		if s.pending[p.taskID] == 0 {
			delete(s.pending, p.taskID)
		}
	}
	defer s.notifyLocked()

	if err == nil {
		if server != nil {
			if ingestErr := s.checkIngest(server); ingestErr == nil {
				s.putLocked(*server)
			}
		}
		return false
	}

	if s.gen[p.taskID] != p.gen {
		s.logger.Info(p.taskID, "store", "skipping rollback: task changed since optimistic update")
		return false
	}
	if _, ok := s.tasks[p.taskID]; !ok {
		return false
	}
	s.tasks[p.taskID] = p.snapshot.Clone()
	s.gen[p.taskID]++
	s.logger.Warn(p.taskID, "store", fmt.Sprintf("rolled back optimistic update: %v", err))
	return true
}
