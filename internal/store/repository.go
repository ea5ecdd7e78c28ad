package store

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdesk/internal/domain"
)

// API is the subset of the remote API the repository talks to.
type API interface {
	domain.TaskAPI
	domain.AssigneeAPI
}

// Repository performs remote task operations and merges each server
// response into the Store. On error the cache is left unchanged.
type Repository struct {
	api    API
	store  *Store
	logger domain.Logger
}

// NewRepository creates a Repository writing into store.
func NewRepository(api API, store *Store, logger domain.Logger) *Repository {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Repository{api: api, store: store, logger: logger}
}

// Store returns the cache the repository writes to.
func (r *Repository) Store() *Store {
	return r.store
}

// LoadAll fetches every task and replaces the cache.
func (r *Repository) LoadAll(ctx context.Context) ([]domain.Task, error) {
	tasks, err := r.api.ListTasks(ctx)
	if err != nil {
		r.logger.Warn(0, "repository", fmt.Sprintf("load tasks failed: %v", err))
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if dropped := r.store.ReplaceAll(tasks); dropped > 0 {
		r.logger.Warn(0, "repository", fmt.Sprintf("dropped %d task(s) with unknown priority", dropped))
	}
	r.logger.Debug(0, "repository", fmt.Sprintf("loaded %d tasks", r.store.Len()))
	return r.store.Tasks(), nil
}

// LoadOne fetches one task and merges it into the cache.
func (r *Repository) LoadOne(ctx context.Context, id int) (*domain.Task, error) {
	task, err := r.api.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load task %d: %w", id, err)
	}
	return r.merge(task)
}

// Update sends the full task and merges the server copy.
func (r *Repository) Update(ctx context.Context, task domain.Task) (*domain.Task, error) {
	updated, err := r.api.UpdateTask(ctx, task)
	if err != nil {
		r.logger.Warn(task.ID, "repository", fmt.Sprintf("update failed: %v", err))
		return nil, fmt.Errorf("update task %d: %w", task.ID, err)
	}
	r.logger.Info(task.ID, "repository", "task updated")
	return r.merge(updated)
}

// ChangePriority moves a task to another column on the server and merges the result.
func (r *Repository) ChangePriority(ctx context.Context, id int, priority domain.Priority) (*domain.Task, error) {
	if !priority.IsValid() {
		return nil, fmt.Errorf("change priority %d: %w", id, domain.ErrInvalidPriority)
	}
	updated, err := r.api.ChangePriority(ctx, id, priority)
	if err != nil {
		r.logger.Warn(id, "repository", fmt.Sprintf("change priority to %s failed: %v", priority, err))
		return nil, fmt.Errorf("change priority %d: %w", id, err)
	}
	r.logger.Info(id, "repository", fmt.Sprintf("priority changed to %s", priority))
	return r.merge(updated)
}

// ChangeVisibility sets a task's visibility on the server and merges the result.
func (r *Repository) ChangeVisibility(ctx context.Context, id int, visibility domain.Visibility) (*domain.Task, error) {
	if !visibility.IsValid() {
		return nil, fmt.Errorf("change visibility %d: %w", id, domain.ErrInvalidVisibility)
	}
	updated, err := r.api.ChangeVisibility(ctx, id, visibility)
	if err != nil {
		r.logger.Warn(id, "repository", fmt.Sprintf("change visibility failed: %v", err))
		return nil, fmt.Errorf("change visibility %d: %w", id, err)
	}
	r.logger.Info(id, "repository", fmt.Sprintf("visibility changed to %s", visibility))
	return r.merge(updated)
}

// Create creates a task and adds the server copy to the cache.
func (r *Repository) Create(ctx context.Context, task domain.Task) (*domain.Task, error) {
	created, err := r.api.CreateTask(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	r.logger.Info(created.ID, "repository", "task created")
	return r.merge(created)
}

// Delete removes a task on the server and then from the cache.
func (r *Repository) Delete(ctx context.Context, id int) error {
	if err := r.api.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	r.store.Remove(id)
	r.logger.Info(id, "repository", "task deleted")
	return nil
}

// LoadAssignees fetches the assignees of a task into the cache.
func (r *Repository) LoadAssignees(ctx context.Context, taskID int) ([]domain.Assignee, error) {
	assignees, err := r.api.ListTaskAssignees(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("load assignees %d: %w", taskID, err)
	}
	r.store.SetAssignees(taskID, assignees)
	out, _ := r.store.Assignees(taskID)
	return out, nil
}

// LoadViewerAssignments sets the board viewer. An empty userID makes the viewer
// anonymous without a network call.
func (r *Repository) LoadViewerAssignments(ctx context.Context, userID string) (domain.Viewer, error) {
	if userID == "" {
		r.store.SetViewer("", nil)
		return r.store.Viewer(), nil
	}
	assignments, err := r.api.ListUserAssignments(ctx, userID)
	if err != nil {
		return domain.Viewer{}, fmt.Errorf("load assignments for %s: %w", userID, err)
	}
	r.store.SetViewer(userID, domain.AssignedTaskIDs(assignments))
	return r.store.Viewer(), nil
}

func (r *Repository) merge(task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrUnexpectedResponse
	}
	if err := r.store.Put(*task); err != nil {
		return nil, err
	}
	out := task.Clone()
	return &out, nil
}
