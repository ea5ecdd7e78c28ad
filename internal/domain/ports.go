package domain

import (
	"context"
	"time"
)

// TaskAPI is the remote task resource.
type TaskAPI interface {
	// ListTasks returns every task the server knows about.
	ListTasks(ctx context.Context) ([]Task, error)

	// GetTask returns one task by id.
	GetTask(ctx context.Context, id int) (*Task, error)

	// CreateTask creates a task and returns the server copy.
	CreateTask(ctx context.Context, task Task) (*Task, error)

	// UpdateTask replaces a task and returns the server copy.
	UpdateTask(ctx context.Context, task Task) (*Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id int) error

	// ChangePriority moves a task to another column.
	ChangePriority(ctx context.Context, id int, priority Priority) (*Task, error)

	// ChangeVisibility sets a task's visibility.
	ChangeVisibility(ctx context.Context, id int, visibility Visibility) (*Task, error)

	// GetTags returns a task's tags.
	GetTags(ctx context.Context, id int) ([]string, error)
}

// AssigneeAPI is the remote assignee resource.
type AssigneeAPI interface {
	// ListAssignees returns every assignment.
	ListAssignees(ctx context.Context) ([]Assignee, error)

	// ListTaskAssignees returns the assignments of one task.
	ListTaskAssignees(ctx context.Context, taskID int) ([]Assignee, error)

	// ListUserAssignments returns the assignments of one user.
	ListUserAssignments(ctx context.Context, userID string) ([]Assignee, error)

	// CreateAssignee assigns a user to a task.
	CreateAssignee(ctx context.Context, a Assignee) (*Assignee, error)

	// DeleteAssignee removes an assignment by id.
	DeleteAssignee(ctx context.Context, id int) error
}

// TeamAPI is the remote team and membership resource.
type TeamAPI interface {
	CreateTeam(ctx context.Context, team Team) (*Team, error)
	GetTeam(ctx context.Context, id int) (*Team, error)
	DeleteTeam(ctx context.Context, id int) error

	// ListTeamUsers returns the membership rows of a team.
	ListTeamUsers(ctx context.Context, teamID int) ([]TeamUser, error)

	// ListUserTeams returns the membership rows of a user.
	ListUserTeams(ctx context.Context, userID string) ([]TeamUser, error)

	AddTeamUser(ctx context.Context, tu TeamUser) (*TeamUser, error)
	RemoveTeamUser(ctx context.Context, teamID int, userID string) error
}

// UserAPI is the remote user resource.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, user User) (*User, error)
	UpdateUser(ctx context.Context, id string, user User) (*User, error)
	DeleteUser(ctx context.Context, id string) error
}

// AuthAPI authenticates against the remote API.
type AuthAPI interface {
	// Login exchanges credentials for a session.
	Login(ctx context.Context, username, password string) (*Session, error)

	// Register creates an account.
	Register(ctx context.Context, user User) (*User, error)
}

// API groups every remote resource the client uses.
type API interface {
	TaskAPI
	AssigneeAPI
	TeamAPI
	UserAPI
	AuthAPI
}

// SessionStore persists the login session between runs.
type SessionStore interface {
	// Load returns the saved session, or nil if nobody is logged in.
	Load() (*Session, error)

	// Save replaces the saved session.
	Save(session Session) error

	// Clear removes the saved session.
	Clear() error
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (project + global + env).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	GetProjectConfigInfo() ConfigInfo
	GetGlobalConfigInfo() ConfigInfo
	InitProjectConfig(cfg *Config) error
	InitGlobalConfig(cfg *Config) error
}

// Logger writes diagnostic messages. taskID 0 means "not task specific".
type Logger interface {
	Info(taskID int, category, msg string)
	Debug(taskID int, category, msg string)
	Warn(taskID int, category, msg string)
	Error(taskID int, category, msg string)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Info(int, string, string)  {}
func (NopLogger) Debug(int, string, string) {}
func (NopLogger) Warn(int, string, string)  {}
func (NopLogger) Error(int, string, string) {}

// Scheduler runs a job on a recurring schedule.
type Scheduler interface {
	// Schedule registers job under a cron spec.
	Schedule(spec string, job func()) error

	// Start begins running jobs in the background.
	Start()

	// Stop halts scheduling and waits for running jobs.
	Stop()
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
