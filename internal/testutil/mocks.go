// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/taskdesk/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Ensure MockAPI implements domain.API.
var _ domain.API = (*MockAPI)(nil)

// MockAPI is an in-memory test double for every remote resource.
// Each call is recorded in Calls; the *Err fields force failures.
// Fields are ordered to minimize memory padding.
type MockAPI struct {
	Tasks     map[int]*domain.Task
	Teams     map[int]*domain.Team
	Users     map[string]*domain.User
	Tags      map[int][]string
	Session   *domain.Session // Returned by Login
	Assignees []domain.Assignee
	TeamUsers []domain.TeamUser
	Calls     []string

	// ChangePriorityGate, when set, blocks ChangePriority until it receives a value
	// or is closed.
	ChangePriorityGate chan struct{}

	ListErr             error
	GetErr              error
	CreateErr           error
	UpdateErr           error
	DeleteErr           error
	ChangePriorityErr   error
	ChangeVisibilityErr error
	AssigneeErr         error
	TeamErr             error
	TeamUserErr         error
	UserErr             error
	LoginErr            error
	RegisterErr         error

	// OverridePriority, when set, is returned by ChangePriority instead of the requested value.
	OverridePriority domain.Priority

	NextID int
	mu     sync.Mutex
}

// NewMockAPI creates a MockAPI with initialized maps.
func NewMockAPI() *MockAPI {
	return &MockAPI{
		Tasks:  make(map[int]*domain.Task),
		Teams:  make(map[int]*domain.Team),
		Users:  make(map[string]*domain.User),
		Tags:   make(map[int][]string),
		NextID: 100,
	}
}

// AddTask seeds a task.
func (m *MockAPI) AddTask(t domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := t.Clone()
	m.Tasks[t.ID] = &c
}

// AddUser seeds a user keyed by UUID.
func (m *MockAPI) AddUser(u domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := u
	m.Users[u.Key()] = &c
}

// CallCount returns how many recorded calls start with prefix.
func (m *MockAPI) CallCount(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// RecordedCalls returns a copy of the call log.
func (m *MockAPI) RecordedCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.Calls)
}

func (m *MockAPI) record(format string, args ...any) {
	m.Calls = append(m.Calls, fmt.Sprintf(format, args...))
}

func (m *MockAPI) nextID() int {
	m.NextID++
	return m.NextID
}

// ListTasks returns all tasks ordered by id.
func (m *MockAPI) ListTasks(_ context.Context) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListTasks")
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	ids := make([]int, 0, len(m.Tasks))
	for id := range m.Tasks {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]domain.Task, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.Tasks[id].Clone())
	}
	return out, nil
}

// GetTask returns one task.
func (m *MockAPI) GetTask(_ context.Context, id int) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetTask(%d)", id)
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	t, ok := m.Tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	c := t.Clone()
	return &c, nil
}

// CreateTask stores a task under a new id.
func (m *MockAPI) CreateTask(_ context.Context, task domain.Task) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateTask(%s)", task.TaskID)
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	task.ID = m.nextID()
	c := task.Clone()
	m.Tasks[task.ID] = &c
	return &task, nil
}

// UpdateTask replaces a task.
func (m *MockAPI) UpdateTask(_ context.Context, task domain.Task) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UpdateTask(%d)", task.ID)
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	if _, ok := m.Tasks[task.ID]; !ok {
		return nil, domain.ErrTaskNotFound
	}
	c := task.Clone()
	m.Tasks[task.ID] = &c
	return &task, nil
}

// DeleteTask removes a task.
func (m *MockAPI) DeleteTask(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteTask(%d)", id)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Tasks, id)
	return nil
}

// ChangePriority sets a task's priority.
func (m *MockAPI) ChangePriority(_ context.Context, id int, priority domain.Priority) (*domain.Task, error) {
	m.mu.Lock()
	m.record("ChangePriority(%d,%s)", id, priority)
	gate := m.ChangePriorityGate
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ChangePriorityErr != nil {
		return nil, m.ChangePriorityErr
	}
	t, ok := m.Tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	t.Priority = priority
	if m.OverridePriority != "" {
		t.Priority = m.OverridePriority
	}
	c := t.Clone()
	return &c, nil
}

// ChangeVisibility sets a task's visibility.
func (m *MockAPI) ChangeVisibility(_ context.Context, id int, visibility domain.Visibility) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ChangeVisibility(%d,%s)", id, visibility)
	if m.ChangeVisibilityErr != nil {
		return nil, m.ChangeVisibilityErr
	}
	t, ok := m.Tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	t.Visibility = visibility
	c := t.Clone()
	return &c, nil
}

// GetTags returns the tags of a task, falling back to the task record.
func (m *MockAPI) GetTags(_ context.Context, id int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetTags(%d)", id)
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if tags, ok := m.Tags[id]; ok {
		return slices.Clone(tags), nil
	}
	if t, ok := m.Tasks[id]; ok {
		return slices.Clone(t.Tags), nil
	}
	return nil, domain.ErrTaskNotFound
}

// ListAssignees returns every assignment.
func (m *MockAPI) ListAssignees(_ context.Context) ([]domain.Assignee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListAssignees")
	if m.AssigneeErr != nil {
		return nil, m.AssigneeErr
	}
	return slices.Clone(m.Assignees), nil
}

// ListTaskAssignees filters assignments by task.
func (m *MockAPI) ListTaskAssignees(_ context.Context, taskID int) ([]domain.Assignee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListTaskAssignees(%d)", taskID)
	if m.AssigneeErr != nil {
		return nil, m.AssigneeErr
	}
	var out []domain.Assignee
	for _, a := range m.Assignees {
		if a.TaskID == taskID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ListUserAssignments filters assignments by user.
func (m *MockAPI) ListUserAssignments(_ context.Context, userID string) ([]domain.Assignee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListUserAssignments(%s)", userID)
	if m.AssigneeErr != nil {
		return nil, m.AssigneeErr
	}
	var out []domain.Assignee
	for _, a := range m.Assignees {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

// CreateAssignee stores an assignment under a new id.
func (m *MockAPI) CreateAssignee(_ context.Context, a domain.Assignee) (*domain.Assignee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateAssignee(%d,%s)", a.TaskID, a.UserID)
	if m.AssigneeErr != nil {
		return nil, m.AssigneeErr
	}
	a.ID = m.nextID()
	m.Assignees = append(m.Assignees, a)
	return &a, nil
}

// DeleteAssignee removes an assignment.
func (m *MockAPI) DeleteAssignee(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteAssignee(%d)", id)
	if m.AssigneeErr != nil {
		return m.AssigneeErr
	}
	m.Assignees = slices.DeleteFunc(m.Assignees, func(a domain.Assignee) bool { return a.ID == id })
	return nil
}

// CreateTeam stores a team under a new id.
func (m *MockAPI) CreateTeam(_ context.Context, team domain.Team) (*domain.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateTeam(%s)", team.TeamName)
	if m.TeamErr != nil {
		return nil, m.TeamErr
	}
	team.ID = m.nextID()
	c := team
	m.Teams[team.ID] = &c
	return &team, nil
}

// GetTeam returns one team.
func (m *MockAPI) GetTeam(_ context.Context, id int) (*domain.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetTeam(%d)", id)
	if m.TeamErr != nil {
		return nil, m.TeamErr
	}
	t, ok := m.Teams[id]
	if !ok {
		return nil, domain.ErrTeamNotFound
	}
	c := *t
	return &c, nil
}

// DeleteTeam removes a team.
func (m *MockAPI) DeleteTeam(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteTeam(%d)", id)
	if m.TeamErr != nil {
		return m.TeamErr
	}
	delete(m.Teams, id)
	return nil
}

// ListTeamUsers filters memberships by team.
func (m *MockAPI) ListTeamUsers(_ context.Context, teamID int) ([]domain.TeamUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListTeamUsers(%d)", teamID)
	if m.TeamUserErr != nil {
		return nil, m.TeamUserErr
	}
	var out []domain.TeamUser
	for _, tu := range m.TeamUsers {
		if tu.TeamID == teamID {
			out = append(out, tu)
		}
	}
	return out, nil
}

// ListUserTeams filters memberships by user.
func (m *MockAPI) ListUserTeams(_ context.Context, userID string) ([]domain.TeamUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListUserTeams(%s)", userID)
	if m.TeamUserErr != nil {
		return nil, m.TeamUserErr
	}
	var out []domain.TeamUser
	for _, tu := range m.TeamUsers {
		if tu.UserID == userID {
			out = append(out, tu)
		}
	}
	return out, nil
}

// AddTeamUser stores a membership under a new id.
func (m *MockAPI) AddTeamUser(_ context.Context, tu domain.TeamUser) (*domain.TeamUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("AddTeamUser(%d,%s)", tu.TeamID, tu.UserID)
	if m.TeamUserErr != nil {
		return nil, m.TeamUserErr
	}
	tu.ID = m.nextID()
	m.TeamUsers = append(m.TeamUsers, tu)
	return &tu, nil
}

// RemoveTeamUser removes a membership.
func (m *MockAPI) RemoveTeamUser(_ context.Context, teamID int, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("RemoveTeamUser(%d,%s)", teamID, userID)
	if m.TeamUserErr != nil {
		return m.TeamUserErr
	}
	m.TeamUsers = slices.DeleteFunc(m.TeamUsers, func(tu domain.TeamUser) bool {
		return tu.TeamID == teamID && tu.UserID == userID
	})
	return nil
}

// ListUsers returns all users ordered by key.
func (m *MockAPI) ListUsers(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListUsers")
	if m.UserErr != nil {
		return nil, m.UserErr
	}
	keys := make([]string, 0, len(m.Users))
	for k := range m.Users {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]domain.User, 0, len(keys))
	for _, k := range keys {
		out = append(out, *m.Users[k])
	}
	return out, nil
}

// GetUser returns one user.
func (m *MockAPI) GetUser(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetUser(%s)", id)
	if m.UserErr != nil {
		return nil, m.UserErr
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	c.Password = ""
	return &c, nil
}

// CreateUser stores a user under a generated uuid.
func (m *MockAPI) CreateUser(_ context.Context, user domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateUser(%s)", user.Username)
	if m.UserErr != nil {
		return nil, m.UserErr
	}
	user.ID = m.nextID()
	if user.UUID == "" {
		user.UUID = "u-" + strconv.Itoa(user.ID)
	}
	c := user
	m.Users[user.UUID] = &c
	user.Password = ""
	return &user, nil
}

// UpdateUser replaces a user.
func (m *MockAPI) UpdateUser(_ context.Context, id string, user domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UpdateUser(%s)", id)
	if m.UserErr != nil {
		return nil, m.UserErr
	}
	cur, ok := m.Users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.UUID = cur.UUID
	user.ID = cur.ID
	c := user
	m.Users[id] = &c
	user.Password = ""
	return &user, nil
}

// DeleteUser removes a user.
func (m *MockAPI) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteUser(%s)", id)
	if m.UserErr != nil {
		return m.UserErr
	}
	delete(m.Users, id)
	return nil
}

// Login returns the configured Session.
func (m *MockAPI) Login(_ context.Context, username, _ string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Login(%s)", username)
	if m.LoginErr != nil {
		return nil, m.LoginErr
	}
	if m.Session == nil {
		return &domain.Session{UUID: "u-" + username, Username: username, Token: "token"}, nil
	}
	s := *m.Session
	return &s, nil
}

// Register creates a user like CreateUser.
func (m *MockAPI) Register(ctx context.Context, user domain.User) (*domain.User, error) {
	m.mu.Lock()
	err := m.RegisterErr
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return m.CreateUser(ctx, user)
}

// MockSessionStore is a test double for domain.SessionStore.
type MockSessionStore struct {
	Session *domain.Session
	LoadErr error
	SaveErr error
}

// Load returns the stored session.
func (m *MockSessionStore) Load() (*domain.Session, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Session == nil {
		return nil, nil
	}
	s := *m.Session
	return &s, nil
}

// Save stores the session.
func (m *MockSessionStore) Save(s domain.Session) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Session = &s
	return nil
}

// Clear removes the session.
func (m *MockSessionStore) Clear() error {
	m.Session = nil
	return nil
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config       *domain.Config
	GlobalConfig *domain.Config
	LoadErr      error
}

// NewMockConfigLoader creates a MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{Config: domain.NewDefaultConfig()}
}

// Load returns the configured config.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns the global config, or the merged one if unset.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.GlobalConfig != nil {
		return m.GlobalConfig, nil
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
type MockConfigManager struct {
	ProjectInfo  domain.ConfigInfo
	GlobalInfo   domain.ConfigInfo
	InitErr      error
	InitProjectN int
	InitGlobalN  int
}

// GetProjectConfigInfo returns ProjectInfo.
func (m *MockConfigManager) GetProjectConfigInfo() domain.ConfigInfo { return m.ProjectInfo }

// GetGlobalConfigInfo returns GlobalInfo.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo { return m.GlobalInfo }

// InitProjectConfig counts the call.
func (m *MockConfigManager) InitProjectConfig(_ *domain.Config) error {
	if m.InitErr != nil {
		return m.InitErr
	}
	m.InitProjectN++
	return nil
}

// InitGlobalConfig counts the call.
func (m *MockConfigManager) InitGlobalConfig(_ *domain.Config) error {
	if m.InitErr != nil {
		return m.InitErr
	}
	m.InitGlobalN++
	return nil
}

// MockLogger records log lines as "LEVEL category: msg".
type MockLogger struct {
	Lines []string
	mu    sync.Mutex
}

func (m *MockLogger) add(level string, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lines = append(m.Lines, level+" "+category+": "+msg)
}

// Info records an info line.
func (m *MockLogger) Info(_ int, category, msg string) { m.add("INFO", category, msg) }

// Debug records a debug line.
func (m *MockLogger) Debug(_ int, category, msg string) { m.add("DEBUG", category, msg) }

// Warn records a warn line.
func (m *MockLogger) Warn(_ int, category, msg string) { m.add("WARN", category, msg) }

// Error records an error line.
func (m *MockLogger) Error(_ int, category, msg string) { m.add("ERROR", category, msg) }

// Contains reports whether any recorded line contains substr.
func (m *MockLogger) Contains(substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.Lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

// Ensure MockScheduler implements domain.Scheduler.
var _ domain.Scheduler = (*MockScheduler)(nil)

// MockScheduler records scheduled jobs; Fire runs them synchronously.
type MockScheduler struct {
	ScheduleErr error
	Specs       []string
	jobs        []func()
	Started     bool
	Stopped     bool
	mu          sync.Mutex
}

// Schedule records the spec and job.
func (m *MockScheduler) Schedule(spec string, job func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ScheduleErr != nil {
		return m.ScheduleErr
	}
	m.Specs = append(m.Specs, spec)
	m.jobs = append(m.jobs, job)
	return nil
}

// Start marks the scheduler as started.
func (m *MockScheduler) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Started = true
}

// Stop marks the scheduler as stopped.
func (m *MockScheduler) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stopped = true
}

// Fire runs every scheduled job once.
func (m *MockScheduler) Fire() {
	m.mu.Lock()
	jobs := slices.Clone(m.jobs)
	m.mu.Unlock()
	for _, job := range jobs {
		job()
	}
}
