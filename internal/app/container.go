// Package app provides the dependency injection container for the application.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/runoshun/taskdesk/internal/board"
	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/infra/apiclient"
	"github.com/runoshun/taskdesk/internal/infra/config"
	"github.com/runoshun/taskdesk/internal/infra/logging"
	"github.com/runoshun/taskdesk/internal/infra/scheduler"
	"github.com/runoshun/taskdesk/internal/infra/sessionstore"
	"github.com/runoshun/taskdesk/internal/store"
	"github.com/runoshun/taskdesk/internal/usecase"
)

// Config holds the resolved paths the container was built from.
type Config struct {
	ProjectDir  string // Directory holding .taskdesk.toml
	SessionPath string // Persisted login state
	LogPath     string // Log file
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	API           domain.API
	Sessions      domain.SessionStore
	Clock         domain.Clock
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	Logger        domain.Logger

	// Shared task cache and the repository writing into it
	Repo *store.Repository

	// AppConfig is the merged configuration (including load warnings).
	AppConfig *domain.Config

	closers []func() error

	// Configuration
	Config Config
}

// New creates a new Container for the given working directory.
func New(dir string) (*Container, error) {
	configLoader := config.NewLoader(dir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.New(appConfig.Log.File, logging.ParseLevel(appConfig.Log.Level))
	sessions := sessionstore.New(appConfig.Session.Path)

	c := &Container{
		Sessions:      sessions,
		Clock:         domain.RealClock{},
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(dir),
		Logger:        logger,
		AppConfig:     appConfig,
		closers:       []func() error{logger.Close},
		Config: Config{
			ProjectDir:  dir,
			SessionPath: appConfig.Session.Path,
			LogPath:     appConfig.Log.File,
		},
	}

	api, err := c.newAPI()
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.API = api
	c.Repo = store.NewRepository(api, store.New(logger), logger)
	return c, nil
}

// newAPI builds the REST client, wrapped by the Redis cache when configured.
func (c *Container) newAPI() (domain.API, error) {
	cfg := c.AppConfig
	client, err := apiclient.New(cfg.API.BaseURL, cfg.API.TimeoutDuration(),
		apiclient.WithTokenSource(c.Sessions),
		apiclient.WithLogger(c.Logger),
	)
	if err != nil {
		return nil, err
	}
	if !cfg.Cache.Enabled() {
		return client, nil
	}

	rdb, err := apiclient.NewRedisClient(cfg.Cache.RedisURL)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, rdb.Close)
	return apiclient.NewCachedClient(client, rdb, cfg.Cache.TTLDuration(), c.Logger), nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, api domain.API, sessions domain.SessionStore, clock domain.Clock, logger domain.Logger) *Container {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Container{
		API:       api,
		Sessions:  sessions,
		Clock:     clock,
		Logger:    logger,
		Repo:      store.NewRepository(api, store.New(logger), logger),
		AppConfig: domain.NewDefaultConfig(),
		Config:    cfg,
	}
}

// Close releases the log file and cache connection.
func (c *Container) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil && !errors.Is(err, redis.ErrClosed) {
			firstErr = err
		}
	}
	c.closers = nil
	if firstErr != nil {
		return fmt.Errorf("close: %w", firstErr)
	}
	return nil
}

// Store returns the shared task cache.
func (c *Container) Store() *store.Store {
	return c.Repo.Store()
}

// NewReconciler returns a drag-and-drop reconciler over the shared cache.
func (c *Container) NewReconciler() *board.Reconciler {
	return board.NewReconciler(c.Store(), c.Repo, c.Logger)
}

// NewEditor returns a task overlay over the shared cache.
func (c *Container) NewEditor() *board.Editor {
	return board.NewEditor(c.Repo, c.Store(), c.Logger)
}

// RefreshInterval returns the TUI auto refresh period (0 disables it).
func (c *Container) RefreshInterval() time.Duration {
	return c.AppConfig.TUI.RefreshDuration()
}

// UseCase factory methods

// LoginUseCase returns a new Login use case.
func (c *Container) LoginUseCase() *usecase.Login {
	return usecase.NewLogin(c.API, c.Sessions, c.Clock, c.Logger)
}

// LogoutUseCase returns a new Logout use case.
func (c *Container) LogoutUseCase() *usecase.Logout {
	return usecase.NewLogout(c.Sessions, c.Logger)
}

// RegisterUseCase returns a new Register use case.
func (c *Container) RegisterUseCase() *usecase.Register {
	return usecase.NewRegister(c.API, c.Logger)
}

// WhoamiUseCase returns a new Whoami use case.
func (c *Container) WhoamiUseCase() *usecase.Whoami {
	return usecase.NewWhoami(c.Sessions, c.API, c.Clock, c.Logger)
}

// ShowBoardUseCase returns a new ShowBoard use case.
func (c *Container) ShowBoardUseCase() *usecase.ShowBoard {
	return usecase.NewShowBoard(c.Repo, c.Sessions, c.Clock)
}

// WatchUseCase returns a new Watch use case with its own scheduler.
func (c *Container) WatchUseCase() *usecase.Watch {
	return usecase.NewWatch(c.ShowBoardUseCase(), scheduler.New(time.Local, c.Logger), c.Logger)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.ShowBoardUseCase())
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Repo, c.Sessions, c.Clock)
}

// CreateTaskUseCase returns a new CreateTask use case.
func (c *Container) CreateTaskUseCase() *usecase.CreateTask {
	return usecase.NewCreateTask(c.Repo, c.Logger)
}

// ImportTasksUseCase returns a new ImportTasks use case.
func (c *Container) ImportTasksUseCase() *usecase.ImportTasks {
	return usecase.NewImportTasks(c.Repo, c.Logger)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Repo, c.Logger)
}

// MoveTaskUseCase returns a new MoveTask use case.
func (c *Container) MoveTaskUseCase() *usecase.MoveTask {
	return usecase.NewMoveTask(c.Repo, c.NewReconciler())
}

// SetVisibilityUseCase returns a new SetVisibility use case.
func (c *Container) SetVisibilityUseCase() *usecase.SetVisibility {
	return usecase.NewSetVisibility(c.Repo, c.Logger)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Repo, c.Logger)
}

// GetTagsUseCase returns a new GetTags use case.
func (c *Container) GetTagsUseCase() *usecase.GetTags {
	return usecase.NewGetTags(c.API)
}

// ListAssigneesUseCase returns a new ListAssignees use case.
func (c *Container) ListAssigneesUseCase() *usecase.ListAssignees {
	return usecase.NewListAssignees(c.Repo)
}

// AssignUserUseCase returns a new AssignUser use case.
func (c *Container) AssignUserUseCase() *usecase.AssignUser {
	return usecase.NewAssignUser(c.API, c.API, c.Logger)
}

// UnassignUserUseCase returns a new UnassignUser use case.
func (c *Container) UnassignUserUseCase() *usecase.UnassignUser {
	return usecase.NewUnassignUser(c.API, c.Logger)
}

// ListTeamsUseCase returns a new ListTeams use case.
func (c *Container) ListTeamsUseCase() *usecase.ListTeams {
	return usecase.NewListTeams(c.API, c.Sessions, c.Clock)
}

// CreateTeamUseCase returns a new CreateTeam use case.
func (c *Container) CreateTeamUseCase() *usecase.CreateTeam {
	return usecase.NewCreateTeam(c.API, c.Sessions, c.Clock, c.Logger)
}

// DeleteTeamUseCase returns a new DeleteTeam use case.
func (c *Container) DeleteTeamUseCase() *usecase.DeleteTeam {
	return usecase.NewDeleteTeam(c.API, c.Logger)
}

// AddTeamMemberUseCase returns a new AddTeamMember use case.
func (c *Container) AddTeamMemberUseCase() *usecase.AddTeamMember {
	return usecase.NewAddTeamMember(c.API, c.Logger)
}

// RemoveTeamMemberUseCase returns a new RemoveTeamMember use case.
func (c *Container) RemoveTeamMemberUseCase() *usecase.RemoveTeamMember {
	return usecase.NewRemoveTeamMember(c.API, c.Logger)
}

// ListUsersUseCase returns a new ListUsers use case.
func (c *Container) ListUsersUseCase() *usecase.ListUsers {
	return usecase.NewListUsers(c.API)
}

// CreateUserUseCase returns a new CreateUser use case.
func (c *Container) CreateUserUseCase() *usecase.CreateUser {
	return usecase.NewCreateUser(c.API, c.Logger)
}

// EditUserUseCase returns a new EditUser use case.
func (c *Container) EditUserUseCase() *usecase.EditUser {
	return usecase.NewEditUser(c.API, c.Logger)
}

// DeleteUserUseCase returns a new DeleteUser use case.
func (c *Container) DeleteUserUseCase() *usecase.DeleteUser {
	return usecase.NewDeleteUser(c.API, c.Logger)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}
