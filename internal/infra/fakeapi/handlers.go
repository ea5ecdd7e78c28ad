package fakeapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/runoshun/taskdesk/internal/domain"
)

func (s *Server) register(e *echo.Echo) {
	e.GET("/tasks/", s.listTasks)
	e.POST("/tasks/", s.createTask)
	e.GET("/tasks/id", s.getTask)
	e.DELETE("/tasks/id", s.deleteTask)
	e.PUT("/tasks/id/:id", s.updateTask)
	e.POST("/task/change-priority", s.changePriority)
	e.POST("/task/change-visibility", s.changeVisibility)
	e.GET("/task/get-tags", s.getTags)
	e.GET("/task/user_id", s.userAssignments)

	e.GET("/assignees/", s.listAssignees)
	e.POST("/assignees/", s.createAssignee)
	e.DELETE("/assignees/id", s.deleteAssignee)
	e.GET("/assignee/task_id", s.taskAssignees)

	e.POST("/team/", s.createTeam)
	e.GET("/team/id", s.getTeam)
	e.DELETE("/team/id", s.deleteTeam)
	e.GET("/team_users/", s.listTeamUsers)
	e.POST("/team_users/", s.addTeamUser)
	e.DELETE("/team_users/id", s.removeTeamUser)
	e.GET("/team_user/user_id", s.userTeams)

	e.GET("/users/", s.listUsers)
	e.POST("/users/", s.createUser)
	e.GET("/users/id", s.getUser)
	e.PUT("/users/id", s.updateUser)
	e.DELETE("/users/id", s.deleteUser)
	e.POST("/user/login", s.login)
	e.POST("/user/register", s.registerUser)
}

func message(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, map[string]string{"message": msg})
}

func notFound(what string) error {
	return echo.NewHTTPError(http.StatusNotFound, what+" not found")
}

func invalid(msg string) error {
	return echo.NewHTTPError(http.StatusUnprocessableEntity, msg)
}

// Tasks

func (s *Server) listTasks(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Task, 0, len(s.taskOrder))
	for _, id := range s.taskOrder {
		out = append(out, s.tasks[id].Clone())
	}
	return c.JSON(http.StatusOK, map[string]any{"tasks_all": out})
}

func (s *Server) getTask(c echo.Context) error {
	id, err := queryInt(c, "id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return notFound("task")
	}
	return c.JSON(http.StatusOK, map[string]any{"task": t})
}

func checkTask(t *domain.Task) error {
	if strings.TrimSpace(t.TaskName) == "" {
		return invalid("task_name is required")
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityNormal
	}
	if !t.Priority.IsValid() {
		return invalid("invalid priority: " + string(t.Priority))
	}
	if t.Visibility == "" {
		t.Visibility = domain.VisibilityPrivate
	}
	if !t.Visibility.IsValid() {
		return invalid("invalid visibility: " + string(t.Visibility))
	}
	t.TaskID = strings.ToUpper(strings.TrimSpace(t.TaskID))
	return nil
}

func (s *Server) createTask(c echo.Context) error {
	var t domain.Task
	if err := c.Bind(&t); err != nil {
		return err
	}
	if err := checkTask(&t); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.allocID()
	s.putTask(t)
	return c.JSON(http.StatusCreated, map[string]any{"task": t})
}

func (s *Server) updateTask(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return invalid("id must be an integer")
	}
	var t domain.Task
	if err := c.Bind(&t); err != nil {
		return err
	}
	if err := checkTask(&t); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return notFound("task")
	}
	t.ID = id
	s.putTask(t)
	return c.JSON(http.StatusOK, map[string]any{"task": t})
}

func (s *Server) deleteTask(c echo.Context) error {
	id, err := queryInt(c, "id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return notFound("task")
	}
	s.removeTask(id)
	return message(c, "task deleted")
}

type priorityBody struct {
	Priority domain.Priority `json:"priority"`
	TaskID   int             `json:"task_id"`
}

func (s *Server) changePriority(c echo.Context) error {
	var body priorityBody
	if err := c.Bind(&body); err != nil {
		return err
	}
	if !body.Priority.IsValid() {
		return invalid("invalid priority: " + string(body.Priority))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[body.TaskID]
	if !ok {
		return notFound("task")
	}
	t.Priority = body.Priority
	s.putTask(t)
	return c.JSON(http.StatusOK, map[string]any{"task": t})
}

type visibilityBody struct {
	Visibility domain.Visibility `json:"visibility"`
	TaskID     int               `json:"task_id"`
}

func (s *Server) changeVisibility(c echo.Context) error {
	var body visibilityBody
	if err := c.Bind(&body); err != nil {
		return err
	}
	if !body.Visibility.IsValid() {
		return invalid("invalid visibility: " + string(body.Visibility))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[body.TaskID]
	if !ok {
		return notFound("task")
	}
	t.Visibility = body.Visibility
	s.putTask(t)
	return c.JSON(http.StatusOK, map[string]any{"task": t})
}

func (s *Server) getTags(c echo.Context) error {
	id, err := queryInt(c, "task_id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return notFound("task")
	}
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return c.JSON(http.StatusOK, map[string]any{"tags": tags})
}

// Assignees

func (s *Server) filterAssignees(keep func(domain.Assignee) bool) []domain.Assignee {
	out := []domain.Assignee{}
	for _, a := range s.assignees {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s *Server) listAssignees(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.filterAssignees(func(domain.Assignee) bool { return true })
	return c.JSON(http.StatusOK, map[string]any{"data": all})
}

func (s *Server) taskAssignees(c echo.Context) error {
	id, err := queryInt(c, "task_id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.filterAssignees(func(a domain.Assignee) bool { return a.TaskID == id })
	return c.JSON(http.StatusOK, map[string]any{"data": data})
}

func (s *Server) userAssignments(c echo.Context) error {
	userID := c.QueryParam("user_id")
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.filterAssignees(func(a domain.Assignee) bool { return a.UserID == userID })
	return c.JSON(http.StatusOK, map[string]any{"data": data})
}

func (s *Server) createAssignee(c echo.Context) error {
	var a domain.Assignee
	if err := c.Bind(&a); err != nil {
		return err
	}
	if a.UserID == "" {
		return invalid("user_id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[a.TaskID]; !ok {
		return notFound("task")
	}
	if rec, ok := s.users[a.UserID]; ok && a.UserName == "" {
		a.UserName = rec.user.Name
	}
	a.ID = s.allocID()
	s.assignees = append(s.assignees, a)
	return c.JSON(http.StatusCreated, map[string]any{"assignee": a})
}

func (s *Server) deleteAssignee(c echo.Context) error {
	id, err := queryInt(c, "id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.assignees {
		if a.ID == id {
			s.assignees = append(s.assignees[:i], s.assignees[i+1:]...)
			return message(c, "assignee deleted")
		}
	}
	return notFound("assignee")
}

// Teams

type teamBody struct {
	TeamName string `json:"team_name"`
	Limit    int    `json:"limit"`
}

func (s *Server) createTeam(c echo.Context) error {
	var body teamBody
	if err := c.Bind(&body); err != nil {
		return err
	}
	if strings.TrimSpace(body.TeamName) == "" {
		return invalid("team_name is required")
	}
	if body.Limit < 1 {
		return invalid("limit must be at least 1")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := domain.Team{
		ID:        s.allocID(),
		TeamName:  body.TeamName,
		Limit:     body.Limit,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}
	s.teams[t.ID] = t
	return c.JSON(http.StatusCreated, map[string]any{"team": t})
}

func (s *Server) getTeam(c echo.Context) error {
	id, err := queryInt(c, "id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[id]
	if !ok {
		return notFound("team")
	}
	return c.JSON(http.StatusOK, map[string]any{"team_one": t})
}

func (s *Server) deleteTeam(c echo.Context) error {
	id, err := queryInt(c, "id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[id]; !ok {
		return notFound("team")
	}
	delete(s.teams, id)
	kept := s.teamUsers[:0]
	for _, tu := range s.teamUsers {
		if tu.TeamID != id {
			kept = append(kept, tu)
		}
	}
	s.teamUsers = kept
	return message(c, "team deleted")
}

func (s *Server) filterTeamUsers(keep func(domain.TeamUser) bool) []domain.TeamUser {
	out := []domain.TeamUser{}
	for _, tu := range s.teamUsers {
		if keep(tu) {
			out = append(out, tu)
		}
	}
	return out
}

func (s *Server) listTeamUsers(c echo.Context) error {
	id, err := queryInt(c, "team_id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.filterTeamUsers(func(tu domain.TeamUser) bool { return tu.TeamID == id })
	return c.JSON(http.StatusOK, map[string]any{"team_users": rows})
}

func (s *Server) userTeams(c echo.Context) error {
	userID := c.QueryParam("user_id")
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.filterTeamUsers(func(tu domain.TeamUser) bool { return tu.UserID == userID })
	return c.JSON(http.StatusOK, map[string]any{"user_teams": rows})
}

func (s *Server) addTeamUser(c echo.Context) error {
	var tu domain.TeamUser
	if err := c.Bind(&tu); err != nil {
		return err
	}
	if tu.UserID == "" {
		return invalid("user_id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.teams[tu.TeamID]
	if !ok {
		return notFound("team")
	}
	for _, row := range s.teamUsers {
		if row.TeamID == tu.TeamID && row.UserID == tu.UserID {
			return echo.NewHTTPError(http.StatusBadRequest, "user is already a member")
		}
	}
	if s.teamSize(tu.TeamID) >= team.Limit {
		return echo.NewHTTPError(http.StatusBadRequest, "team limit reached")
	}
	tu.ID = s.allocID()
	s.teamUsers = append(s.teamUsers, tu)
	return c.JSON(http.StatusCreated, map[string]any{"team_user": tu})
}

func (s *Server) removeTeamUser(c echo.Context) error {
	teamID, err := queryInt(c, "team_id")
	if err != nil {
		return err
	}
	userID := c.QueryParam("user_id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tu := range s.teamUsers {
		if tu.TeamID != teamID || tu.UserID != userID {
			continue
		}
		if s.teamSize(teamID) <= 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "cannot remove the last member")
		}
		s.teamUsers = append(s.teamUsers[:i], s.teamUsers[i+1:]...)
		return message(c, "member removed")
	}
	return notFound("team member")
}

// Users

// lookupUser accepts either the UUID or the numeric id.
func (s *Server) lookupUser(key string) (*userRecord, bool) {
	if rec, ok := s.users[key]; ok {
		return rec, true
	}
	if n, err := strconv.Atoi(key); err == nil {
		for _, rec := range s.users {
			if rec.user.ID == n {
				return rec, true
			}
		}
	}
	return nil, false
}

func publicUser(rec *userRecord) domain.User {
	u := rec.user
	u.Password = ""
	return u
}

func (s *Server) listUsers(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.User, 0, len(s.users))
	for _, rec := range s.users {
		out = append(out, publicUser(rec))
	}
	sortUsers(out)
	return c.JSON(http.StatusOK, map[string]any{"users_all": out})
}

func checkUser(u domain.User, needPassword bool) error {
	if strings.TrimSpace(u.Username) == "" {
		return invalid("username is required")
	}
	if !domain.IsValidEmail(u.Email) {
		return invalid("invalid email address")
	}
	if needPassword && u.Password == "" {
		return invalid("password is required")
	}
	return nil
}

func (s *Server) addUser(u domain.User) (domain.User, error) {
	for _, rec := range s.users {
		if rec.user.Username == u.Username {
			return domain.User{}, echo.NewHTTPError(http.StatusBadRequest, "username already taken")
		}
	}
	u.ID = s.allocID()
	if u.UUID == "" {
		u.UUID = uuid.NewString()
	}
	rec := &userRecord{user: u, password: u.Password}
	s.users[u.UUID] = rec
	return publicUser(rec), nil
}

func (s *Server) createUser(c echo.Context) error {
	var u domain.User
	if err := c.Bind(&u); err != nil {
		return err
	}
	if err := checkUser(u, true); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.addUser(u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{"user": out})
}

func (s *Server) getUser(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.lookupUser(c.QueryParam("id"))
	if !ok {
		return notFound("user")
	}
	return c.JSON(http.StatusOK, map[string]any{"user": publicUser(rec)})
}

func (s *Server) updateUser(c echo.Context) error {
	var u domain.User
	if err := c.Bind(&u); err != nil {
		return err
	}
	if err := checkUser(u, false); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.lookupUser(c.QueryParam("id"))
	if !ok {
		return notFound("user")
	}
	rec.user.Username = u.Username
	rec.user.Name = u.Name
	rec.user.Email = u.Email
	if u.Password != "" {
		rec.password = u.Password
	}
	return c.JSON(http.StatusOK, map[string]any{"user": publicUser(rec)})
}

func (s *Server) deleteUser(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.lookupUser(c.QueryParam("id"))
	if !ok {
		return notFound("user")
	}
	delete(s.users, rec.user.UUID)
	return message(c, "user deleted")
}

type loginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) login(c echo.Context) error {
	var body loginBody
	if err := c.Bind(&body); err != nil {
		return err
	}
	s.mu.Lock()
	var match *userRecord
	for _, rec := range s.users {
		if rec.user.Username == body.Username && rec.password == body.Password {
			match = rec
			break
		}
	}
	s.mu.Unlock()
	if match == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	token, err := s.issueToken(match.user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.Session{
		UUID:     match.user.UUID,
		Username: match.user.Username,
		Token:    token,
	})
}

func (s *Server) registerUser(c echo.Context) error {
	var u domain.User
	if err := c.Bind(&u); err != nil {
		return err
	}
	if err := checkUser(u, true); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.addUser(u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{"user": out})
}
