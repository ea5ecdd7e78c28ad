package fakeapi

import (
	"slices"

	"github.com/runoshun/taskdesk/internal/domain"
)

func sortUsers(users []domain.User) {
	slices.SortFunc(users, func(a, b domain.User) int { return a.ID - b.ID })
}

// SeedTask stores a task. A zero ID is assigned.
func (s *Server) SeedTask(t domain.Task) domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.allocID()
	} else if t.ID > s.nextID {
		s.nextID = t.ID
	}
	s.putTask(t)
	return t
}

// SeedUser stores a user with a login password and returns it without the password.
func (s *Server) SeedUser(u domain.User, password string) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Password = password
	out, err := s.addUser(u)
	if err != nil {
		panic(err)
	}
	return out
}

// SeedTeam stores a team.
func (s *Server) SeedTeam(name string, limit int) domain.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := domain.Team{ID: s.allocID(), TeamName: name, Limit: limit}
	s.teams[t.ID] = t
	return t
}

// SeedTeamUser adds a membership row without checking the limit.
func (s *Server) SeedTeamUser(tu domain.TeamUser) domain.TeamUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	tu.ID = s.allocID()
	s.teamUsers = append(s.teamUsers, tu)
	return tu
}

// SeedAssignee adds an assignment.
func (s *Server) SeedAssignee(a domain.Assignee) domain.Assignee {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.allocID()
	s.assignees = append(s.assignees, a)
	return a
}

// Task returns the stored task.
func (s *Server) Task(id int) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	return t.Clone(), ok
}

// SeedDemo loads a small board: two users sharing a team and a handful of
// tasks across every column. Both users log in with password "demo".
func (s *Server) SeedDemo() {
	alice := s.SeedUser(domain.User{Username: "alice", Name: "Alice", Email: "alice@example.com"}, "demo")
	bob := s.SeedUser(domain.User{Username: "bob", Name: "Bob", Email: "bob@example.com"}, "demo")

	team := s.SeedTeam("Platform", 3)
	all := domain.DefaultCapabilities()
	for _, u := range []domain.User{alice, bob} {
		tu := domain.TeamUser{TeamID: team.ID, UserID: u.UUID}
		tu.SetCapabilities(all)
		s.SeedTeamUser(tu)
	}

	tasks := []domain.Task{
		{TaskID: "WEB-1", TaskName: "Fix login redirect", AskDescription: "Users land on a blank page.", Priority: domain.PriorityHigh, Visibility: domain.VisibilityPublic, Tags: []string{"bug"}},
		{TaskID: "WEB-2", TaskName: "Dark mode", AskDescription: "Add a theme toggle.", Priority: domain.PriorityMedium, Visibility: domain.VisibilityPublic, Tags: []string{"ui"}},
		{TaskID: "OPS-1", TaskName: "Rotate API keys", AskDescription: "Quarterly rotation.", Priority: domain.PriorityHigh, Visibility: domain.VisibilityPrivate, DueDate: "2026-12-01"},
		{TaskID: "OPS-2", TaskName: "Upgrade database", AskDescription: "Minor version bump.", Priority: domain.PriorityNormal, Visibility: domain.VisibilityPrivate},
		{TaskID: "DOC-1", TaskName: "Write onboarding guide", AskDescription: "For new contributors.", Priority: domain.PriorityNormal, Visibility: domain.VisibilityPublic, Tags: []string{"docs"}},
	}
	for i, t := range tasks {
		t = s.SeedTask(t)
		if !t.IsPublic() {
			a := domain.Assignee{TaskID: t.ID, UserID: alice.UUID, UserName: alice.Name}
			a.SetCapabilities(all)
			s.SeedAssignee(a)
			if i%2 == 0 {
				b := domain.Assignee{TaskID: t.ID, UserID: bob.UUID, UserName: bob.Name}
				b.SetCapabilities(domain.Capabilities{View: true})
				s.SeedAssignee(b)
			}
		}
	}
}
