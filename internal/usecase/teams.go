package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/runoshun/taskdesk/internal/domain"
)

// teamDeps is what every team use case needs.
type teamDeps interface {
	domain.TeamAPI
	domain.UserAPI
}

// loadRoster fetches a team with its members. users maps user id to profile;
// members whose profile is missing keep only their id.
func loadRoster(ctx context.Context, api domain.TeamAPI, teamID int, users map[string]domain.User) (*domain.TeamRoster, error) {
	team, err := api.GetTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("load team %d: %w", teamID, err)
	}
	rows, err := api.ListTeamUsers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("load members of team %d: %w", teamID, err)
	}

	roster := &domain.TeamRoster{Team: *team}
	for _, row := range rows {
		u, ok := users[row.UserID]
		if !ok {
			u = domain.User{UUID: row.UserID}
		}
		roster.Members = append(roster.Members, domain.Member{User: u, Capabilities: row.Capabilities()})
	}
	return roster, nil
}

func usersByID(ctx context.Context, api domain.UserAPI) (map[string]domain.User, error) {
	users, err := api.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	out := make(map[string]domain.User, len(users)*2)
	for _, u := range users {
		if u.UUID != "" {
			out[u.UUID] = u
		}
		if k := u.Key(); k != "" {
			out[k] = u
		}
	}
	return out, nil
}

// ListTeamsInput is empty.
type ListTeamsInput struct{}

// ListTeamsOutput contains the current user's teams, ordered by name.
type ListTeamsOutput struct {
	Teams []domain.TeamRoster
}

// ListTeams shows the teams the logged-in user belongs to, with members.
type ListTeams struct {
	api      teamDeps
	sessions domain.SessionStore
	clock    domain.Clock
}

// NewListTeams creates a new ListTeams use case.
func NewListTeams(api teamDeps, sessions domain.SessionStore, clock domain.Clock) *ListTeams {
	return &ListTeams{api: api, sessions: sessions, clock: clock}
}

// Execute loads every team of the current user.
func (uc *ListTeams) Execute(ctx context.Context, _ ListTeamsInput) (*ListTeamsOutput, error) {
	s, err := requireSession(uc.sessions, uc.clock)
	if err != nil {
		return nil, err
	}
	memberships, err := uc.api.ListUserTeams(ctx, s.UUID)
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	users, err := usersByID(ctx, uc.api)
	if err != nil {
		return nil, err
	}

	out := &ListTeamsOutput{}
	seen := make(map[int]bool, len(memberships))
	for _, m := range memberships {
		if seen[m.TeamID] {
			continue
		}
		seen[m.TeamID] = true
		roster, err := loadRoster(ctx, uc.api, m.TeamID, users)
		if err != nil {
			return nil, err
		}
		out.Teams = append(out.Teams, *roster)
	}
	slices.SortFunc(out.Teams, func(a, b domain.TeamRoster) int {
		if c := strings.Compare(a.Team.TeamName, b.Team.TeamName); c != 0 {
			return c
		}
		return a.Team.ID - b.Team.ID
	})
	return out, nil
}

// CreateTeamInput contains the team form.
type CreateTeamInput struct {
	Form domain.TeamForm
}

// CreateTeamOutput contains the created team.
type CreateTeamOutput struct {
	Team domain.Team
}

// CreateTeam creates a team with the logged-in user as its first member.
type CreateTeam struct {
	api      domain.TeamAPI
	sessions domain.SessionStore
	clock    domain.Clock
	logger   domain.Logger
}

// NewCreateTeam creates a new CreateTeam use case.
func NewCreateTeam(api domain.TeamAPI, sessions domain.SessionStore, clock domain.Clock, logger domain.Logger) *CreateTeam {
	return &CreateTeam{api: api, sessions: sessions, clock: clock, logger: logger}
}

// Execute validates the form, creates the team and joins it.
func (uc *CreateTeam) Execute(ctx context.Context, in CreateTeamInput) (*CreateTeamOutput, error) {
	team, err := in.Form.Validate()
	if err != nil {
		return nil, err
	}
	s, err := requireSession(uc.sessions, uc.clock)
	if err != nil {
		return nil, err
	}

	created, err := uc.api.CreateTeam(ctx, team)
	if err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}
	owner := domain.TeamUser{TeamID: created.ID, UserID: s.UUID}
	owner.SetCapabilities(domain.DefaultCapabilities())
	if _, err := uc.api.AddTeamUser(ctx, owner); err != nil {
		return nil, fmt.Errorf("join team %d: %w", created.ID, err)
	}
	uc.logger.Info(0, "team", fmt.Sprintf("created team %q (limit %d)", created.TeamName, created.Limit))
	return &CreateTeamOutput{Team: *created}, nil
}

// DeleteTeamInput contains the team.
type DeleteTeamInput struct {
	TeamID int
}

// DeleteTeamOutput is empty.
type DeleteTeamOutput struct{}

// DeleteTeam removes a team.
type DeleteTeam struct {
	api    domain.TeamAPI
	logger domain.Logger
}

// NewDeleteTeam creates a new DeleteTeam use case.
func NewDeleteTeam(api domain.TeamAPI, logger domain.Logger) *DeleteTeam {
	return &DeleteTeam{api: api, logger: logger}
}

// Execute deletes the team.
func (uc *DeleteTeam) Execute(ctx context.Context, in DeleteTeamInput) (*DeleteTeamOutput, error) {
	if err := uc.api.DeleteTeam(ctx, in.TeamID); err != nil {
		return nil, fmt.Errorf("delete team %d: %w", in.TeamID, err)
	}
	uc.logger.Info(0, "team", fmt.Sprintf("deleted team %d", in.TeamID))
	return &DeleteTeamOutput{}, nil
}
