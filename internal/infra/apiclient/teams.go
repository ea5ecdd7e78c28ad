package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/runoshun/taskdesk/internal/domain"
)

type teamEnvelope struct {
	Team *domain.Team `json:"team"`
}

type teamOneEnvelope struct {
	Team *domain.Team `json:"team_one"`
}

type teamUsersEnvelope struct {
	TeamUsers []domain.TeamUser `json:"team_users"`
}

type userTeamsEnvelope struct {
	UserTeams []domain.TeamUser `json:"user_teams"`
}

type teamUserEnvelope struct {
	TeamUser *domain.TeamUser `json:"team_user"`
}

type createTeamRequest struct {
	TeamName string `json:"team_name"`
	Limit    int    `json:"limit"`
}

// CreateTeam creates a team.
func (c *Client) CreateTeam(ctx context.Context, team domain.Team) (*domain.Team, error) {
	var env teamEnvelope
	body := createTeamRequest{TeamName: team.TeamName, Limit: team.Limit}
	if err := c.do(ctx, http.MethodPost, "/team/", nil, body, &env); err != nil {
		return nil, err
	}
	if env.Team == nil {
		return nil, fmt.Errorf("create team: %w", domain.ErrUnexpectedResponse)
	}
	return env.Team, nil
}

// GetTeam fetches one team.
func (c *Client) GetTeam(ctx context.Context, id int) (*domain.Team, error) {
	var env teamOneEnvelope
	if err := c.do(ctx, http.MethodGet, "/team/id", idQuery("id", id), nil, &env); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", domain.ErrTeamNotFound, err)
		}
		return nil, err
	}
	if env.Team == nil {
		return nil, fmt.Errorf("get team: %w", domain.ErrUnexpectedResponse)
	}
	return env.Team, nil
}

// DeleteTeam removes a team.
func (c *Client) DeleteTeam(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/team/id", idQuery("id", id), nil, nil)
}

// ListTeamUsers fetches the membership rows of a team.
func (c *Client) ListTeamUsers(ctx context.Context, teamID int) ([]domain.TeamUser, error) {
	var env teamUsersEnvelope
	if err := c.do(ctx, http.MethodGet, "/team_users/", idQuery("team_id", teamID), nil, &env); err != nil {
		return nil, err
	}
	return env.TeamUsers, nil
}

// ListUserTeams fetches the membership rows of a user.
func (c *Client) ListUserTeams(ctx context.Context, userID string) ([]domain.TeamUser, error) {
	var env userTeamsEnvelope
	if err := c.do(ctx, http.MethodGet, "/team_user/user_id", userQuery(userID), nil, &env); err != nil {
		return nil, err
	}
	return env.UserTeams, nil
}

// AddTeamUser adds a member.
func (c *Client) AddTeamUser(ctx context.Context, tu domain.TeamUser) (*domain.TeamUser, error) {
	var env teamUserEnvelope
	if err := c.do(ctx, http.MethodPost, "/team_users/", nil, tu, &env); err != nil {
		return nil, err
	}
	if env.TeamUser == nil {
		return nil, fmt.Errorf("add team user: %w", domain.ErrUnexpectedResponse)
	}
	return env.TeamUser, nil
}

// RemoveTeamUser removes a member.
func (c *Client) RemoveTeamUser(ctx context.Context, teamID int, userID string) error {
	q := url.Values{
		"user_id": []string{userID},
		"team_id": []string{strconv.Itoa(teamID)},
	}
	return c.do(ctx, http.MethodDelete, "/team_users/id", q, nil, nil)
}
