package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/taskdesk/internal/domain"
)

// AddTeamMemberInput contains the membership to create.
type AddTeamMemberInput struct {
	UserID       string
	Capabilities domain.Capabilities
	TeamID       int
}

// AddTeamMemberOutput contains the roster after the change.
type AddTeamMemberOutput struct {
	Roster domain.TeamRoster
}

// AddTeamMember adds a user to a team unless the team is full.
type AddTeamMember struct {
	api    teamDeps
	logger domain.Logger
}

// NewAddTeamMember creates a new AddTeamMember use case.
func NewAddTeamMember(api teamDeps, logger domain.Logger) *AddTeamMember {
	return &AddTeamMember{api: api, logger: logger}
}

// Execute checks the roster first. A full team or an existing member is
// rejected without calling the server; the server still has the final word.
func (uc *AddTeamMember) Execute(ctx context.Context, in AddTeamMemberInput) (*AddTeamMemberOutput, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, domain.FieldErrors{"user_id": "required"}
	}
	users, err := usersByID(ctx, uc.api)
	if err != nil {
		return nil, err
	}
	if _, ok := users[userID]; !ok {
		return nil, fmt.Errorf("add member %s: %w", userID, domain.ErrUserNotFound)
	}
	roster, err := loadRoster(ctx, uc.api, in.TeamID, users)
	if err != nil {
		return nil, err
	}

	switch {
	case roster.HasMember(userID):
		return nil, fmt.Errorf("team %q: %w", roster.Team.TeamName, domain.ErrAlreadyMember)
	case !roster.CanAddMember():
		return nil, fmt.Errorf("team %q has %d/%d members: %w",
			roster.Team.TeamName, roster.TotalMembers(), roster.Team.Limit, domain.ErrTeamFull)
	}

	tu := domain.TeamUser{TeamID: in.TeamID, UserID: userID}
	tu.SetCapabilities(in.Capabilities)
	if _, err := uc.api.AddTeamUser(ctx, tu); err != nil {
		return nil, fmt.Errorf("add member %s: %w", userID, err)
	}
	roster.Members = append(roster.Members, domain.Member{User: users[userID], Capabilities: in.Capabilities})
	uc.logger.Info(0, "team", fmt.Sprintf("added %s to team %d", userID, in.TeamID))
	return &AddTeamMemberOutput{Roster: *roster}, nil
}

// RemoveTeamMemberInput contains the membership to remove.
type RemoveTeamMemberInput struct {
	UserID string
	TeamID int
}

// RemoveTeamMemberOutput contains the roster after the change.
type RemoveTeamMemberOutput struct {
	Roster domain.TeamRoster
}

// RemoveTeamMember removes a user from a team unless they are the last member.
type RemoveTeamMember struct {
	api    teamDeps
	logger domain.Logger
}

// NewRemoveTeamMember creates a new RemoveTeamMember use case.
func NewRemoveTeamMember(api teamDeps, logger domain.Logger) *RemoveTeamMember {
	return &RemoveTeamMember{api: api, logger: logger}
}

// Execute checks the roster first. Removing the last member or a non-member
// is rejected without calling the server.
func (uc *RemoveTeamMember) Execute(ctx context.Context, in RemoveTeamMemberInput) (*RemoveTeamMemberOutput, error) {
	userID := strings.TrimSpace(in.UserID)
	users, err := usersByID(ctx, uc.api)
	if err != nil {
		return nil, err
	}
	roster, err := loadRoster(ctx, uc.api, in.TeamID, users)
	if err != nil {
		return nil, err
	}

	switch {
	case !roster.HasMember(userID):
		return nil, fmt.Errorf("team %q: %s: %w", roster.Team.TeamName, userID, domain.ErrNotMember)
	case !roster.CanRemoveMember():
		return nil, fmt.Errorf("team %q: %w", roster.Team.TeamName, domain.ErrLastMember)
	}

	if err := uc.api.RemoveTeamUser(ctx, in.TeamID, userID); err != nil {
		return nil, fmt.Errorf("remove member %s: %w", userID, err)
	}
	kept := roster.Members[:0]
	for _, m := range roster.Members {
		if m.User.UUID != userID && m.User.Key() != userID {
			kept = append(kept, m)
		}
	}
	roster.Members = kept
	uc.logger.Info(0, "team", fmt.Sprintf("removed %s from team %d", userID, in.TeamID))
	return &RemoveTeamMemberOutput{Roster: *roster}, nil
}
