package domain

// Team groups users under a membership limit.
// Fields are ordered to minimize memory padding.
type Team struct {
	TeamName  string `json:"team_name"`
	CreatedAt string `json:"created_at,omitempty"`
	ID        int    `json:"id"`
	Limit     int    `json:"limit"`
}

// TeamUser is a membership row linking a user to a team.
// Fields are ordered to minimize memory padding.
type TeamUser struct {
	UserID     string `json:"user_id"`
	ID         int    `json:"id,omitempty"`
	TeamID     int    `json:"team_id"`
	CanView    Flag   `json:"can_view"`
	CanComment Flag   `json:"can_comment"`
	CanEdit    Flag   `json:"can_edit"`
}

// Capabilities returns the membership's permission flags.
func (tu *TeamUser) Capabilities() Capabilities {
	return Capabilities{
		View:    bool(tu.CanView),
		Comment: bool(tu.CanComment),
		Edit:    bool(tu.CanEdit),
	}
}

// SetCapabilities overwrites the permission flags.
func (tu *TeamUser) SetCapabilities(c Capabilities) {
	tu.CanView = Flag(c.View)
	tu.CanComment = Flag(c.Comment)
	tu.CanEdit = Flag(c.Edit)
}

// Member is a user as seen from a team, with that team's capabilities.
type Member struct {
	User         User
	Capabilities Capabilities
}

// TeamRoster is a team plus its current members.
type TeamRoster struct {
	Members []Member
	Team    Team
}

// TotalMembers returns the number of distinct members.
func (r *TeamRoster) TotalMembers() int {
	return len(r.Members)
}

// IsFull returns true once the membership limit is reached.
func (r *TeamRoster) IsFull() bool {
	return r.TotalMembers() >= r.Team.Limit
}

// CanAddMember reports whether one more member fits under the limit.
func (r *TeamRoster) CanAddMember() bool {
	return r.TotalMembers() < r.Team.Limit
}

// CanRemoveMember reports whether a removal would leave at least one member.
func (r *TeamRoster) CanRemoveMember() bool {
	return r.TotalMembers() > 1
}

// HasMember returns true if the user is already on the team.
func (r *TeamRoster) HasMember(userID string) bool {
	for _, m := range r.Members {
		if m.User.Key() == userID || m.User.UUID == userID {
			return true
		}
	}
	return false
}
