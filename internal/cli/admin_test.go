package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/testutil"
)

func TestLogin_ReadsPasswordFromStdin(t *testing.T) {
	// Setup
	api := testutil.NewMockAPI()
	sessions := &testutil.MockSessionStore{}
	c := newTestContainer(api, sessions)
	cmd := newLoginCommand(c)
	cmd.SetIn(strings.NewReader("secret\n"))

	// Execute
	out, err := runCommand(t, cmd, "-u", "alice")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as alice")
	require.NotNil(t, sessions.Session)
	assert.Equal(t, "u-alice", sessions.Session.UUID)
}

func TestLogin_Rejected(t *testing.T) {
	api := testutil.NewMockAPI()
	api.LoginErr = domain.ErrRejected
	sessions := &testutil.MockSessionStore{}
	c := newTestContainer(api, sessions)

	_, err := runCommand(t, newLoginCommand(c), "-u", "alice", "-p", "wrong")

	assert.ErrorIs(t, err, domain.ErrRejected)
	assert.Nil(t, sessions.Session)
}

func TestLogout(t *testing.T) {
	sessions := &testutil.MockSessionStore{Session: &domain.Session{UUID: "u-1", Username: "alice", Token: "tok"}}
	c := newTestContainer(testutil.NewMockAPI(), sessions)

	out, err := runCommand(t, newLogoutCommand(c))

	require.NoError(t, err)
	assert.Contains(t, out, "Logged out alice")
	assert.Nil(t, sessions.Session)
}

func TestWhoami_NotLoggedIn(t *testing.T) {
	c := newTestContainer(testutil.NewMockAPI(), nil)

	_, err := runCommand(t, newWhoamiCommand(c))

	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
}

func TestWhoami_WithProfile(t *testing.T) {
	// Setup
	api := testutil.NewMockAPI()
	api.AddUser(domain.User{UUID: "u-1", Username: "alice", Name: "Alice", Email: "alice@example.com"})
	sessions := &testutil.MockSessionStore{Session: &domain.Session{UUID: "u-1", Username: "alice", Token: "opaque"}}
	c := newTestContainer(api, sessions)

	// Execute
	out, err := runCommand(t, newWhoamiCommand(c))

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "User:    alice")
	assert.Contains(t, out, "Email:   alice@example.com")
	assert.Contains(t, out, "Session: valid")
}

func seedCLITeam(api *testutil.MockAPI, limit int, members ...string) {
	api.Teams[1] = &domain.Team{ID: 1, TeamName: "Platform", Limit: limit}
	for _, m := range []string{"alice", "bob"} {
		api.AddUser(domain.User{UUID: m, Username: m})
	}
	for _, m := range members {
		api.TeamUsers = append(api.TeamUsers, domain.TeamUser{TeamID: 1, UserID: m, CanView: true})
	}
}

func TestTeamAddMember(t *testing.T) {
	// Setup
	api := testutil.NewMockAPI()
	seedCLITeam(api, 2, "alice")
	c := newTestContainer(api, nil)

	// Execute
	out, err := runCommand(t, newTeamCommand(c), "add-member", "1", "bob", "--caps", "v")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "#1 Platform (2/2 full)")
	assert.Equal(t, 1, api.CallCount("AddTeamUser"))
}

func TestTeamAddMember_FullTeamMakesNoCall(t *testing.T) {
	api := testutil.NewMockAPI()
	seedCLITeam(api, 1, "alice")
	c := newTestContainer(api, nil)

	_, err := runCommand(t, newTeamCommand(c), "add-member", "1", "bob")

	assert.ErrorIs(t, err, domain.ErrTeamFull)
	assert.Zero(t, api.CallCount("AddTeamUser"))
}

func TestTeamRmMember_LastMemberMakesNoCall(t *testing.T) {
	api := testutil.NewMockAPI()
	seedCLITeam(api, 3, "alice")
	c := newTestContainer(api, nil)

	_, err := runCommand(t, newTeamCommand(c), "rm-member", "1", "alice")

	assert.ErrorIs(t, err, domain.ErrLastMember)
	assert.Zero(t, api.CallCount("RemoveTeamUser"))
}

func TestTeamList_RequiresLogin(t *testing.T) {
	c := newTestContainer(testutil.NewMockAPI(), nil)

	_, err := runCommand(t, newTeamCommand(c), "list")

	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
}

func TestUserList(t *testing.T) {
	api := testutil.NewMockAPI()
	api.AddUser(domain.User{UUID: "u-2", Username: "bob"})
	api.AddUser(domain.User{UUID: "u-1", Username: "alice", Email: "alice@example.com"})
	c := newTestContainer(api, nil)

	out, err := runCommand(t, newUserCommand(c), "list")

	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "alice"), strings.Index(out, "bob"))
	assert.Contains(t, out, "alice@example.com")
}

func TestUserEdit_OnlyChangedFlags(t *testing.T) {
	// Setup
	api := testutil.NewMockAPI()
	api.AddUser(domain.User{UUID: "u-1", Username: "alice", Name: "Alice", Email: "old@example.com"})
	c := newTestContainer(api, nil)

	// Execute
	_, err := runCommand(t, newUserCommand(c), "edit", "u-1", "--email", "new@example.com")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", api.Users["u-1"].Email)
	assert.Equal(t, "Alice", api.Users["u-1"].Name)
}

func TestUserEdit_NoFlags(t *testing.T) {
	api := testutil.NewMockAPI()
	api.AddUser(domain.User{UUID: "u-1", Username: "alice"})
	c := newTestContainer(api, nil)

	_, err := runCommand(t, newUserCommand(c), "edit", "u-1")

	assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)
}

func TestAssigneeAdd(t *testing.T) {
	// Setup
	api := testutil.NewMockAPI()
	seedTasks(api)
	api.AddUser(domain.User{UUID: "u-1", Username: "alice", Name: "Alice"})
	c := newTestContainer(api, nil)

	// Execute
	out, err := runCommand(t, newAssigneeCommand(c), "add", "2", "u-1", "--caps", "vc")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Assigned Alice to task #2 (vc-)")
	require.Len(t, api.Assignees, 1)
	assert.Equal(t, "u-1", api.Assignees[0].UserID)
}

func TestConfigShow(t *testing.T) {
	// Setup
	c := newTestContainer(testutil.NewMockAPI(), nil)
	c.ConfigLoader = testutil.NewMockConfigLoader()
	c.ConfigManager = &testutil.MockConfigManager{
		GlobalInfo:  domain.ConfigInfo{Path: "/home/me/.config/taskdesk/config.toml"},
		ProjectInfo: domain.ConfigInfo{Path: "/work/.taskdesk.toml", Exists: true},
	}

	// Execute
	out, err := runCommand(t, newConfigCommand(c), "show")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "[Loaded from]")
	assert.Contains(t, out, "- /home/me/.config/taskdesk/config.toml (not found)")
	assert.Contains(t, out, "- /work/.taskdesk.toml\n")
	assert.Contains(t, out, "[Effective Config]")
	assert.Contains(t, out, "[api]")
}

func TestConfigInit_Global(t *testing.T) {
	c := newTestContainer(testutil.NewMockAPI(), nil)
	m := &testutil.MockConfigManager{GlobalInfo: domain.ConfigInfo{Path: "/home/me/.config/taskdesk/config.toml"}}
	c.ConfigManager = m

	out, err := runCommand(t, newConfigCommand(c), "init", "--global")

	require.NoError(t, err)
	assert.Contains(t, out, "Created config file: /home/me/.config/taskdesk/config.toml")
	assert.Equal(t, 1, m.InitGlobalN)
	assert.Zero(t, m.InitProjectN)
}
