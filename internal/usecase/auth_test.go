package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/testutil"
)

func TestTokenExpiry(t *testing.T) {
	exp := testNow.Add(time.Hour)

	got, ok := TokenExpiry(signedToken(t, "u", exp))
	assert.True(t, ok)
	assert.Equal(t, exp.Unix(), got.Unix())

	_, ok = TokenExpiry("opaque-token")
	assert.False(t, ok)
}

func TestLogin_Execute_SavesSession(t *testing.T) {
	// Setup
	api := testutil.NewMockAPI()
	exp := testNow.Add(24 * time.Hour)
	api.Session = &domain.Session{UUID: "u-1", Token: signedToken(t, "u-1", exp)}
	sessions := &testutil.MockSessionStore{}
	logger := &testutil.MockLogger{}
	uc := NewLogin(api, sessions, newTestClock(), logger)

	// Execute
	out, err := uc.Execute(context.Background(), LoginInput{Username: " alice ", Password: "pw"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "alice", out.Session.Username)
	assert.Equal(t, exp.Unix(), out.ExpiresAt.Unix())
	require.NotNil(t, sessions.Session)
	assert.Equal(t, "u-1", sessions.Session.UUID)
	assert.True(t, logger.Contains("logged in as alice"))
}

func TestLogin_Execute_ValidationMakesNoCall(t *testing.T) {
	api := testutil.NewMockAPI()
	uc := NewLogin(api, &testutil.MockSessionStore{}, newTestClock(), domain.NopLogger{})

	_, err := uc.Execute(context.Background(), LoginInput{Username: "alice"})

	var fe domain.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "password")
	assert.Empty(t, api.RecordedCalls())
}

func TestLogin_Execute_ServerRejects(t *testing.T) {
	api := testutil.NewMockAPI()
	api.LoginErr = domain.ErrRejected
	sessions := &testutil.MockSessionStore{}
	uc := NewLogin(api, sessions, newTestClock(), domain.NopLogger{})

	_, err := uc.Execute(context.Background(), LoginInput{Username: "alice", Password: "bad"})

	assert.ErrorIs(t, err, domain.ErrRejected)
	assert.Nil(t, sessions.Session)
}

func TestLogin_Execute_ExpiredToken(t *testing.T) {
	api := testutil.NewMockAPI()
	api.Session = &domain.Session{UUID: "u-1", Token: signedToken(t, "u-1", testNow.Add(-time.Minute))}
	sessions := &testutil.MockSessionStore{}
	uc := NewLogin(api, sessions, newTestClock(), domain.NopLogger{})

	_, err := uc.Execute(context.Background(), LoginInput{Username: "alice", Password: "pw"})

	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Nil(t, sessions.Session)
}

func TestLogout_Execute(t *testing.T) {
	sessions := loggedIn(t, "alice")
	uc := NewLogout(sessions, domain.NopLogger{})

	out, err := uc.Execute(context.Background(), LogoutInput{})
	require.NoError(t, err)
	assert.True(t, out.WasLoggedIn)
	assert.Equal(t, "alice", out.Username)
	assert.Nil(t, sessions.Session)

	out, err = uc.Execute(context.Background(), LogoutInput{})
	require.NoError(t, err)
	assert.False(t, out.WasLoggedIn)
}

func TestRegister_Execute(t *testing.T) {
	api := testutil.NewMockAPI()
	uc := NewRegister(api, domain.NopLogger{})

	out, err := uc.Execute(context.Background(), RegisterInput{Form: domain.UserForm{
		Username: "carol", Name: "Carol", Email: "carol@example.com", Password: "pw",
	}})

	require.NoError(t, err)
	assert.Equal(t, "carol", out.User.Username)
	assert.NotEmpty(t, out.User.UUID)
	assert.Empty(t, out.User.Password)
}

func TestRegister_Execute_PasswordAlwaysRequired(t *testing.T) {
	api := testutil.NewMockAPI()
	uc := NewRegister(api, domain.NopLogger{})

	_, err := uc.Execute(context.Background(), RegisterInput{Form: domain.UserForm{
		Username: "carol", Name: "Carol", Email: "carol@example.com", PasswordOptional: true,
	}})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, api.CallCount("CreateUser"))
}

func TestWhoami_Execute(t *testing.T) {
	api := testutil.NewMockAPI()
	api.AddUser(domain.User{UUID: "alice", Username: "alice", Name: "Alice", Email: "alice@example.com"})
	uc := NewWhoami(loggedIn(t, "alice"), api, newTestClock(), domain.NopLogger{})

	out, err := uc.Execute(context.Background(), WhoamiInput{})

	require.NoError(t, err)
	assert.False(t, out.Expired)
	require.NotNil(t, out.User)
	assert.Equal(t, "Alice", out.User.Name)
}

func TestWhoami_Execute_ProfileLookupFails(t *testing.T) {
	api := testutil.NewMockAPI()
	api.UserErr = errors.New("boom")
	logger := &testutil.MockLogger{}
	uc := NewWhoami(loggedIn(t, "alice"), api, newTestClock(), logger)

	out, err := uc.Execute(context.Background(), WhoamiInput{})

	require.NoError(t, err)
	assert.Nil(t, out.User)
	assert.True(t, logger.Contains("profile lookup for alice failed"))
}

func TestWhoami_Execute_Expired(t *testing.T) {
	api := testutil.NewMockAPI()
	sessions := &testutil.MockSessionStore{Session: &domain.Session{
		UUID: "alice", Token: signedToken(t, "alice", testNow.Add(-time.Hour)),
	}}
	uc := NewWhoami(sessions, api, newTestClock(), domain.NopLogger{})

	out, err := uc.Execute(context.Background(), WhoamiInput{})

	require.NoError(t, err)
	assert.True(t, out.Expired)
	assert.Zero(t, api.CallCount("GetUser"))
}

func TestWhoami_Execute_NotLoggedIn(t *testing.T) {
	uc := NewWhoami(&testutil.MockSessionStore{}, testutil.NewMockAPI(), newTestClock(), domain.NopLogger{})

	_, err := uc.Execute(context.Background(), WhoamiInput{})

	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
}
