package usecase

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/store"
	"github.com/runoshun/taskdesk/internal/testutil"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRepo(api *testutil.MockAPI) *store.Repository {
	return store.NewRepository(api, store.New(nil), nil)
}

func newTestClock() *testutil.MockClock {
	return &testutil.MockClock{NowTime: testNow}
}

// signedToken returns an HS256 token expiring at exp.
func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func loggedIn(t *testing.T, uuid string) *testutil.MockSessionStore {
	t.Helper()
	return &testutil.MockSessionStore{Session: &domain.Session{
		UUID:     uuid,
		Username: uuid,
		Token:    signedToken(t, uuid, testNow.Add(time.Hour)),
	}}
}

func seedBoard(api *testutil.MockAPI) {
	api.AddTask(domain.Task{ID: 1, TaskID: "WEB-1", TaskName: "Login page", AskDescription: "Fix it", Priority: domain.PriorityHigh, Visibility: domain.VisibilityPublic, Tags: []string{"ui"}})
	api.AddTask(domain.Task{ID: 2, TaskID: "WEB-2", TaskName: "Secret", AskDescription: "Hidden", Priority: domain.PriorityMedium, Visibility: domain.VisibilityPrivate})
	api.AddTask(domain.Task{ID: 3, TaskID: "OPS-1", TaskName: "Backups", AskDescription: "Nightly", Priority: domain.PriorityNormal, Visibility: domain.VisibilityPublic, Tags: []string{"ops"}})
	api.Assignees = append(api.Assignees, domain.Assignee{ID: 10, TaskID: 2, UserID: "alice", CanView: true})
}
