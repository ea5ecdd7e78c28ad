package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/infra/apiclient"
	"github.com/runoshun/taskdesk/internal/testutil"
	"github.com/runoshun/taskdesk/internal/usecase"
)

func setupEnv(t *testing.T, projectConfig string) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(domain.EnvAPIURL, "")
	dir := t.TempDir()
	if projectConfig != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ProjectConfigFileName), []byte(projectConfig), 0o600))
	}
	return dir
}

func TestNew_Defaults(t *testing.T) {
	dir := setupEnv(t, "")

	c, err := New(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	client, ok := c.API.(*apiclient.Client)
	require.True(t, ok, "no cache configured")
	assert.Equal(t, domain.DefaultBaseURL, client.BaseURL())
	assert.Equal(t, filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "taskdesk", "session.json"), c.Config.SessionPath)
	assert.NotNil(t, c.Repo)
	assert.Same(t, c.Repo.Store(), c.Store())
}

func TestNew_WithCache(t *testing.T) {
	mr := miniredis.RunT(t)
	dir := setupEnv(t, "[cache]\nredis_url = \"redis://"+mr.Addr()+"/0\"\nttl = \"5s\"\n")

	c, err := New(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	_, ok := c.API.(*apiclient.CachedClient)
	assert.True(t, ok)
}

func TestNew_InvalidBaseURL(t *testing.T) {
	dir := setupEnv(t, "[api]\nbase_url = \"not a url\"\n")

	_, err := New(dir)

	assert.Error(t, err)
}

func TestNew_WarningsSurface(t *testing.T) {
	dir := setupEnv(t, "[api]\nbogus = \"x\"\n")

	c, err := New(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Contains(t, c.AppConfig.Warnings, "unknown key in [api]: bogus")
}

func TestNewWithDeps_UseCasesShareTheCache(t *testing.T) {
	api := testutil.NewMockAPI()
	api.AddTask(domain.Task{ID: 1, TaskID: "A-1", TaskName: "One", Priority: domain.PriorityHigh, Visibility: domain.VisibilityPublic})
	c := NewWithDeps(Config{}, api, &testutil.MockSessionStore{}, &testutil.MockClock{}, nil)

	_, err := c.ShowBoardUseCase().Execute(context.Background(), usecase.ShowBoardInput{})
	require.NoError(t, err)
	_, err = c.MoveTaskUseCase().Execute(context.Background(), usecase.MoveTaskInput{TaskID: 1, Priority: domain.PriorityNormal})
	require.NoError(t, err)

	task, ok := c.Store().Task(1)
	require.True(t, ok)
	assert.Equal(t, domain.PriorityNormal, task.Priority)
	assert.NoError(t, c.Close())
}
