package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdesk/internal/domain"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func writeGlobal(t *testing.T, appDir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(appDir, domain.ConfigFileName), []byte(content), 0644))
}

func writeProject(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(domain.ProjectConfigPath(dir), []byte(content), 0644))
}

func TestLoader_Load_NoConfigFiles(t *testing.T) {
	appDir := t.TempDir()
	loader := NewLoaderWithAppDir(t.TempDir(), appDir, nil)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, domain.DefaultAPITimeout, cfg.API.TimeoutDuration())
	assert.Equal(t, domain.DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, domain.DefaultWatchSchedule, cfg.Watch.Schedule)
	assert.Equal(t, filepath.Join(appDir, "session.json"), cfg.Session.Path)
	assert.Equal(t, filepath.Join(appDir, "logs", "taskdesk.log"), cfg.Log.File)
	assert.False(t, cfg.Cache.Enabled())
	assert.Empty(t, cfg.Warnings)
}

func TestLoader_Load_GlobalConfigOnly(t *testing.T) {
	appDir := t.TempDir()
	writeGlobal(t, appDir, `
[api]
base_url = "https://tasks.example.com"
timeout = "3s"

[cache]
redis_url = "redis://localhost:6379/1"
`)

	cfg, err := NewLoaderWithAppDir(t.TempDir(), appDir, nil).Load()
	require.NoError(t, err)

	assert.Equal(t, "https://tasks.example.com", cfg.API.BaseURL)
	assert.Equal(t, "3s", cfg.API.Timeout)
	assert.True(t, cfg.Cache.Enabled())
	assert.Equal(t, domain.DefaultCacheTTL, cfg.Cache.TTLDuration())
}

func TestLoader_Load_ProjectOverridesGlobal(t *testing.T) {
	appDir := t.TempDir()
	projectDir := t.TempDir()
	writeGlobal(t, appDir, `
[api]
base_url = "https://global.example.com"
timeout = "3s"

[log]
level = "warn"
`)
	writeProject(t, projectDir, `
[api]
base_url = "https://project.example.com"

[watch]
schedule = "*/5 * * * *"
`)

	cfg, err := NewLoaderWithAppDir(projectDir, appDir, nil).Load()
	require.NoError(t, err)

	assert.Equal(t, "https://project.example.com", cfg.API.BaseURL)
	assert.Equal(t, "3s", cfg.API.Timeout, "global value survives when project omits it")
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "*/5 * * * *", cfg.Watch.Schedule)
}

func TestLoader_Load_EnvOverridesFiles(t *testing.T) {
	projectDir := t.TempDir()
	writeProject(t, projectDir, `
[api]
base_url = "https://project.example.com"
`)

	loader := NewLoaderWithAppDir(projectDir, t.TempDir(), env(map[string]string{
		domain.EnvAPIURL: " http://127.0.0.1:9000 ",
	}))
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9000", cfg.API.BaseURL)
}

func TestLoader_Load_ExplicitPathsAreKept(t *testing.T) {
	projectDir := t.TempDir()
	writeProject(t, projectDir, `
[session]
path = "/tmp/s.json"

[log]
file = "/tmp/x.log"
`)

	cfg, err := NewLoaderWithAppDir(projectDir, t.TempDir(), nil).Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/s.json", cfg.Session.Path)
	assert.Equal(t, "/tmp/x.log", cfg.Log.File)
}

func TestLoader_ExpandHome(t *testing.T) {
	l := &Loader{homeDir: "/home/me"}

	assert.Equal(t, "/home/me/s.json", l.expandHome("~/s.json"))
	assert.Equal(t, "/abs/s.json", l.expandHome("/abs/s.json"))
}

func TestLoader_LoadGlobal(t *testing.T) {
	appDir := t.TempDir()
	writeGlobal(t, appDir, `
[tui]
refresh_interval = "1m"
`)

	cfg, err := NewLoaderWithAppDir(t.TempDir(), appDir, nil).LoadGlobal()
	require.NoError(t, err)

	assert.Equal(t, "1m", cfg.TUI.RefreshInterval)
	assert.Empty(t, cfg.API.BaseURL, "LoadGlobal returns the file only, without defaults")
}

func TestLoader_LoadGlobal_NotFound(t *testing.T) {
	_, err := NewLoaderWithAppDir(t.TempDir(), t.TempDir(), nil).LoadGlobal()

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoader_Load_InvalidTOML(t *testing.T) {
	projectDir := t.TempDir()
	writeProject(t, projectDir, "[api\nbase_url = ")

	_, err := NewLoaderWithAppDir(projectDir, t.TempDir(), nil).Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ProjectConfigFileName)
}

func TestLoader_Load_UnknownKeys(t *testing.T) {
	appDir := t.TempDir()
	projectDir := t.TempDir()
	writeGlobal(t, appDir, `
[api]
base_url = "https://global.example.com"
retries = 3

[workers]
default = "x"
`)
	writeProject(t, projectDir, `
[log]
level = "debug"
colour = "auto"

[watch]
schedule = 30
`)

	cfg, err := NewLoaderWithAppDir(projectDir, appDir, nil).Load()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"unknown key in [api]: retries",
		"unknown section: workers",
		"invalid value for [watch].schedule: expected string, got 30",
		"unknown key in [log]: colour",
	}, cfg.Warnings)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, domain.DefaultWatchSchedule, cfg.Watch.Schedule)
}
