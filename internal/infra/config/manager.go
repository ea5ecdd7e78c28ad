package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/runoshun/taskdesk/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages configuration files.
type Manager struct {
	projectDir string // Directory holding .taskdesk.toml
	appDir     string // Global app directory (e.g., ~/.config/taskdesk)
}

// NewManager creates a new Manager.
func NewManager(projectDir string) *Manager {
	return &Manager{
		projectDir: projectDir,
		appDir:     DefaultAppDir(),
	}
}

// NewManagerWithAppDir creates a new Manager with a custom global app directory.
// This is useful for testing.
func NewManagerWithAppDir(projectDir, appDir string) *Manager {
	return &Manager{
		projectDir: projectDir,
		appDir:     appDir,
	}
}

// GetProjectConfigInfo returns information about the project config file.
func (m *Manager) GetProjectConfigInfo() domain.ConfigInfo {
	return readConfigInfo(domain.ProjectConfigPath(m.projectDir))
}

// GetGlobalConfigInfo returns information about the global config file.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	if m.appDir == "" {
		return domain.ConfigInfo{}
	}
	return readConfigInfo(filepath.Join(m.appDir, domain.ConfigFileName))
}

func readConfigInfo(path string) domain.ConfigInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{Path: path}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitProjectConfig writes the commented template to the project config file.
func (m *Manager) InitProjectConfig(cfg *domain.Config) error {
	return writeTemplate(domain.ProjectConfigPath(m.projectDir), cfg)
}

// InitGlobalConfig writes the commented template to the global config file,
// creating the app directory when needed.
func (m *Manager) InitGlobalConfig(cfg *domain.Config) error {
	if m.appDir == "" {
		return errors.New("global config directory not available")
	}
	if err := os.MkdirAll(m.appDir, 0700); err != nil {
		return err
	}
	return writeTemplate(filepath.Join(m.appDir, domain.ConfigFileName), cfg)
}

func writeTemplate(path string, cfg *domain.Config) error {
	if _, err := os.Stat(path); err == nil {
		return domain.ErrConfigExists
	}
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}
	return os.WriteFile(path, []byte(domain.RenderConfigTemplate(cfg)), 0600)
}
