// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/taskdesk/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	getenv     func(string) string
	projectDir string // Directory holding .taskdesk.toml (usually the working directory)
	appDir     string // Global app directory (e.g., ~/.config/taskdesk)
	homeDir    string // Used to expand "~/" in paths
}

// NewLoader creates a new Loader for the given project directory.
func NewLoader(projectDir string) *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		getenv:     os.Getenv,
		projectDir: projectDir,
		appDir:     DefaultAppDir(),
		homeDir:    home,
	}
}

// NewLoaderWithAppDir creates a new Loader with a custom global app directory
// and environment lookup. This is useful for testing.
func NewLoaderWithAppDir(projectDir, appDir string, getenv func(string) string) *Loader {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return &Loader{
		getenv:     getenv,
		projectDir: projectDir,
		appDir:     appDir,
	}
}

// DefaultAppDir returns the default global app directory.
func DefaultAppDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalAppDir(configHome)
}

// Load returns the merged configuration.
// Precedence: default <- global <- project <- environment.
// Session and log paths left empty are resolved against the app directory.
func (l *Loader) Load() (*domain.Config, error) {
	global, err := l.LoadGlobal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	project, err := l.loadFile(domain.ProjectConfigPath(l.projectDir))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if project != nil {
		base = mergeConfigs(base, project)
	}

	if u := strings.TrimSpace(l.getenv(domain.EnvAPIURL)); u != "" {
		base.API.BaseURL = u
	}
	l.resolvePaths(base)
	return base, nil
}

// LoadGlobal returns only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.appDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.appDir, domain.ConfigFileName))
}

func (l *Loader) resolvePaths(cfg *domain.Config) {
	if cfg.Session.Path == "" && l.appDir != "" {
		cfg.Session.Path = domain.DefaultSessionPath(l.appDir)
	}
	if cfg.Log.File == "" && l.appDir != "" {
		cfg.Log.File = domain.DefaultLogPath(l.appDir)
	}
	cfg.Session.Path = l.expandHome(cfg.Session.Path)
	cfg.Log.File = l.expandHome(cfg.Log.File)
}

func (l *Loader) expandHome(path string) string {
	if l.homeDir == "" {
		return path
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(l.homeDir, rest)
	}
	return path
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// stringKeys maps each known section to its string-valued keys.
func stringKeys(cfg *domain.Config) map[string]map[string]*string {
	return map[string]map[string]*string{
		"api": {
			"base_url": &cfg.API.BaseURL,
			"timeout":  &cfg.API.Timeout,
		},
		"session": {
			"path": &cfg.Session.Path,
		},
		"cache": {
			"redis_url": &cfg.Cache.RedisURL,
			"ttl":       &cfg.Cache.TTL,
		},
		"log": {
			"level": &cfg.Log.Level,
			"file":  &cfg.Log.File,
		},
		"tui": {
			"refresh_interval": &cfg.TUI.RefreshInterval,
		},
		"watch": {
			"schedule": &cfg.Watch.Schedule,
		},
	}
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	sections := stringKeys(res)
	var warnings []string

	for section, value := range raw {
		keys, known := sections[section]
		if !known {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("section [%s] must be a table", section))
			continue
		}
		for k, v := range m {
			dst, known := keys[k]
			if !known {
				warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", section, k))
				continue
			}
			s, ok := v.(string)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("invalid value for [%s].%s: expected string, got %v", section, k, v))
				continue
			}
			*dst = s
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := *base
	result.Warnings = append(append([]string{}, base.Warnings...), override.Warnings...)

	dst := stringKeys(&result)
	src := stringKeys(override)
	for section, keys := range src {
		for k, v := range keys {
			if *v != "" {
				*dst[section][k] = *v
			}
		}
	}
	return &result
}
