package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string      `toml:"-"`
	API      APIConfig     `toml:"api"`
	Session  SessionConfig `toml:"session"`
	Cache    CacheConfig   `toml:"cache"`
	Log      LogConfig     `toml:"log"`
	TUI      TUIConfig     `toml:"tui"`
	Watch    WatchConfig   `toml:"watch"`
}

// APIConfig holds remote API settings from [api] section.
type APIConfig struct {
	BaseURL string `toml:"base_url,omitempty"` // Base URL of the REST API
	Timeout string `toml:"timeout,omitempty"`  // Per-request timeout (Go duration, e.g. "10s")
}

// TimeoutDuration parses Timeout, falling back to the default.
func (c APIConfig) TimeoutDuration() time.Duration {
	return parseDurationOr(c.Timeout, DefaultAPITimeout)
}

// SessionConfig holds session storage settings from [session] section.
type SessionConfig struct {
	Path string `toml:"path,omitempty"` // Session file path (default: <config dir>/session.json)
}

// CacheConfig holds the optional shared read cache settings from [cache] section.
type CacheConfig struct {
	RedisURL string `toml:"redis_url,omitempty"` // redis://host:port/db; empty disables the cache
	TTL      string `toml:"ttl,omitempty"`       // Entry lifetime (Go duration)
}

// Enabled returns true if a cache backend is configured.
func (c CacheConfig) Enabled() bool {
	return c.RedisURL != ""
}

// TTLDuration parses TTL, falling back to the default.
func (c CacheConfig) TTLDuration() time.Duration {
	return parseDurationOr(c.TTL, DefaultCacheTTL)
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
	File  string `toml:"file,omitempty"`  // Log file path (default: <config dir>/logs/taskdesk.log)
}

// TUIConfig holds board settings from [tui] section.
type TUIConfig struct {
	RefreshInterval string `toml:"refresh_interval,omitempty"` // Auto refresh period; empty or "0" disables it
}

// RefreshDuration parses RefreshInterval. Zero means no auto refresh.
func (c TUIConfig) RefreshDuration() time.Duration {
	return parseDurationOr(c.RefreshInterval, 0)
}

// WatchConfig holds settings for the watch command from [watch] section.
type WatchConfig struct {
	Schedule string `toml:"schedule,omitempty"` // Cron spec or "@every <duration>"
}

func parseDurationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return def
	}
	return d
}

// Default configuration values.
const (
	DefaultBaseURL       = "http://localhost:8000"
	DefaultAPITimeout    = 10 * time.Second
	DefaultCacheTTL      = 30 * time.Second
	DefaultLogLevel      = "info"
	DefaultWatchSchedule = "@every 30s"
)

// EnvAPIURL overrides api.base_url when set.
const EnvAPIURL = "TASKDESK_API_URL"

// Directory and file names for taskdesk.
const (
	AppDirName            = "taskdesk"       // Directory name under XDG_CONFIG_HOME
	ConfigFileName        = "config.toml"    // Global config file name
	ProjectConfigFileName = ".taskdesk.toml" // Config file name in the working directory
	SessionFileName       = "session.json"   // Persisted login state
	LogDirName            = "logs"           // Log directory under the app directory
	LogFileName           = "taskdesk.log"   // Log file name
)

// GlobalAppDir returns the global taskdesk directory path.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalAppDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalAppDir(configHome), ConfigFileName)
}

// ProjectConfigPath returns the project config path inside dir.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ProjectConfigFileName)
}

// DefaultSessionPath returns the session file path inside the app directory.
func DefaultSessionPath(appDir string) string {
	return filepath.Join(appDir, SessionFileName)
}

// DefaultLogPath returns the log file path inside the app directory.
func DefaultLogPath(appDir string) string {
	return filepath.Join(appDir, LogDirName, LogFileName)
}

// NewDefaultConfig returns a Config with default values.
// Paths left empty are resolved against the app directory by the infra layer.
func NewDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultAPITimeout.String(),
		},
		Cache: CacheConfig{
			TTL: DefaultCacheTTL.String(),
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Watch: WatchConfig{
			Schedule: DefaultWatchSchedule,
		},
	}
}

// ConfigInfo describes a config file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// RenderConfigTemplate renders the commented config file written by "config init".
func RenderConfigTemplate(cfg *Config) string {
	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		// Should never happen with valid data
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}
	return buf.String()
}
