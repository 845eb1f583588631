// Package config handles the configuration directory, file paths and settings.
package config

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the application directory name.
	AppName = "jarvis"

	// SettingsFile is the YAML settings filename.
	SettingsFile = "config.yaml"

	// TasksFile is the default task store filename.
	TasksFile = "tasks.json"

	// TranscriptFile is the default transcript database filename.
	TranscriptFile = "transcript.db"

	// LogFile is the application log filename, kept under LogDir.
	LogFile = "app.log"

	// LogDir is the log directory name.
	LogDir = "logs"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings holds values from config.yaml and the environment.
	Settings Settings
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/jarvis or $HOME/.config/jarvis.
// Settings start at their defaults; call Load to read config.yaml.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir, Settings: DefaultSettings()}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// TasksPath returns the task store path. Relative settings resolve against Dir.
func (c *Config) TasksPath() string {
	return c.resolve(c.Settings.Tasks.File, TasksFile)
}

// TranscriptPath returns the transcript database path.
func (c *Config) TranscriptPath() string {
	return c.resolve(c.Settings.Transcript.File, TranscriptFile)
}

// LogPath returns the path of the application log.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogDir, LogFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

func (c *Config) resolve(setting, fallback string) string {
	if setting == "" {
		return filepath.Join(c.Dir, fallback)
	}
	if filepath.IsAbs(setting) {
		return setting
	}
	return filepath.Join(c.Dir, setting)
}
