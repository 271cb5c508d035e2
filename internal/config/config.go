// Package config handles the XDG configuration directory, file paths and
// layered settings.
package config

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the application directory name.
	AppName = "tdash"

	// SettingsFile is the optional YAML settings filename.
	SettingsFile = "config.yaml"

	// EnvFile is the optional dotenv filename.
	EnvFile = ".env"

	// SessionFile is the session token filename used by the file store.
	SessionFile = "session.json"

	// SessionDBFile is the SQLite database filename used by the sqlite store.
	SessionDBFile = "session.db"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings holds the values loaded by LoadSettings.
	Settings Settings
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tdash or $HOME/.config/tdash.
// Settings start at their defaults; call LoadSettings to layer files and env.
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
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to the YAML settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// EnvPath returns the path to the dotenv file inside the config directory.
func (c *Config) EnvPath() string {
	return filepath.Join(c.Dir, EnvFile)
}

// SessionPath returns the path to the session token file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// SessionDBPath returns the path to the session SQLite database.
func (c *Config) SessionDBPath() string {
	return filepath.Join(c.Dir, SessionDBFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
