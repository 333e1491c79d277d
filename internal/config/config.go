// Package config handles the XDG configuration directory and settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

const (
	// AppName is the application directory name.
	AppName = "todoctl"

	// ConfigFile is the settings filename inside the config directory.
	ConfigFile = "config.toml"

	// DefaultBaseURL is the origin of the remote persistence service.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout bounds a single HTTP exchange.
	DefaultTimeout = 10 * time.Second

	// DefaultLogLevel is used when neither the file nor the environment sets one.
	DefaultLogLevel = "warn"
)

// Environment variables that override the settings file.
const (
	EnvBaseURL  = "TODOCTL_URL"
	EnvTimeout  = "TODOCTL_TIMEOUT"
	EnvLogLevel = "TODOCTL_LOG_LEVEL"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the remote service origin, without the /todos path.
	BaseURL string

	// Timeout is the HTTP client timeout.
	Timeout time.Duration

	// LogLevel is a charmbracelet/log level name.
	LogLevel string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// fileConfig mirrors config.toml. Durations are strings ("5s").
type fileConfig struct {
	BaseURL  string `toml:"base_url"`
	Timeout  string `toml:"timeout"`
	LogLevel string `toml:"log_level"`
}

// New creates a Config with defaults and the given or default config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todoctl or $HOME/.config/todoctl.
func New(configDir string) *Config {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:      dir,
		BaseURL:  DefaultBaseURL,
		Timeout:  DefaultTimeout,
		LogLevel: DefaultLogLevel,
	}
}

// Load builds a Config in priority order:
// 1. Defaults
// 2. config.toml in the config directory (optional)
// 3. Environment variables
// Flags are applied by the caller afterwards.
func Load(configDir string) (*Config, error) {
	cfg := New(configDir)

	if err := cfg.loadFile(cfg.Path()); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
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

// Path returns the path to the settings file.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// SetBaseURL overrides the base URL, ignoring blank values.
func (c *Config) SetBaseURL(raw string) {
	if raw = strings.TrimSpace(raw); raw != "" {
		c.BaseURL = strings.TrimRight(raw, "/")
	}
}

func (c *Config) loadFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading config file %s: %w", path, err)
	}

	c.SetBaseURL(fc.BaseURL)
	if fc.Timeout != "" {
		d, err := parseTimeout(fc.Timeout)
		if err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		c.Timeout = d
	}
	if fc.LogLevel != "" {
		level, err := parseLogLevel(fc.LogLevel)
		if err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		c.LogLevel = level
	}
	return nil
}

func (c *Config) loadEnv() error {
	c.SetBaseURL(os.Getenv(EnvBaseURL))
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		level, err := parseLogLevel(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		c.LogLevel = level
	}
	return nil
}

// parseLogLevel accepts the level names charmbracelet/log knows and
// returns the canonical one.
func parseLogLevel(s string) (string, error) {
	level, err := log.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid log level %q", s)
	}
	return level.String(), nil
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: must not be negative", s)
	}
	return d, nil
}
