// Package config handles inboxdot configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the root configuration structure for inboxdot.
type Config struct {
	// FollowUpAfterDays is the minimum age in days, for a local-user-sent
	// last message, to be considered due.
	FollowUpAfterDays int `yaml:"follow_up_after_days" mapstructure:"follow_up_after_days"`

	// Global settings
	Global GlobalConfig `yaml:"global" mapstructure:"global"`

	// Scan settings
	Scan ScanConfig `yaml:"scan" mapstructure:"scan"`

	// Page settings
	Page PageConfig `yaml:"page" mapstructure:"page"`

	// Database settings
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// GlobalConfig contains global inboxdot settings.
type GlobalConfig struct {
	// DataDir is where inboxdot stores its data (default: ~/.local/share/inboxdot).
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`

	// ConfigDir is where config files are stored (default: ~/.config/inboxdot).
	ConfigDir string `yaml:"config_dir" mapstructure:"config_dir"`
}

// ScanConfig contains scan scheduling settings.
type ScanConfig struct {
	// Debounce is the trigger-coalescing window.
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`

	// Interval is the periodic rescan interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// PageConfig contains host-page settings.
type PageConfig struct {
	// Snapshot is the HTML snapshot file to scan.
	Snapshot string `yaml:"snapshot" mapstructure:"snapshot"`

	// Output is where decorated snapshots are written (empty rewrites Snapshot).
	Output string `yaml:"output" mapstructure:"output"`

	// Location overrides the navigational path encoded in the snapshot.
	Location string `yaml:"location" mapstructure:"location"`

	// SectionPrefix is the monitored section's path prefix.
	SectionPrefix string `yaml:"section_prefix" mapstructure:"section_prefix"`
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	// Path is the SQLite database file path.
	Path string `yaml:"path" mapstructure:"path"`

	// BusyTimeoutMs is how long to wait for a locked database (milliseconds).
	BusyTimeoutMs int `yaml:"busy_timeout_ms" mapstructure:"busy_timeout_ms"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is the output format (json, console).
	Format string `yaml:"format" mapstructure:"format"`

	// EnableCaller adds caller information to logs.
	EnableCaller bool `yaml:"enable_caller" mapstructure:"enable_caller"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		FollowUpAfterDays: 1,
		Global: GlobalConfig{
			DataDir:   filepath.Join(homeDir, ".local", "share", "inboxdot"),
			ConfigDir: filepath.Join(homeDir, ".config", "inboxdot"),
		},
		Scan: ScanConfig{
			Debounce: 300 * time.Millisecond,
			Interval: 60 * time.Second,
		},
		Page: PageConfig{
			SectionPrefix: "/sales/inbox",
		},
		Database: DatabaseConfig{
			Path:          "", // Will be set to DataDir/inboxdot.db
			BusyTimeoutMs: 5000,
		},
		Logging: LoggingConfig{
			Level:        "info",
			Format:       "console",
			EnableCaller: false,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.FollowUpAfterDays < 0 {
		return fmt.Errorf("follow_up_after_days must not be negative")
	}

	if c.Scan.Debounce < time.Millisecond {
		return fmt.Errorf("scan.debounce must be at least 1ms")
	}

	if c.Scan.Interval < time.Second {
		return fmt.Errorf("scan.interval must be at least 1s")
	}

	if c.Page.SectionPrefix == "" {
		return fmt.Errorf("page.section_prefix is required")
	}

	return nil
}

// EnsureDirectories creates required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Global.DataDir,
		c.Global.ConfigDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// DatabasePath returns the full database path.
func (c *Config) DatabasePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return filepath.Join(c.Global.DataDir, "inboxdot.db")
}
