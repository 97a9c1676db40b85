package config

import (
	"fmt"
	"strings"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
	SourceArg      ConfigSource = "argument"
)

// Default values.
const (
	DefaultTaskFile   = "tasks.txt"
	DefaultLogDir     = "~/.fvp"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultColor      = "auto"
	DefaultUI         = UIConsole
	DefaultSessionLog = true
)

// Interface modes.
const (
	UIConsole = "console"
	UITUI     = "tui"
)

var (
	validColors     = []string{"auto", "always", "never"}
	validUIs        = []string{UIConsole, UITUI}
	validLogFormats = []string{"text", "json", "logfmt"}
	validLogLevels  = []string{"debug", "info", "warn", "warning", "error", "fatal"}
)

// Config holds the full configuration for fvp.
type Config struct {
	// Paths
	TaskFile  string `toml:"task_file"`
	LogDir    string `toml:"log_dir"`
	PromptDir string `toml:"prompt_dir"`

	// Interface
	UI      string `toml:"ui"`
	Color   string `toml:"color"`
	Confirm bool   `toml:"confirm"`

	// Hooks
	HookCommand string `toml:"hook_command"`

	// Session log
	SessionLog bool `toml:"session_log"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// configFields returns the configurable field names, in display order.
func configFields() []string {
	return []string{
		"task_file",
		"log_dir",
		"prompt_dir",
		"ui",
		"color",
		"confirm",
		"hook_command",
		"session_log",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// Defaults returns a config holding only default values.
func Defaults() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.TaskFile = DefaultTaskFile
	cfg.LogDir = DefaultLogDir
	cfg.UI = DefaultUI
	cfg.Color = DefaultColor
	cfg.SessionLog = DefaultSessionLog
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// Validate reports the first invalid enumerated value.
func (c *Config) Validate() error {
	checks := []struct {
		field string
		value string
		valid []string
	}{
		{"ui", c.UI, validUIs},
		{"color", c.Color, validColors},
		{"log_format", c.LogFormat, validLogFormats},
		{"log_level", c.LogLevel, validLogLevels},
	}
	for _, check := range checks {
		if !contains(check.valid, check.value) {
			return fmt.Errorf("invalid %s %q (want one of: %s)", check.field, check.value, strings.Join(check.valid, ", "))
		}
	}
	if c.TaskFile == "" {
		return fmt.Errorf("task_file is empty")
	}
	return nil
}

// Value returns the effective value of a field as text.
func (c *Config) Value(field string) string {
	switch field {
	case "task_file":
		return c.TaskFile
	case "log_dir":
		return c.LogDir
	case "prompt_dir":
		return c.PromptDir
	case "ui":
		return c.UI
	case "color":
		return c.Color
	case "confirm":
		return fmt.Sprint(c.Confirm)
	case "hook_command":
		return c.HookCommand
	case "session_log":
		return fmt.Sprint(c.SessionLog)
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return fmt.Sprint(c.LogTimestamps)
	case "log_caller":
		return fmt.Sprint(c.LogCaller)
	default:
		return ""
	}
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
