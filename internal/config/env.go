package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from FVP_* environment variables.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	setString := func(env, field string, target *string) {
		if v := os.Getenv(env); v != "" {
			*target = v
			sources[field] = SourceEnv
		}
	}
	setBool := func(env, field string, target *bool) {
		if v := os.Getenv(env); v != "" {
			*target = boolFromString(v)
			sources[field] = SourceEnv
		}
	}

	setString("FVP_TASKS", "task_file", &cfg.TaskFile)
	setString("FVP_LOG_DIR", "log_dir", &cfg.LogDir)
	setString("FVP_PROMPT_DIR", "prompt_dir", &cfg.PromptDir)
	setString("FVP_UI", "ui", &cfg.UI)
	setString("FVP_COLOR", "color", &cfg.Color)
	setBool("FVP_CONFIRM", "confirm", &cfg.Confirm)
	setString("FVP_HOOK", "hook_command", &cfg.HookCommand)
	setBool("FVP_SESSION_LOG", "session_log", &cfg.SessionLog)

	// Logging configuration
	setString("FVP_LOG_LEVEL", "log_level", &cfg.LogLevel)
	setString("FVP_LOG_FORMAT", "log_format", &cfg.LogFormat)
	setBool("FVP_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	setBool("FVP_LOG_CALLER", "log_caller", &cfg.LogCaller)

	// NO_COLOR disables color unless FVP_COLOR says otherwise.
	if _, ok := os.LookupEnv("NO_COLOR"); ok && os.Getenv("FVP_COLOR") == "" {
		cfg.Color = "never"
		sources["color"] = SourceEnv
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
