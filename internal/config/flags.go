package config

import (
	"flag"
	"fmt"
	"strings"
)

// flagToField maps flag names to config field names.
var flagToField = map[string]string{
	"tasks":          "task_file",
	"log-dir":        "log_dir",
	"prompt-dir":     "prompt_dir",
	"ui":             "ui",
	"color":          "color",
	"confirm":        "confirm",
	"hook":           "hook_command",
	"session-log":    "session_log",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// DefineFlags registers the config flags on fs, bound to the fields of cfg.
func DefineFlags(cfg *Config, fs *flag.FlagSet) {
	// Paths
	fs.StringVar(&cfg.TaskFile, "tasks", cfg.TaskFile, "Path to task file")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&cfg.PromptDir, "prompt-dir", cfg.PromptDir, "Directory with prompt template overrides")

	// Interface
	fs.StringVar(&cfg.UI, "ui", cfg.UI, "Interface (console, tui)")
	fs.StringVar(&cfg.Color, "color", cfg.Color, "Color output (auto, always, never)")
	fs.BoolVar(&cfg.Confirm, "confirm", cfg.Confirm, "Ask before starting the session")

	// Hooks
	fs.StringVar(&cfg.HookCommand, "hook", cfg.HookCommand, "Hook command to run after each completed task")

	// Session log
	fs.BoolVar(&cfg.SessionLog, "session-log", cfg.SessionLog, "Write a JSONL session log")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
}

// parseFlags defines the config flags on fs, parses args and records the
// source of every flag that was set. A single positional argument names
// the task file and wins over -tasks.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("fvp", flag.ContinueOnError)
	}
	DefineFlags(cfg, fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagToField[f.Name]; ok {
			sources[field] = SourceFlag
		}
	})

	switch fs.NArg() {
	case 0:
	case 1:
		cfg.TaskFile = fs.Arg(0)
		sources["task_file"] = SourceArg
	default:
		return fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args()[1:], " "))
	}
	return nil
}
