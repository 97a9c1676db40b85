package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# fvp configuration file
# Values can be overridden by FVP_* environment variables or CLI flags

# Task file: plain text (one task per line) or .json
task_file = "tasks.txt"

# Log directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.fvp"

# Directory with prompt overrides (compare.txt, done.txt, help.txt)
# prompt_dir = "prompts"

# Interface: console or tui
ui = "console"

# Color output: auto, always or never
color = "auto"

# Ask "Proceed? [y/n]" before the session starts
confirm = false

# Hook command run after each completed task, as: hook <task id> <task> <log path>
# hook_command = "/path/to/hook.sh"

# Write a JSONL session log under log_dir/sessions
session_log = true

# Console logging
log_level = "info"
log_format = "text"
log_timestamps = false
log_caller = false
`
}
