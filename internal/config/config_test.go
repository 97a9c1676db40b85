package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

var envKeys = []string{
	"FVP_TASKS", "FVP_LOG_DIR", "FVP_PROMPT_DIR", "FVP_UI", "FVP_COLOR", "FVP_CONFIRM",
	"FVP_HOOK", "FVP_SESSION_LOG", "FVP_LOG_LEVEL", "FVP_LOG_FORMAT",
	"FVP_LOG_TIMESTAMPS", "FVP_LOG_CALLER",
}

// isolate points every config location at fresh temp dirs and clears FVP_*.
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	home = t.TempDir()
	project = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
	t.Setenv("NO_COLOR", "")
	os.Unsetenv("NO_COLOR")
	chdir(t, project)
	return home, project
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestDefaults(t *testing.T) {
	home, _ := isolate(t)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if filepath.Base(cfg.TaskFile) != DefaultTaskFile || !filepath.IsAbs(cfg.TaskFile) {
		t.Errorf("TaskFile: got %q, want absolute %s", cfg.TaskFile, DefaultTaskFile)
	}
	if cfg.LogDir != filepath.Join(home, ".fvp") {
		t.Errorf("LogDir: got %q, want %q", cfg.LogDir, filepath.Join(home, ".fvp"))
	}
	if cfg.UI != UIConsole {
		t.Errorf("UI: got %q, want console", cfg.UI)
	}
	if cfg.Color != "auto" {
		t.Errorf("Color: got %q, want auto", cfg.Color)
	}
	if !cfg.SessionLog {
		t.Error("SessionLog: got false, want true")
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging: got %q/%q, want info/text", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.Confirm || cfg.LogTimestamps || cfg.LogCaller || cfg.HookCommand != "" || cfg.PromptDir != "" {
		t.Errorf("unexpected non-default values: %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("FVP_TASKS", "/tmp/list.txt")
	t.Setenv("FVP_LOG_DIR", "/tmp/fvp-logs")
	t.Setenv("FVP_UI", "TUI")
	t.Setenv("FVP_COLOR", "never")
	t.Setenv("FVP_CONFIRM", "yes")
	t.Setenv("FVP_HOOK", "notify.sh")
	t.Setenv("FVP_SESSION_LOG", "false")
	t.Setenv("FVP_LOG_LEVEL", "debug")
	t.Setenv("FVP_LOG_FORMAT", "json")
	t.Setenv("FVP_LOG_TIMESTAMPS", "1")
	t.Setenv("FVP_LOG_CALLER", "on")

	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("LoadWithSources() error = %v", err)
	}
	cfg := cws.Config

	if cfg.TaskFile != "/tmp/list.txt" {
		t.Errorf("TaskFile: got %q", cfg.TaskFile)
	}
	if cfg.LogDir != "/tmp/fvp-logs" {
		t.Errorf("LogDir: got %q", cfg.LogDir)
	}
	if cfg.UI != UITUI {
		t.Errorf("UI: got %q, want tui", cfg.UI)
	}
	if cfg.Color != "never" || !cfg.Confirm || cfg.HookCommand != "notify.sh" || cfg.SessionLog {
		t.Errorf("env values not applied: %+v", cfg)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" || !cfg.LogTimestamps || !cfg.LogCaller {
		t.Errorf("logging env not applied: %+v", cfg)
	}
	for _, field := range configFields() {
		if field == "prompt_dir" {
			continue
		}
		if cws.Sources[field] != SourceEnv {
			t.Errorf("source of %s: got %q, want environment", field, cws.Sources[field])
		}
	}
}

func TestNoColorEnv(t *testing.T) {
	isolate(t)
	t.Setenv("NO_COLOR", "1")

	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if cws.Config.Color != "never" {
		t.Errorf("Color: got %q, want never", cws.Config.Color)
	}

	t.Setenv("FVP_COLOR", "always")
	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Color != "always" {
		t.Errorf("FVP_COLOR should win over NO_COLOR, got %q", cfg.Color)
	}
}

func TestConfigFileLayers(t *testing.T) {
	home, project := isolate(t)
	writeConfig(t, filepath.Join(home, ".fvp", "fvp.toml"), `
task_file = "user.txt"
log_level = "warn"
hook_command = "user-hook"
`)
	writeConfig(t, filepath.Join(project, "fvp.toml"), `
task_file = "project.txt"
ui = "tui"
`)

	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("LoadWithSources() error = %v", err)
	}
	cfg := cws.Config

	if filepath.Base(cfg.TaskFile) != "project.txt" {
		t.Errorf("TaskFile: got %q, want project.txt", cfg.TaskFile)
	}
	if cfg.LogLevel != "warn" || cfg.HookCommand != "user-hook" || cfg.UI != UITUI {
		t.Errorf("layered values wrong: %+v", cfg)
	}

	want := map[string]ConfigSource{
		"task_file":    SourceProjFile,
		"ui":           SourceProjFile,
		"log_level":    SourceUserFile,
		"hook_command": SourceUserFile,
		"color":        SourceDefault,
		"session_log":  SourceDefault,
	}
	for field, source := range want {
		if cws.Sources[field] != source {
			t.Errorf("source of %s: got %q, want %q", field, cws.Sources[field], source)
		}
	}
	if len(cws.Files) != 2 {
		t.Errorf("Files: got %v, want user and project files", cws.Files)
	}
}

func TestXDGConfigFile(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME is only consulted on linux and the BSDs")
	}
	home, _ := isolate(t)
	writeConfig(t, filepath.Join(home, ".config", "fvp", "fvp.toml"), `color = "always"`)

	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if cws.Config.Color != "always" || cws.Sources["color"] != SourceUserFile {
		t.Errorf("Color: got %q from %q", cws.Config.Color, cws.Sources["color"])
	}
}

func TestHiddenProjectConfigFile(t *testing.T) {
	_, project := isolate(t)
	writeConfig(t, filepath.Join(project, ".fvp.toml"), `log_format = "logfmt"`)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogFormat != "logfmt" {
		t.Errorf("LogFormat: got %q, want logfmt", cfg.LogFormat)
	}
}

func TestConfigFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax", `task_file = `, "loading project config file"},
		{"unknown key", `max_iterations = 5`, "unknown keys: max_iterations"},
		{"bad color", `color = "purple"`, "invalid color"},
		{"bad ui", `ui = "gui"`, "invalid ui"},
		{"bad log format", `log_format = "xml"`, "invalid log_format"},
		{"bad log level", `log_level = "loud"`, "invalid log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, project := isolate(t)
			writeConfig(t, filepath.Join(project, "fvp.toml"), tt.content)

			_, err := Load(newFlagSet(), nil)
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestFlagsOverrideEverything(t *testing.T) {
	_, project := isolate(t)
	writeConfig(t, filepath.Join(project, "fvp.toml"), `log_level = "warn"`)
	t.Setenv("FVP_LOG_LEVEL", "error")
	t.Setenv("FVP_UI", "tui")

	cws, err := LoadWithSources(newFlagSet(), []string{
		"-log-level", "debug",
		"-ui=console",
		"-color", "never",
		"-session-log=false",
		"-hook", "done.sh",
	})
	if err != nil {
		t.Fatalf("LoadWithSources() error = %v", err)
	}
	cfg := cws.Config
	if cfg.LogLevel != "debug" || cfg.UI != UIConsole || cfg.Color != "never" || cfg.SessionLog || cfg.HookCommand != "done.sh" {
		t.Errorf("flags not applied: %+v", cfg)
	}
	for _, field := range []string{"log_level", "ui", "color", "session_log", "hook_command"} {
		if cws.Sources[field] != SourceFlag {
			t.Errorf("source of %s: got %q, want flag", field, cws.Sources[field])
		}
	}
}

func TestTaskFileArgument(t *testing.T) {
	_, project := isolate(t)

	cws, err := LoadWithSources(newFlagSet(), []string{"-tasks", "flag.txt", "today.txt"})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(cws.Config.TaskFile) != "today.txt" {
		t.Errorf("TaskFile: got %q, want today.txt", cws.Config.TaskFile)
	}
	if cws.Sources["task_file"] != SourceArg {
		t.Errorf("source: got %q, want argument", cws.Sources["task_file"])
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if cws.Config.ProjectRoot != wd {
		t.Errorf("ProjectRoot: got %q, want %q (project %q)", cws.Config.ProjectRoot, wd, project)
	}

	if _, err := Load(newFlagSet(), []string{"a.txt", "b.txt"}); err == nil {
		t.Error("expected error for two task files")
	}
}

func TestUnknownFlag(t *testing.T) {
	isolate(t)
	if _, err := Load(newFlagSet(), []string{"-max-iterations", "3"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestSubcommandFlagsShareFlagSet(t *testing.T) {
	isolate(t)
	fs := newFlagSet()
	lines := fs.Int("n", 20, "lines")

	if _, err := Load(fs, []string{"-n", "5", "-log-level", "warn"}); err != nil {
		t.Fatal(err)
	}
	if *lines != 5 {
		t.Errorf("subcommand flag: got %d, want 5", *lines)
	}
}

func TestExampleConfigLoads(t *testing.T) {
	_, project := isolate(t)
	writeConfig(t, filepath.Join(project, "fvp.toml"), ExampleConfig())

	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("example config does not load: %v", err)
	}
	if cws.Sources["task_file"] != SourceProjFile {
		t.Errorf("source of task_file: got %q", cws.Sources["task_file"])
	}
}

func TestEntries(t *testing.T) {
	isolate(t)
	cws, err := LoadWithSources(newFlagSet(), []string{"-confirm"})
	if err != nil {
		t.Fatal(err)
	}
	entries := cws.Entries()
	if len(entries) != len(configFields()) {
		t.Fatalf("Entries() returned %d entries, want %d", len(entries), len(configFields()))
	}
	for _, e := range entries {
		if e.Field == "confirm" && (e.Value != "true" || e.Source != SourceFlag) {
			t.Errorf("confirm entry = %+v", e)
		}
		if e.Field == "ui" && e.Value != "console" {
			t.Errorf("ui entry = %+v", e)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("FVP_TEST_DIR", "/data")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/logs", filepath.Join(home, "logs")},
		{"$FVP_TEST_DIR/tasks.txt", "/data/tasks.txt"},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBoolFromString(t *testing.T) {
	for _, s := range []string{"1", "true", "TRUE", "yes", "on", " on "} {
		if !boolFromString(s) {
			t.Errorf("boolFromString(%q) = false", s)
		}
	}
	for _, s := range []string{"0", "false", "no", "off", "", "maybe"} {
		if boolFromString(s) {
			t.Errorf("boolFromString(%q) = true", s)
		}
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory for the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(abs); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PWD", abs)
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Error(err)
		}
	})
}
