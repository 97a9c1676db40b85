// Package hooks invokes an external command after each completed task.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Options configures a hook invocation.
type Options struct {
	// Command is the program to run, optionally followed by fixed arguments.
	Command string
	TaskID  string
	Content string
	// LogPath is the session log, or empty when session logging is off.
	LogPath string
	WorkDir string
	// Stdout and Stderr default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Result captures the outcome of a hook invocation.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
}

// Invoke runs the hook as `Command taskID content logPath`. The task is also
// exported as FVP_TASK_ID, FVP_TASK and FVP_LOG. An empty command does nothing.
func Invoke(ctx context.Context, opts Options) (Result, error) {
	fields := strings.Fields(opts.Command)
	if len(fields) == 0 {
		return Result{}, nil
	}
	if opts.TaskID == "" {
		return Result{}, errors.New("hook requires a task id")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	args := append(fields[1:], opts.TaskID, opts.Content, opts.LogPath)
	cmd := exec.CommandContext(ctx, fields[0], args...)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	cmd.Env = append(os.Environ(),
		"FVP_TASK_ID="+opts.TaskID,
		"FVP_TASK="+opts.Content,
		"FVP_LOG="+opts.LogPath,
	)
	cmd.Stdout = writerOr(opts.Stdout, os.Stdout)
	cmd.Stderr = writerOr(opts.Stderr, os.Stderr)

	err := cmd.Run()
	result := Result{
		Ran:      true,
		Command:  cmd.Args,
		ExitCode: exitCodeFromError(err),
	}
	if err != nil {
		return result, fmt.Errorf("hook command failed: %w", err)
	}
	return result, nil
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
