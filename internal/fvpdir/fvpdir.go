// Package fvpdir provides constants and helpers for the .fvp directory layout.
package fvpdir

import "path/filepath"

const (
	// Dir is the name of the fvp state directory.
	Dir = ".fvp"

	// DefaultConfigFile is the config file name, inside Dir or a project root.
	DefaultConfigFile = "fvp.toml"

	// SessionsDir holds per-task-file session logs, inside the log directory.
	SessionsDir = "sessions"
)

// DirPath returns the .fvp directory within base.
func DirPath(base string) string {
	if base == "." || base == "" {
		return Dir
	}
	return filepath.Join(base, Dir)
}

// ConfigPath returns the config file within the .fvp directory of base.
func ConfigPath(base string) string {
	return filepath.Join(DirPath(base), DefaultConfigFile)
}

// SessionsPath returns the sessions directory under a log directory.
func SessionsPath(logDir string) string {
	return filepath.Join(logDir, SessionsDir)
}
