// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.fvp/fvp.toml or OS-specific config directory)
// 3. Project config file (fvp.toml or .fvp.toml in the working directory)
// 4. Environment variables (FVP_*)
// 5. CLI flags and the task file argument
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.fvp/fvp.toml (preferred)
// - Windows: %APPDATA%\fvp\fvp.toml
// - macOS: ~/Library/Application Support/fvp/fvp.toml
// - Linux/BSD: $XDG_CONFIG_HOME/fvp/fvp.toml or ~/.config/fvp/fvp.toml
//
// Project-level config locations (overrides user config):
// - ./fvp.toml (preferred)
// - ./.fvp.toml
package config
