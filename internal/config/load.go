package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Entry is one effective configuration value.
type Entry struct {
	Field  string
	Value  string
	Source ConfigSource
}

// Entries returns every field with its value and source, in display order.
func (cws *ConfigWithSources) Entries() []Entry {
	fields := configFields()
	entries := make([]Entry, 0, len(fields))
	for _, field := range fields {
		entries = append(entries, Entry{
			Field:  field,
			Value:  cws.Config.Value(field),
			Source: cws.Sources[field],
		})
	}
	return entries
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.fvp/fvp.toml or OS-specific config dir)
// 3. Project config file (fvp.toml or .fvp.toml in current directory)
// 4. Environment variables
// 5. CLI flags, then the task file argument
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cfg := &Config{}

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	var files []string

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		files = append(files, userConfigFile)
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		files = append(files, projectConfigFile)
	}

	// 4. Override from environment
	loadFromEnv(cfg, sources)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
		Files:   files,
	}, nil
}

// loadConfigFile decodes the TOML file at path over cfg and records the
// source of every key the file defines.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	for _, field := range configFields() {
		if md.IsDefined(field) {
			sources[field] = source
		}
	}
	return nil
}

// finalizeConfig computes derived values and validates the result.
func finalizeConfig(cfg *Config) error {
	cfg.LogDir = expandPath(cfg.LogDir)
	cfg.PromptDir = expandPath(cfg.PromptDir)
	cfg.TaskFile = expandPath(cfg.TaskFile)

	cfg.UI = strings.ToLower(strings.TrimSpace(cfg.UI))
	cfg.Color = strings.ToLower(strings.TrimSpace(cfg.Color))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	// Determine project root
	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	// Make paths absolute if they're relative
	if cfg.TaskFile != "" && !filepath.IsAbs(cfg.TaskFile) {
		cfg.TaskFile = filepath.Join(cfg.ProjectRoot, cfg.TaskFile)
	}
	if cfg.PromptDir != "" && !filepath.IsAbs(cfg.PromptDir) {
		cfg.PromptDir = filepath.Join(cfg.ProjectRoot, cfg.PromptDir)
	}

	return cfg.Validate()
}
