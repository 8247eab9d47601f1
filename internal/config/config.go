// Package config provides hierarchical configuration management for chlog using koanf.
// Configuration is loaded with priority: environment variables > project config (.chlog/config.yml)
// > user config (~/.config/chlog/config.yml) > defaults. It supports both YAML and legacy JSON
// formats, with migration utilities for transitioning from JSON to YAML.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration represents the chlog CLI tool configuration
type Configuration struct {
	// Changelog holds settings for locating the changelog document.
	Changelog ChangelogSettings `koanf:"changelog"`

	// Dedupe makes 'chlog add' skip entries already present verbatim in the
	// target category. Can be set via CHLOG_DEDUPE env var.
	Dedupe bool `koanf:"dedupe"`

	// Output controls terminal rendering (color and symbol choices).
	Output OutputSettings `koanf:"output"`

	// Watch configures the 'chlog watch' event loop.
	Watch WatchSettings `koanf:"watch"`

	// Show configures the default view of 'chlog show'.
	Show ShowSettings `koanf:"show"`
}

// ChangelogSettings locates the changelog document.
type ChangelogSettings struct {
	// Path is the changelog file commands operate on. Relative paths resolve
	// against the working directory, falling back to the enclosing git
	// repository root when the file is not found locally.
	Path string `koanf:"path" validate:"required"`
}

// OutputSettings controls terminal rendering.
type OutputSettings struct {
	// Color controls colored output: auto, always, or never.
	Color string `koanf:"color" validate:"oneof=auto always never"`

	// Unicode allows unicode symbols when the terminal supports them.
	Unicode bool `koanf:"unicode"`
}

// WatchSettings configures the watch command.
type WatchSettings struct {
	// DebounceMs is the quiet window in milliseconds after a burst of file
	// events before the changelog is re-checked.
	DebounceMs int `koanf:"debounce_ms" validate:"min=0,max=60000"`
}

// ShowSettings configures the show command.
type ShowSettings struct {
	// Last is the default number of entries shown by a bare 'chlog show'.
	Last int `koanf:"last" validate:"min=1"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .chlog/config.yml)
	ProjectConfigPath string
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	l := &loader{
		k:        koanf.New("."),
		warnings: opts.WarningWriter,
		quiet:    opts.SkipWarnings,
	}
	if l.warnings == nil {
		l.warnings = os.Stderr
	}

	for key, value := range GetDefaults() {
		l.k.Set(key, value)
	}

	userYAML, _ := UserConfigPath()
	legacyUser, _ := LegacyUserConfigPath()
	if err := l.applyScope(scope{"user", userYAML, legacyUser, "--user"}); err != nil {
		return nil, err
	}

	projectYAML := ProjectConfigPath()
	if opts.ProjectConfigPath != "" {
		projectYAML = opts.ProjectConfigPath
	}
	if err := l.applyScope(scope{"project", projectYAML, LegacyProjectConfigPath(), "--project"}); err != nil {
		return nil, err
	}

	if err := l.k.Load(env.Provider("CHLOG_", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	var cfg Configuration
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.Changelog.Path = expandHomePath(cfg.Changelog.Path)
	return &cfg, nil
}

// loader accumulates configuration layers onto a koanf instance in
// priority order, lowest first.
type loader struct {
	k        *koanf.Koanf
	warnings io.Writer
	quiet    bool
}

// scope names one configuration level and the file pair that can carry it.
type scope struct {
	name        string // "user" or "project"
	yamlPath    string
	legacyPath  string
	migrateFlag string
}

// applyScope layers one scope onto the accumulated configuration. A
// YAML file wins over a legacy JSON one, which then only triggers a
// warning. A scope with neither file contributes nothing.
func (l *loader) applyScope(s scope) error {
	legacyExists := fileExists(s.legacyPath)

	if fileExists(s.yamlPath) {
		if err := ValidateYAMLSyntax(s.yamlPath); err != nil {
			return fmt.Errorf("validating YAML syntax for %s config: %w", s.name, err)
		}
		if err := l.k.Load(file.Provider(s.yamlPath), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to load %s config %s: %w", s.name, s.yamlPath, err)
		}
		if legacyExists {
			l.warnf("Warning: Legacy JSON config found at %s (ignored, using %s)\n", s.legacyPath, s.yamlPath)
			l.warnf("  Run 'chlog config migrate %s' to remove the legacy file.\n\n", s.migrateFlag)
		}
		return nil
	}

	if legacyExists {
		if err := l.k.Load(file.Provider(s.legacyPath), json.Parser()); err != nil {
			return fmt.Errorf("failed to load legacy %s config %s: %w", s.name, s.legacyPath, err)
		}
		l.warnf("Warning: Using deprecated JSON config at %s\n", s.legacyPath)
		l.warnf("  Run 'chlog config migrate %s' to migrate to YAML format.\n\n", s.migrateFlag)
	}

	return nil
}

func (l *loader) warnf(format string, args ...interface{}) {
	if !l.quiet {
		fmt.Fprintf(l.warnings, format, args...)
	}
}

// Flatten returns the effective configuration as dotted key paths.
// Keys match the KnownKeys registry so callers can pair values with schemas.
func (c *Configuration) Flatten() map[string]interface{} {
	return map[string]interface{}{
		"changelog.path":    c.Changelog.Path,
		"dedupe":            c.Dedupe,
		"output.color":      c.Output.Color,
		"output.unicode":    c.Output.Unicode,
		"watch.debounce_ms": c.Watch.DebounceMs,
		"show.last":         c.Show.Last,
	}
}

// ColorEnabled reports whether colored output should be produced, combining
// the output.color setting with the NO_COLOR convention. The isTerminal
// argument carries the caller's TTY detection for "auto" mode.
func (c *Configuration) ColorEnabled(isTerminal bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	switch c.Output.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return isTerminal
	}
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envKeyMap maps flattened environment key names to their dotted config paths.
// Only the top level of the schema nests, so each entry restores one dot.
var envKeyMap = map[string]string{
	"changelog_path":    "changelog.path",
	"output_color":      "output.color",
	"output_unicode":    "output.unicode",
	"watch_debounce_ms": "watch.debounce_ms",
	"show_last":         "show.last",
}

// envTransform converts environment variable names to config keys
// Example: CHLOG_WATCH_DEBOUNCE_MS -> watch.debounce_ms
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "CHLOG_"))
	if mapped, ok := envKeyMap[key]; ok {
		return mapped
	}
	return key
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
