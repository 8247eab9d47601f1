package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/chlog/internal/changelog"
	"github.com/ariel-frischer/chlog/internal/config"
	clierrors "github.com/ariel-frischer/chlog/internal/errors"
	"github.com/ariel-frischer/chlog/internal/git"
	"github.com/ariel-frischer/chlog/internal/progress"
)

// loadConfiguration loads the layered configuration, honoring the
// --config flag as the project config path.
func loadConfiguration() (*config.Configuration, error) {
	if configFlag != "" {
		if _, err := os.Stat(configFlag); err != nil {
			return nil, clierrors.ConfigFileNotFound(configFlag)
		}
	}

	cfg, err := config.Load(configFlag)
	if err != nil {
		path := configFlag
		if path == "" {
			path = config.ProjectConfigPath()
		}
		return nil, clierrors.ConfigParseError(path, err)
	}

	return cfg, nil
}

// resolveChangelogPath returns the changelog file commands operate on.
// Priority: --file flag > configuration (env > project > user > default).
// A relative path that does not exist in the working directory falls
// back to the enclosing git repository root, so chlog works from
// subdirectories the way git itself does.
func resolveChangelogPath(cfg *config.Configuration) string {
	path := fileFlag
	if path == "" {
		path = cfg.Changelog.Path
	}

	if filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}

	if root, err := git.GetRepositoryRoot(); err == nil {
		candidate := filepath.Join(root, path)
		if _, err := os.Stat(candidate); err == nil {
			debugf("changelog %s not found in working directory, using %s", path, candidate)
			return candidate
		}
	}

	return path
}

// loadChangelog reads and parses the changelog at path, translating a
// missing file into a structured prerequisite error.
func loadChangelog(path string) (*changelog.Document, error) {
	doc, err := changelog.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, clierrors.ChangelogNotFound(path)
		}
		return nil, err
	}
	return doc, nil
}

// symbolsFor selects status symbols from terminal capabilities, letting
// the output.unicode config key force the ASCII set.
func symbolsFor(cfg *config.Configuration) progress.ProgressSymbols {
	caps := progress.DetectTerminalCapabilities()
	if !cfg.Output.Unicode {
		caps.SupportsUnicode = false
	}
	return progress.SelectSymbols(caps)
}

// formatOptionsFor builds terminal format options from the --plain flag,
// the output.color config key, and terminal detection.
func formatOptionsFor(cfg *config.Configuration) changelog.FormatOptions {
	caps := progress.DetectTerminalCapabilities()
	return changelog.FormatOptions{
		Plain:    plainFlag || !cfg.ColorEnabled(caps.IsTTY),
		MaxWidth: caps.Width,
	}
}

// validCategoryNames returns the lowercase category names for error
// messages and help text.
func validCategoryNames() []string {
	cats := changelog.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = strings.ToLower(c.String())
	}
	return names
}
