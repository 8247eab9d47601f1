package config

import (
	"os"
	"path/filepath"
)

const (
	projectConfigDir = ".chlog"
	configFileName   = "config.yml"
	legacyFileName   = ".chlog.json"
)

// UserConfigDir returns the per-user chlog config directory, following
// the platform convention os.UserConfigDir uses:
//   - Linux: ~/.config/chlog (XDG_CONFIG_HOME honored)
//   - macOS: ~/Library/Application Support/chlog
//   - Windows: %APPDATA%\chlog
func UserConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "chlog"), nil
}

// UserConfigPath returns the path to the user-level config file.
func UserConfigPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// ProjectConfigPath returns the project config file path, always
// .chlog/config.yml relative to the working directory.
func ProjectConfigPath() string {
	return filepath.Join(projectConfigDir, configFileName)
}

// ProjectConfigDir returns the project-level config directory.
func ProjectConfigDir() string {
	return projectConfigDir
}

// LegacyUserConfigPath returns the pre-YAML user config location,
// ~/.chlog.json.
func LegacyUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, legacyFileName), nil
}

// LegacyProjectConfigPath returns the pre-YAML project config location,
// .chlog.json at the project root.
func LegacyProjectConfigPath() string {
	return legacyFileName
}
