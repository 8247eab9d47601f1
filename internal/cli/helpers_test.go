package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// Note: command tests cannot run in parallel because they use the global
// rootCmd which has shared state. Each test changes directory and
// executes commands.

// testChangelog is a canonical document with entries in every section,
// shared by the command tests.
const testChangelog = `# Changelog

All notable changes to this project will be documented in this file.

## [Unreleased]

### Added

- New widget preview

## [1.1.0] - 2024-06-01

### Added

- VM status checking

### Fixed

- Workflow overwriting existing changelog entries

## [1.0.0] - 2024-05-01

### Added

- Initial release

[Unreleased]: https://example.com/compare/v1.1.0...HEAD
[1.1.0]: https://example.com/compare/v1.0.0...v1.1.0
[1.0.0]: https://example.com/releases/tag/v1.0.0
`

// setupWorkspace moves the test into an empty temp directory with config
// lookups isolated from the developer's real files.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	origDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	require.NoError(t, os.Chdir(tmpDir))

	t.Setenv("HOME", filepath.Join(tmpDir, "home"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "home", ".config"))

	return tmpDir
}

// writeTestChangelog writes the shared fixture as CHANGELOG.md in dir.
func writeTestChangelog(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "CHANGELOG.md")
	require.NoError(t, os.WriteFile(path, []byte(testChangelog), 0644))
	return path
}

// executeCLI runs the root command with args and captures stdout and
// stderr separately. Flag state is reset first so table cases cannot
// leak parsed flags into each other.
func executeCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetAllFlags()

	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	rootCmd.SetOut(outBuf)
	rootCmd.SetErr(errBuf)
	rootCmd.SetArgs(args)

	err = rootCmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

// resetAllFlags restores every command flag to its default value and
// clears the parsed marker pflag keeps between Execute calls.
func resetAllFlags() {
	resetFlags(rootCmd, "config", "file", "plain", "debug")
	resetFlags(addCmd, "dedupe", "auto", "from-head")
	resetFlags(showCmd, "last", "self")
	resetFlags(initCmd, "force")
	resetFlags(extractCmd, "format", "output")
	resetFlags(classifyCmd, "quiet")
	resetFlags(configSetCmd, "project")
	resetFlags(configInitCmd, "project", "force")
	resetFlags(configMigrateCmd, "user", "project", "dry-run")
}

func resetFlags(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			f = cmd.PersistentFlags().Lookup(name)
		}
		if f == nil {
			continue
		}
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
}

// findCommand locates a direct subcommand of rootCmd by name.
func findCommand(t *testing.T, name string) *cobra.Command {
	t.Helper()
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name {
			return cmd
		}
	}
	t.Fatalf("command %q not registered", name)
	return nil
}
