package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ariel-frischer/chlog/internal/config"
)

// Note: these tests cannot run in parallel because they use the global
// rootCmd which has shared state. Each test changes directory and
// executes commands.

func TestConfigSetCommand(t *testing.T) {
	tests := map[string]struct {
		args           []string
		setup          func(t *testing.T, dir string)
		wantOutput     []string
		wantErr        bool
		wantErrContain string
	}{
		"set value with project flag": {
			args: []string{"config", "set", "dedupe", "true", "--project"},
			setup: func(t *testing.T, dir string) {
				if err := os.MkdirAll(filepath.Join(dir, ".chlog"), 0o755); err != nil {
					t.Fatal(err)
				}
			},
			wantOutput: []string{"Set dedupe = true in project config"},
		},
		"set nested key": {
			args: []string{"config", "set", "watch.debounce_ms", "500", "--project"},
			setup: func(t *testing.T, dir string) {
				if err := os.MkdirAll(filepath.Join(dir, ".chlog"), 0o755); err != nil {
					t.Fatal(err)
				}
			},
			wantOutput: []string{"Set watch.debounce_ms = 500"},
		},
		"set enum value": {
			args: []string{"config", "set", "output.color", "never", "--project"},
			setup: func(t *testing.T, dir string) {
				if err := os.MkdirAll(filepath.Join(dir, ".chlog"), 0o755); err != nil {
					t.Fatal(err)
				}
			},
			wantOutput: []string{"Set output.color = never"},
		},
		"invalid key with project": {
			args: []string{"config", "set", "invalid.key", "value", "--project"},
			setup: func(t *testing.T, dir string) {
				if err := os.MkdirAll(filepath.Join(dir, ".chlog"), 0o755); err != nil {
					t.Fatal(err)
				}
			},
			wantErr:        true,
			wantErrContain: "unknown configuration key",
		},
		"invalid value type with project": {
			args: []string{"config", "set", "watch.debounce_ms", "not-a-number", "--project"},
			setup: func(t *testing.T, dir string) {
				if err := os.MkdirAll(filepath.Join(dir, ".chlog"), 0o755); err != nil {
					t.Fatal(err)
				}
			},
			wantErr:        true,
			wantErrContain: "invalid integer",
		},
		"invalid enum value with project": {
			args: []string{"config", "set", "output.color", "sometimes", "--project"},
			setup: func(t *testing.T, dir string) {
				if err := os.MkdirAll(filepath.Join(dir, ".chlog"), 0o755); err != nil {
					t.Fatal(err)
				}
			},
			wantErr:        true,
			wantErrContain: "valid options: auto, always, never",
		},
		"project flag without project dir": {
			args:           []string{"config", "set", "dedupe", "true", "--project"},
			wantErr:        true,
			wantErrContain: "not in a project directory",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tmpDir := setupWorkspace(t)

			if tt.setup != nil {
				tt.setup(t, tmpDir)
			}

			stdout, _, err := executeCLI(t, tt.args...)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if tt.wantErrContain != "" && !strings.Contains(err.Error(), tt.wantErrContain) {
					t.Errorf("error = %q, want to contain %q", err.Error(), tt.wantErrContain)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			for _, want := range tt.wantOutput {
				if !strings.Contains(stdout, want) {
					t.Errorf("output = %q, want to contain %q", stdout, want)
				}
			}
		})
	}
}

func TestConfigSetRoundTrip(t *testing.T) {
	tmpDir := setupWorkspace(t)
	if err := os.MkdirAll(filepath.Join(tmpDir, ".chlog"), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, _, err := executeCLI(t, "config", "set", "show.last", "9", "--project"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	// A second set must preserve the first key.
	if _, _, err := executeCLI(t, "config", "set", "dedupe", "true", "--project"); err != nil {
		t.Fatalf("second set failed: %v", err)
	}

	stdout, _, err := executeCLI(t, "config", "get", "show.last")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if strings.TrimSpace(stdout) != "9" {
		t.Errorf("get show.last = %q, want 9", strings.TrimSpace(stdout))
	}

	stdout, _, err = executeCLI(t, "config", "get", "dedupe")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if strings.TrimSpace(stdout) != "true" {
		t.Errorf("get dedupe = %q, want true", strings.TrimSpace(stdout))
	}
}

func TestConfigGetCommand(t *testing.T) {
	tests := map[string]struct {
		args           []string
		setup          func(t *testing.T, dir string)
		wantOutput     string
		wantErr        bool
		wantErrContain string
	}{
		"get default value": {
			args:       []string{"config", "get", "changelog.path"},
			wantOutput: "CHANGELOG.md",
		},
		"get value from project config": {
			args: []string{"config", "get", "show.last"},
			setup: func(t *testing.T, dir string) {
				projectDir := filepath.Join(dir, ".chlog")
				if err := os.MkdirAll(projectDir, 0o755); err != nil {
					t.Fatal(err)
				}
				configPath := filepath.Join(projectDir, "config.yml")
				if err := os.WriteFile(configPath, []byte("show:\n  last: 7\n"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			wantOutput: "7",
		},
		"unknown key": {
			args:           []string{"config", "get", "unknown.key"},
			wantErr:        true,
			wantErrContain: "unknown configuration key",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tmpDir := setupWorkspace(t)

			if tt.setup != nil {
				tt.setup(t, tmpDir)
			}

			stdout, _, err := executeCLI(t, tt.args...)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if tt.wantErrContain != "" && !strings.Contains(err.Error(), tt.wantErrContain) {
					t.Errorf("error = %q, want to contain %q", err.Error(), tt.wantErrContain)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.TrimSpace(stdout) != tt.wantOutput {
				t.Errorf("output = %q, want %q", strings.TrimSpace(stdout), tt.wantOutput)
			}
		})
	}
}

func TestConfigShowCommand(t *testing.T) {
	setupWorkspace(t)

	stdout, _, err := executeCLI(t, "config", "show")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range []string{"changelog.path", "dedupe", "output.color", "output.unicode", "show.last", "watch.debounce_ms"} {
		if !strings.Contains(stdout, key) {
			t.Errorf("config show output missing key %q", key)
		}
	}
	if !strings.Contains(stdout, "CHANGELOG.md") {
		t.Errorf("config show should print effective values, got %q", stdout)
	}
}

func TestConfigShowHonorsEnvOverride(t *testing.T) {
	setupWorkspace(t)
	t.Setenv("CHLOG_CHANGELOG_PATH", "docs/CHANGES.md")

	stdout, _, err := executeCLI(t, "config", "show")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "docs/CHANGES.md") {
		t.Errorf("env override should win, got %q", stdout)
	}
}

func TestConfigPathCommand(t *testing.T) {
	setupWorkspace(t)

	stdout, _, err := executeCLI(t, "config", "path")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout, "User config:") {
		t.Errorf("missing user config line in %q", stdout)
	}
	if !strings.Contains(stdout, "Project config:") {
		t.Errorf("missing project config line in %q", stdout)
	}
	if !strings.Contains(stdout, "(not found)") {
		t.Errorf("fresh workspace should report missing configs, got %q", stdout)
	}
	if strings.Contains(stdout, "Migrate with:") {
		t.Errorf("no legacy configs present, migration hint unexpected in %q", stdout)
	}
}

func TestConfigPathDetectsLegacyConfig(t *testing.T) {
	tmpDir := setupWorkspace(t)
	if err := os.WriteFile(filepath.Join(tmpDir, ".chlog.json"), []byte(`{"dedupe": true}`), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := executeCLI(t, "config", "path")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "Legacy JSON config:") {
		t.Errorf("legacy config not reported in %q", stdout)
	}
	if !strings.Contains(stdout, "Migrate with: chlog config migrate") {
		t.Errorf("migration hint missing in %q", stdout)
	}
}

func TestConfigInitCommand(t *testing.T) {
	tests := map[string]struct {
		args     []string
		setup    func(t *testing.T, dir string)
		wantFile string
		wantErr  bool
	}{
		"project config": {
			args:     []string{"config", "init", "--project"},
			wantFile: filepath.Join(".chlog", "config.yml"),
		},
		"existing file refused": {
			args: []string{"config", "init", "--project"},
			setup: func(t *testing.T, dir string) {
				if err := os.MkdirAll(filepath.Join(dir, ".chlog"), 0o755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(filepath.Join(dir, ".chlog", "config.yml"), []byte("dedupe: true\n"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: true,
		},
		"force overwrites": {
			args: []string{"config", "init", "--project", "--force"},
			setup: func(t *testing.T, dir string) {
				if err := os.MkdirAll(filepath.Join(dir, ".chlog"), 0o755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(filepath.Join(dir, ".chlog", "config.yml"), []byte("dedupe: true\n"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			wantFile: filepath.Join(".chlog", "config.yml"),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tmpDir := setupWorkspace(t)

			if tt.setup != nil {
				tt.setup(t, tmpDir)
			}

			_, _, err := executeCLI(t, tt.args...)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if !strings.Contains(err.Error(), "already exists") {
					t.Errorf("error = %q, want to mention existing file", err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			content, err := os.ReadFile(filepath.Join(tmpDir, tt.wantFile))
			if err != nil {
				t.Fatalf("config file not created: %v", err)
			}
			if !strings.Contains(string(content), "changelog:") {
				t.Errorf("template missing changelog section: %q", string(content))
			}
			if !strings.Contains(string(content), "# ") {
				t.Errorf("template should be commented: %q", string(content))
			}
		})
	}
}

func TestConfigInitUserLevel(t *testing.T) {
	setupWorkspace(t)

	_, _, err := executeCLI(t, "config", "init")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// setupWorkspace redirects the user config dir into the sandbox.
	path, err := config.UserConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("user config not created at %s: %v", path, err)
	}
}

func TestConfigMigrateCommand(t *testing.T) {
	tmpDir := setupWorkspace(t)
	legacy := filepath.Join(tmpDir, ".chlog.json")
	if err := os.WriteFile(legacy, []byte(`{"dedupe": true, "show": {"last": 3}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := executeCLI(t, "config", "migrate", "--project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout, "Migrated") {
		t.Errorf("migration not reported in %q", stdout)
	}
	if !strings.Contains(stdout, "Legacy config kept as") {
		t.Errorf("backup note missing in %q", stdout)
	}

	// The YAML config now carries the legacy values.
	content, err := os.ReadFile(filepath.Join(tmpDir, ".chlog", "config.yml"))
	if err != nil {
		t.Fatalf("migrated config missing: %v", err)
	}
	if !strings.Contains(string(content), "dedupe: true") {
		t.Errorf("migrated value missing: %q", string(content))
	}

	// The legacy file is kept as a backup, not deleted.
	if _, err := os.Stat(legacy); !os.IsNotExist(err) {
		t.Errorf(".chlog.json should have been renamed away")
	}
	if _, err := os.Stat(legacy + ".bak"); err != nil {
		t.Errorf(".chlog.json.bak backup missing: %v", err)
	}

	// The effective config must now reflect the migrated values.
	stdout, _, err = executeCLI(t, "config", "get", "show.last")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if strings.TrimSpace(stdout) != "3" {
		t.Errorf("get show.last = %q, want 3", strings.TrimSpace(stdout))
	}
}

func TestConfigMigrateDryRun(t *testing.T) {
	tmpDir := setupWorkspace(t)
	legacy := filepath.Join(tmpDir, ".chlog.json")
	if err := os.WriteFile(legacy, []byte(`{"dedupe": true}`), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := executeCLI(t, "config", "migrate", "--project", "--dry-run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout, "Would migrate") {
		t.Errorf("dry run should report the plan, got %q", stdout)
	}
	if _, err := os.Stat(legacy); err != nil {
		t.Errorf("dry run must not touch the legacy file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, ".chlog", "config.yml")); !os.IsNotExist(err) {
		t.Errorf("dry run must not write the YAML config")
	}
}

func TestConfigMigrateNothingToDo(t *testing.T) {
	setupWorkspace(t)

	stdout, _, err := executeCLI(t, "config", "migrate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "No JSON config found") {
		t.Errorf("expected no-op report, got %q", stdout)
	}
}
