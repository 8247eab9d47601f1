// Package testutil provides the isolated environment harness for chlog's
// end-to-end tests.
package testutil

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// The chlog binary is built once per 'go test' process and shared by
// every E2EEnv.
var binary struct {
	sync.Once
	path string
	err  error
}

// E2EEnv provides an isolated environment for end-to-end testing. Each
// environment gets its own working directory and home directory so user
// and project configs never leak between tests or in from the developer's
// real home.
type E2EEnv struct {
	t       *testing.T
	tempDir string
	homeDir string
}

// CommandResult captures the result of running a chlog command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// NewE2EEnv creates a new end-to-end test environment with an isolated
// working directory and home directory.
func NewE2EEnv(t *testing.T) *E2EEnv {
	t.Helper()

	env := &E2EEnv{t: t, tempDir: t.TempDir()}

	env.homeDir = filepath.Join(env.tempDir, "home")
	if err := os.MkdirAll(env.homeDir, 0o755); err != nil {
		t.Fatalf("creating home directory: %v", err)
	}

	binary.Do(func() {
		binary.path, binary.err = buildBinary()
	})
	if binary.err != nil {
		t.Fatalf("building chlog: %v", binary.err)
	}

	return env
}

// buildBinary compiles chlog into a scratch directory and returns the
// binary path.
func buildBinary() (string, error) {
	root, err := moduleRoot()
	if err != nil {
		return "", err
	}

	dir, err := os.MkdirTemp("", "chlog-e2e-*")
	if err != nil {
		return "", fmt.Errorf("creating build directory: %w", err)
	}
	path := filepath.Join(dir, "chlog")

	cmd := exec.Command("go", "build", "-o", path, "./cmd/chlog")
	cmd.Dir = root
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("go build failed: %w\n%s", err, output)
	}
	return path, nil
}

// moduleRoot walks up from the test's working directory to the
// directory holding go.mod. 'go test' runs each package in its source
// directory, which is always inside the module.
func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no go.mod found above %s", dir)
		}
		dir = parent
	}
}

// Run executes a chlog command in the environment's working directory.
func (e *E2EEnv) Run(args ...string) CommandResult {
	return e.run(e.tempDir, nil, args)
}

// RunIn executes a chlog command in dir, which must be inside the
// environment's temp directory.
func (e *E2EEnv) RunIn(dir string, args ...string) CommandResult {
	return e.run(dir, nil, args)
}

// RunWithEnv executes a chlog command with extra environment variables
// appended to the isolated environment.
func (e *E2EEnv) RunWithEnv(extraEnv []string, args ...string) CommandResult {
	return e.run(e.tempDir, extraEnv, args)
}

func (e *E2EEnv) run(dir string, extraEnv []string, args []string) CommandResult {
	e.t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(binary.path, args...)
	cmd.Dir = dir
	cmd.Env = append(e.buildIsolatedEnv(), extraEnv...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	code := 0
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		code = exitErr.ExitCode()
	default:
		code = 1
	}

	return CommandResult{
		ExitCode: code,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
}

// buildIsolatedEnv redirects every config lookup into the sandbox while
// keeping enough of the real environment for the toolchain to work.
func (e *E2EEnv) buildIsolatedEnv() []string {
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + e.homeDir,
		"XDG_CONFIG_HOME=" + filepath.Join(e.homeDir, ".config"),
	}

	for _, key := range []string{"TERM", "LANG", "LC_ALL", "TMPDIR", "TMP", "TEMP"} {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
		}
	}

	return env
}

// TempDir returns the root temp directory for this test environment.
func (e *E2EEnv) TempDir() string {
	return e.tempDir
}

// Path resolves a path relative to the environment's temp directory.
func (e *E2EEnv) Path(rel string) string {
	return filepath.Join(e.tempDir, rel)
}

// WriteChangelog writes content as CHANGELOG.md in the temp directory
// and returns its path.
func (e *E2EEnv) WriteChangelog(content string) string {
	return e.WriteFile("CHANGELOG.md", content)
}

// WriteFile writes a file relative to the temp directory, creating
// parent directories as needed.
func (e *E2EEnv) WriteFile(rel, content string) string {
	e.t.Helper()

	path := e.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.t.Fatalf("creating directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("writing %s: %v", rel, err)
	}
	return path
}

// ReadChangelog returns the current CHANGELOG.md content.
func (e *E2EEnv) ReadChangelog() string {
	return e.ReadFile("CHANGELOG.md")
}

// ReadFile returns the content of a file relative to the temp directory.
func (e *E2EEnv) ReadFile(rel string) string {
	e.t.Helper()

	content, err := os.ReadFile(e.Path(rel))
	if err != nil {
		e.t.Fatalf("reading %s: %v", rel, err)
	}
	return string(content)
}

// ChangelogExists reports whether CHANGELOG.md exists in the temp directory.
func (e *E2EEnv) ChangelogExists() bool {
	_, err := os.Stat(e.Path("CHANGELOG.md"))
	return err == nil
}

// InitGitRepo initializes a git repository in the temp directory using
// go-git, so no git binary is required to run the suite.
func (e *E2EEnv) InitGitRepo() {
	e.t.Helper()

	if _, err := git.PlainInit(e.tempDir, false); err != nil {
		e.t.Fatalf("git init failed: %v", err)
	}
}

// Commit stages everything in the temp directory and commits it with
// the given message; the HEAD commit is what 'chlog add --from-head'
// will read.
func (e *E2EEnv) Commit(message string) {
	e.t.Helper()

	repo, err := git.PlainOpen(e.tempDir)
	if err != nil {
		e.t.Fatalf("opening test repository: %v", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		e.t.Fatalf("getting worktree: %v", err)
	}

	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		e.t.Fatalf("git add failed: %v", err)
	}

	_, err = worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@test.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		e.t.Fatalf("git commit failed: %v", err)
	}
}
