// Package git provides the few repository utilities chlog needs: locating the
// repository root for changelog path resolution and reading the HEAD commit
// message for 'chlog add --from-head'. It uses the go-git library so no git
// binary is required at runtime.
package git

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
)

// debugf receives git diagnostics when debug mode is on. It defaults to
// a no-op so call sites never nil-check.
var debugf = func(format string, args ...any) {}

// SetDebugLogger routes git debug output through the given logger, which
// should behave like log.Printf. Pass nil to silence it again.
func SetDebugLogger(logger func(format string, args ...any)) {
	if logger == nil {
		logger = func(string, ...any) {}
	}
	debugf = logger
}

// open locates the repository enclosing path, walking parent directories
// the way the git CLI does. An empty path means the working directory.
func open(path string) (*git.Repository, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
		path = wd
	}

	debugf("[git] opening repository at %s", path)
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// GetRepositoryRoot returns the absolute path to the repository root.
func GetRepositoryRoot() (string, error) {
	repo, err := open("")
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	debugf("[git] repository root: %s", root)
	return root, nil
}

// IsGitRepository checks if the current directory is within a git repository.
func IsGitRepository() bool {
	_, err := open("")
	return err == nil
}

// IsNotRepository reports whether err means no enclosing git repository exists.
func IsNotRepository(err error) bool {
	return errors.Is(err, git.ErrRepositoryNotExists)
}

// HeadCommitMessage returns the full message of the HEAD commit,
// with surrounding whitespace trimmed. This is a single-ref read;
// no history traversal happens.
func HeadCommitMessage() (string, error) {
	repo, err := open("")
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("reading HEAD commit %s: %w", head.Hash(), err)
	}

	debugf("[git] HEAD message: %d bytes", len(commit.Message))
	return strings.TrimSpace(commit.Message), nil
}

// HeadCommitSummary returns the subject line of the HEAD commit message.
// Changelog entries are single lines, so the body is dropped.
func HeadCommitSummary() (string, error) {
	message, err := HeadCommitMessage()
	if err != nil {
		return "", err
	}

	subject, _, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(subject), nil
}
