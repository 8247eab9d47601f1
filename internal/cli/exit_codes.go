package cli

import (
	"errors"
	"fmt"

	"github.com/ariel-frischer/chlog/internal/changelog"
	clierrors "github.com/ariel-frischer/chlog/internal/errors"
)

// Exit codes for the chlog CLI.
// These codes support scripting and CI/CD integration.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitValidationFailed indicates the changelog failed validation
	ExitValidationFailed = 1

	// ExitParseFailed indicates the changelog could not be parsed
	ExitParseFailed = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitReleaseFailed indicates a violated release precondition
	ExitReleaseFailed = 4
)

// exitError is a custom error type that carries an exit code. Commands
// return it after printing their own diagnostics, so Execute knows not
// to print anything further.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError creates an error that carries the given exit code.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// ExitCode returns the exit code for an error. Domain errors map to
// their documented codes; anything unclassified exits 1.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	var parseErr *changelog.ParseError
	if errors.As(err, &parseErr) {
		return ExitParseFailed
	}

	var releaseErr *changelog.ReleaseError
	if errors.As(err, &releaseErr) {
		return ExitReleaseFailed
	}

	var cliErr *clierrors.CLIError
	if errors.As(err, &cliErr) && cliErr.Category == clierrors.Argument {
		return ExitInvalidArguments
	}

	return ExitValidationFailed
}
