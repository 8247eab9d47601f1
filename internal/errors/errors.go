// Package errors defines the structured error type chlog reports
// failures with: a category, a message, and concrete remediation steps
// the user can act on.
package errors

import "fmt"

// ErrorCategory groups failures by who has to act on them.
type ErrorCategory int

const (
	// Argument: the command line itself is wrong (unknown category, bad flag).
	Argument ErrorCategory = iota
	// Configuration: a config file is missing, malformed, or rejected.
	Configuration
	// Prerequisite: something the command needs is absent (changelog file, git repo).
	Prerequisite
	// Runtime: the operation itself failed.
	Runtime
)

var categoryLabels = [...]string{
	Argument:      "Argument Error",
	Configuration: "Configuration Error",
	Prerequisite:  "Prerequisite Error",
	Runtime:       "Runtime Error",
}

// String returns the display label used in formatted error output.
func (c ErrorCategory) String() string {
	if c >= 0 && int(c) < len(categoryLabels) {
		return categoryLabels[c]
	}
	return "Error"
}

// CLIError carries everything the error renderer needs: what happened,
// which category it falls in, and how to fix it. Usage is optional and
// shown for argument errors where the correct syntax helps.
type CLIError struct {
	Category    ErrorCategory
	Message     string
	Remediation []string
	Usage       string
}

func (e *CLIError) Error() string {
	return e.Message
}

func newError(category ErrorCategory, message string, remediation []string) *CLIError {
	return &CLIError{Category: category, Message: message, Remediation: remediation}
}

// NewArgumentError reports a problem with the command line itself.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return newError(Argument, message, remediation)
}

// NewArgumentErrorWithUsage is NewArgumentError plus the correct
// command syntax, rendered as a Usage line.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	err := newError(Argument, message, remediation)
	err.Usage = usage
	return err
}

// NewConfigError reports a configuration problem.
func NewConfigError(message string, remediation ...string) *CLIError {
	return newError(Configuration, message, remediation)
}

// NewPrerequisiteError reports a missing precondition.
func NewPrerequisiteError(message string, remediation ...string) *CLIError {
	return newError(Prerequisite, message, remediation)
}

// NewRuntimeError reports a failure during execution.
func NewRuntimeError(message string, remediation ...string) *CLIError {
	return newError(Runtime, message, remediation)
}

// Wrap lifts a plain error into a CLIError, keeping its message.
// Returns nil when err is nil.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return newError(category, err.Error(), remediation)
}

// WrapWithMessage lifts a plain error into a CLIError, prefixing its
// message with added context. Returns nil when err is nil.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return newError(category, fmt.Sprintf("%s: %v", message, err), remediation)
}

// AsCLIError returns err as a *CLIError, or nil when it is not one.
func AsCLIError(err error) *CLIError {
	cliErr, ok := err.(*CLIError)
	if !ok {
		return nil
	}
	return cliErr
}
