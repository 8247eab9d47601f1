package errors

import (
	"fmt"
	"strings"
)

// Constructors for the errors chlog surfaces to users. Each one pairs a
// short message with remediation lines so failures tell the user what to
// do next, not just what went wrong.

// UnknownCategory creates an error for an unrecognized change category.
func UnknownCategory(provided string, valid []string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unknown category: %s", provided),
		"chlog add <category> \"<text>\"",
		"Valid categories: "+strings.Join(valid, ", "),
		"Categories are case-insensitive (e.g. 'fixed' and 'Fixed' both work)",
		"Or let chlog pick one: chlog add --auto \"<text>\"",
	)
}

// MissingCategory creates an error for a missing change category argument.
func MissingCategory() *CLIError {
	return NewArgumentErrorWithUsage(
		"change category is required",
		"chlog add <category> \"<text>\"",
		"Valid categories: added, changed, deprecated, removed, fixed, security",
		"Or let chlog pick one: chlog add --auto \"<text>\"",
	)
}

// MissingEntryText creates an error for a missing change description argument.
func MissingEntryText() *CLIError {
	return NewArgumentErrorWithUsage(
		"change description is required",
		"chlog add <category> \"<text>\"",
		"Provide the change description in quotes",
		"Example: chlog add fixed \"workflow overwriting existing changelog entries\"",
	)
}

// ChangelogNotFound creates an error for a missing changelog file.
func ChangelogNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("changelog not found: %s", path),
		"Run 'chlog init' to create a fresh changelog",
		"Or point at an existing file with --file <path>",
	)
}

// ChangelogExists creates an error when init would overwrite an existing file.
func ChangelogExists(path string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("changelog already exists: %s", path),
		"Use --force to overwrite it",
		"Or pass a different target path: chlog init <path>",
	)
}

// InvalidVersion creates an error for a malformed release version.
func InvalidVersion(provided string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid version: %s", provided),
		"chlog release <version> [date]",
		"Versions follow semver MAJOR.MINOR.PATCH (e.g. 1.4.0)",
		"A leading 'v' is accepted and stripped (v1.4.0 == 1.4.0)",
	)
}

// InvalidDate creates an error for a malformed release date.
func InvalidDate(provided string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid date: %s", provided),
		"chlog release <version> [date]",
		"Dates use the ISO format YYYY-MM-DD (e.g. 2024-06-01)",
		"Omit the date to use today",
	)
}

// ConfigFileNotFound creates an error when --config points at a missing file.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("no config file at %s", path),
		"Run 'chlog config init' to write the default configuration there",
		"Or drop the --config flag to use the built-in defaults",
	)
}

// ConfigParseError creates an error for an invalid config file.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to load config file: %s", path),
		"Check the file for YAML syntax errors",
		"Reset to defaults with: chlog config init --force",
	)
}

// FlagConflict creates an error for flags that cannot be used together.
func FlagConflict(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("cannot combine %s", flags),
		reason,
		"Run 'chlog <command> --help' for the accepted forms",
	)
}

// GitNotRepository creates an error when not inside a git repository.
func GitNotRepository() *CLIError {
	return NewPrerequisiteError(
		"not a git repository",
		"Run 'chlog add --from-head' inside a git repository",
		"Or pass the text directly: chlog add --auto \"<text>\"",
	)
}

// EmptyCommitMessage creates an error when HEAD has nothing usable.
func EmptyCommitMessage() *CLIError {
	return NewPrerequisiteError(
		"HEAD commit message is empty",
		"Commit with a descriptive message before using --from-head",
		"Or pass the text directly: chlog add --auto \"<text>\"",
	)
}

// OutputNotWritable creates an error when the destination file cannot be created.
func OutputNotWritable(path string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("output file is not writable: %s", path),
		"Check permissions on the file and its parent directory",
		"Or pick another destination with --output",
	)
}
