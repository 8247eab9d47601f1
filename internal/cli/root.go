package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/changelog"
	clierrors "github.com/ariel-frischer/chlog/internal/errors"
	"github.com/ariel-frischer/chlog/internal/git"
)

// Command group IDs for help output organization.
const (
	GroupGettingStarted = "getting-started"
	GroupChangelog      = "changelog"
	GroupConfiguration  = "configuration"
)

// Global flags shared across all commands.
var (
	configFlag string
	fileFlag   string
	plainFlag  bool
	debugFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "chlog",
	Short: "Maintain a Keep a Changelog document from the command line",
	Long: `chlog maintains a CHANGELOG.md in the Keep a Changelog format.

Changes are recorded under the Unreleased section as they land, grouped
into the six standard categories (Added, Changed, Deprecated, Removed,
Fixed, Security). Cutting a release stamps the accumulated entries with
a version and date and starts a fresh Unreleased section.

Entries can name their category explicitly, or be classified from the
change text itself (including straight from the HEAD commit message),
which keeps changelog upkeep automatable in CI.`,
	Example: `  chlog init                                  # Create CHANGELOG.md
  chlog add fixed "resolve crash on startup"  # Record a change
  chlog add --from-head                       # Record the HEAD commit
  chlog release 1.2.0                         # Cut a release dated today
  chlog validate                              # Check structure (CI gate)
  chlog show unreleased                       # What would ship today`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if plainFlag {
			color.NoColor = true
		}
		if debugFlag {
			git.SetDebugLogger(func(format string, args ...any) {
				fmt.Fprintf(cmd.ErrOrStderr(), "[debug] "+format+"\n", args...)
			})
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to config file (default: .chlog/config.yml)")
	rootCmd.PersistentFlags().StringVarP(&fileFlag, "file", "f", "", "Path to the changelog file (default: from config, CHANGELOG.md)")
	rootCmd.PersistentFlags().BoolVar(&plainFlag, "plain", false, "Plain output without colors or decoration")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "Enable debug output on stderr")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupGettingStarted, Title: "Getting Started:"},
		&cobra.Group{ID: GroupChangelog, Title: "Changelog Commands:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
	)

	rootCmd.SetHelpCommandGroupID(GroupGettingStarted)
	rootCmd.SetCompletionCommandGroupID(GroupGettingStarted)

	// Flag parse failures are argument errors (exit 3), not runtime ones.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		hint := "Run 'chlog --help' to see available flags"
		if path := commandPath(cmd); path != "" {
			hint = fmt.Sprintf("Run 'chlog %s --help' to see available flags", path)
		}
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(), hint)
	})
}

// Execute runs the root command and prints any resulting error to
// stderr in the structured format. The returned error feeds ExitCode.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}

	// Commands returning a bare exit code already reported the failure.
	var ee *exitError
	if !errors.As(err, &ee) {
		printCommandError(rootCmd.ErrOrStderr(), err)
	}

	return err
}

// commandPath returns the command's subcommand path without the
// program name, for help hints ("chlog <path> --help").
func commandPath(cmd *cobra.Command) string {
	if !cmd.HasParent() {
		return ""
	}
	path := cmd.Name()
	for p := cmd.Parent(); p != nil && p.HasParent(); p = p.Parent() {
		path = p.Name() + " " + path
	}
	return path
}

// printCommandError renders err using the structured error format,
// classifying domain errors into CLI error categories on the way.
func printCommandError(w io.Writer, err error) {
	cliErr := classifyError(err)
	if plainFlag {
		fmt.Fprint(w, clierrors.FormatErrorPlain(cliErr))
		return
	}
	clierrors.FprintError(w, cliErr)
}

// classifyError maps domain errors onto the structured error taxonomy
// so every failure prints with a category and remediation steps.
func classifyError(err error) *clierrors.CLIError {
	var cliErr *clierrors.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var parseErr *changelog.ParseError
	if errors.As(err, &parseErr) {
		return clierrors.Wrap(err, clierrors.Runtime,
			"Fix the reported line by hand, then re-run 'chlog validate'",
			"Section headings look like '## [Unreleased]' or '## [1.2.0] - 2024-06-01'",
		)
	}

	var releaseErr *changelog.ReleaseError
	if errors.As(err, &releaseErr) {
		return clierrors.Wrap(err, clierrors.Runtime,
			"Record pending changes with 'chlog add' before releasing",
			"List released versions with 'chlog show'",
		)
	}

	var validationErr *changelog.ValidationError
	if errors.As(err, &validationErr) {
		if validationErr.Field == "document" {
			return clierrors.Wrap(err, clierrors.Runtime,
				"Run 'chlog validate' to list every issue in the document",
			)
		}
		return clierrors.Wrap(err, clierrors.Argument)
	}

	return clierrors.Wrap(err, clierrors.Runtime)
}

// debugf prints diagnostic output on stderr when --debug is set.
func debugf(format string, args ...any) {
	if debugFlag {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "[debug] "+format+"\n", args...)
	}
}
