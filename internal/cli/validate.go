package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/changelog"
	clierrors "github.com/ariel-frischer/chlog/internal/errors"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the changelog's structural conformance",
	Long: `Parse the changelog and check its structural conformance.

Checked invariants: at most one Unreleased section, placed first;
released versions unique, semver shaped, and dated YYYY-MM-DD; category
headings in the standard order without duplicates; no empty entries.

Output is silent on success (exit 0). Each violation prints as one line
on stderr (exit 1). A file that cannot be parsed at all reports the
offending line and exits 2, so CI can distinguish a broken file from a
nonconforming one.`,
	Example: `  chlog validate
  chlog validate --file docs/CHANGELOG.md
  chlog validate && git commit -m "release notes"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd)
	},
}

func init() {
	validateCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	path := resolveChangelogPath(cfg)
	doc, err := changelog.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return clierrors.ChangelogNotFound(path)
		}

		var parseErr *changelog.ParseError
		if errors.As(err, &parseErr) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", path, parseErr.Error())
			return NewExitError(ExitParseFailed)
		}
		return err
	}

	issues := changelog.Validate(doc)
	if len(issues) == 0 {
		debugf("%s: %d sections, %d entries, no issues", path, doc.GetSectionCount(), doc.GetEntryCount())
		return nil
	}

	for _, issue := range issues {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", path, issue.String())
	}
	return NewExitError(ExitValidationFailed)
}
