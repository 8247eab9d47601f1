package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/changelog"
	clierrors "github.com/ariel-frischer/chlog/internal/errors"
)

var releaseCmd = &cobra.Command{
	Use:   "release <version> [date]",
	Short: "Cut a release from the Unreleased section",
	Long: `Convert the Unreleased section into a released version.

The accumulated unreleased entries are stamped with the version and
date, and a fresh empty Unreleased section is started above them.
Previously released sections are never touched.

The version follows semver MAJOR.MINOR.PATCH; a leading 'v' is accepted
and stripped. The date uses ISO YYYY-MM-DD and defaults to today.

A release is refused (exit 4) when there are no unreleased entries or
the version was already released.`,
	Example: `  chlog release 1.2.0
  chlog release v1.2.0 2024-06-01
  chlog release 2.0.0-rc.1`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRelease(cmd, args)
	},
}

func init() {
	releaseCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(releaseCmd)
}

func runRelease(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	version := args[0]
	date := ""
	if len(args) == 2 {
		date = args[1]
	}

	path := resolveChangelogPath(cfg)
	doc, err := loadChangelog(path)
	if err != nil {
		return err
	}

	if err := changelog.CutRelease(doc, version, date); err != nil {
		var validationErr *changelog.ValidationError
		if errors.As(err, &validationErr) {
			switch validationErr.Field {
			case "version":
				return clierrors.InvalidVersion(version)
			case "date":
				return clierrors.InvalidDate(date)
			}
		}
		return err
	}

	if err := changelog.Save(path, doc); err != nil {
		return err
	}

	released, err := doc.GetSection(version)
	if err != nil {
		return fmt.Errorf("looking up released section: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Released %s (%s) with %d %s\n",
		symbolsFor(cfg).Checkmark, released.Label, released.Date,
		released.Count(), pluralize("entry", "entries", released.Count()))
	return nil
}

// pluralize picks the singular or plural form for a count.
func pluralize(singular, plural string, n int) string {
	if n == 1 {
		return singular
	}
	return plural
}
