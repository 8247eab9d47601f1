package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/changelog"
)

var (
	showLastFlag int
	showSelfFlag bool
)

var showCmd = &cobra.Command{
	Use:   "show [version]",
	Short: "View changelog entries in the terminal",
	Long: `View changelog entries with color-coded categories.

By default, shows the most recent entries across versions. Use a
version argument to see one version in full, or 'unreleased' for the
pending changes. --last controls how many entries the default view
prints (config key show.last).

--self switches to the changelog of chlog itself, embedded at build
time, so it shows changes up to when this binary was built.`,
	Example: `  chlog show                   # Most recent entries
  chlog show unreleased        # What would ship today
  chlog show 1.2.0             # One version in full (v prefix optional)
  chlog show --last 10         # More of the default view
  chlog show --self            # chlog's own changelog
  chlog show --plain           # No colors/icons`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow(cmd, args)
	},
}

func init() {
	showCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().IntVar(&showLastFlag, "last", 0, "Number of entries to show (default: config show.last)")
	showCmd.Flags().BoolVar(&showSelfFlag, "self", false, "Show the embedded changelog of chlog itself")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	var doc *changelog.Document
	if showSelfFlag {
		doc, err = changelog.LoadEmbedded()
		if err != nil {
			return fmt.Errorf("loading embedded changelog: %w", err)
		}
	} else {
		doc, err = loadChangelog(resolveChangelogPath(cfg))
		if err != nil {
			return err
		}
	}

	opts := formatOptionsFor(cfg)

	if len(args) == 1 {
		return showVersion(doc, args[0], cmd, opts)
	}

	last := cfg.Show.Last
	if cmd.Flags().Changed("last") {
		last = showLastFlag
	}
	return showLastEntries(doc, last, cmd, opts)
}

func showVersion(doc *changelog.Document, version string, cmd *cobra.Command, opts changelog.FormatOptions) error {
	sec, err := doc.GetSection(version)
	if err != nil {
		var notFound *changelog.VersionNotFoundError
		if errors.As(err, &notFound) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Version %q not found.\n\n", version)
			fmt.Fprintf(cmd.ErrOrStderr(), "Available versions:\n")
			for _, ver := range doc.ListVersions() {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", ver)
			}
			return NewExitError(ExitInvalidArguments)
		}
		return fmt.Errorf("getting version: %w", err)
	}

	if sec.IsEmpty() {
		fmt.Fprintf(cmd.OutOrStdout(), "No entries for %s.\n", version)
		return nil
	}

	return changelog.FormatSection(sec, cmd.OutOrStdout(), opts)
}

func showLastEntries(doc *changelog.Document, n int, cmd *cobra.Command, opts changelog.FormatOptions) error {
	entries := doc.GetLastN(n)
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No changelog entries found.")
		return nil
	}

	if err := changelog.FormatTerminal(entries, cmd.OutOrStdout(), opts); err != nil {
		return fmt.Errorf("formatting entries: %w", err)
	}

	total := doc.GetEntryCount()
	if total > len(entries) {
		fmt.Fprintf(cmd.OutOrStdout(), "\n(%d of %d entries shown. Use --last %d to see all)\n",
			len(entries), total, total)
	}

	return nil
}
