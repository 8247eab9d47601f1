package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/changelog"
	clierrors "github.com/ariel-frischer/chlog/internal/errors"
	"github.com/ariel-frischer/chlog/internal/git"
)

var (
	addDedupeFlag   bool
	addAutoFlag     bool
	addFromHeadFlag bool
)

var addCmd = &cobra.Command{
	Use:   "add <category> \"<text>\"",
	Short: "Record a change in the Unreleased section",
	Long: `Record a change entry under a category of the Unreleased section.

The category is one of the six Keep a Changelog kinds: added, changed,
deprecated, removed, fixed, security (case-insensitive). The entry text
lands verbatim as one bullet; the file is rewritten atomically.

With --auto the category is derived from the text itself. With
--from-head the text is the summary line of the HEAD commit in the
enclosing git repository, classified the same way. Priority when
keywords overlap: security > deprecated > removed > fixed > added;
text matching nothing is filed under changed.

--dedupe skips the entry when identical text is already recorded in the
target category, which makes repeated CI runs idempotent. The flag
overrides the 'dedupe' config key in either direction.`,
	Example: `  chlog add fixed "resolve crash on startup"
  chlog add security "patch session fixation vulnerability"
  chlog add --auto "fix: handle empty config file"
  chlog add --from-head --dedupe
  chlog add added "support YAML output" --file docs/CHANGELOG.md`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdd(cmd, args)
	},
}

func init() {
	addCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().BoolVar(&addDedupeFlag, "dedupe", false, "Skip the entry if identical text already exists in the category")
	addCmd.Flags().BoolVar(&addAutoFlag, "auto", false, "Derive the category from the text")
	addCmd.Flags().BoolVar(&addFromHeadFlag, "from-head", false, "Record the HEAD commit message, classified automatically")
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	category, text, err := resolveEntry(args)
	if err != nil {
		return err
	}

	dedupe := cfg.Dedupe
	if cmd.Flags().Changed("dedupe") {
		dedupe = addDedupeFlag
	}

	path := resolveChangelogPath(cfg)
	doc, err := loadChangelog(path)
	if err != nil {
		return err
	}

	added, err := changelog.AppendEntry(doc, category, text, dedupe)
	if err != nil {
		return err
	}

	if !added {
		fmt.Fprintf(cmd.OutOrStdout(), "Entry already recorded under %s, skipping: %s\n",
			category, strings.TrimSpace(text))
		return nil
	}

	if err := changelog.Save(path, doc); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Recorded under %s: %s\n",
		symbolsFor(cfg).Checkmark, category, strings.TrimSpace(text))
	return nil
}

// resolveEntry determines the category and text from the positional
// arguments and the --auto/--from-head flags.
func resolveEntry(args []string) (changelog.Category, string, error) {
	switch {
	case addFromHeadFlag:
		if len(args) > 0 {
			return 0, "", clierrors.FlagConflict(
				"--from-head with positional arguments",
				"The entry text comes from the HEAD commit message, so no arguments are expected")
		}
		summary, err := git.HeadCommitSummary()
		if err != nil {
			if git.IsNotRepository(err) {
				return 0, "", clierrors.GitNotRepository()
			}
			return 0, "", fmt.Errorf("reading HEAD commit: %w", err)
		}
		if strings.TrimSpace(summary) == "" {
			return 0, "", clierrors.EmptyCommitMessage()
		}
		debugf("classifying HEAD commit summary: %q", summary)
		return changelog.Classify(summary), summary, nil

	case addAutoFlag:
		if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
			return 0, "", clierrors.MissingEntryText()
		}
		if len(args) > 1 {
			return 0, "", clierrors.FlagConflict(
				"--auto with a category argument",
				"Pass only the text; the category is derived from it")
		}
		return changelog.Classify(args[0]), args[0], nil

	default:
		if len(args) == 0 {
			return 0, "", clierrors.MissingCategory()
		}
		category, err := changelog.ParseCategory(args[0])
		if err != nil {
			return 0, "", clierrors.UnknownCategory(args[0], validCategoryNames())
		}
		if len(args) < 2 || strings.TrimSpace(args[1]) == "" {
			return 0, "", clierrors.MissingEntryText()
		}
		return category, args[1], nil
	}
}
