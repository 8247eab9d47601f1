package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/changelog"
	clierrors "github.com/ariel-frischer/chlog/internal/errors"
)

var classifyQuietFlag bool

var classifyCmd = &cobra.Command{
	Use:   "classify \"<text>\"",
	Short: "Print the category a change description maps to",
	Long: `Classify a change description into one of the six categories without
touching the changelog.

The same classifier backs 'chlog add --auto' and '--from-head', so this
is the way to preview or script its decisions. Priority when keywords
overlap: security > deprecated > removed > fixed > added; text matching
nothing is filed under changed.

--quiet prints only the lowercase category name, ready to feed back
into 'chlog add'.`,
	Example: `  chlog classify "fix: resolve crash on startup"
  chlog classify --quiet "add new widget"
  chlog add "$(chlog classify -q "$MSG")" "$MSG"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClassify(cmd, args[0])
	},
}

func init() {
	classifyCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().BoolVarP(&classifyQuietFlag, "quiet", "q", false, "Print only the lowercase category name")
}

func runClassify(cmd *cobra.Command, text string) error {
	if strings.TrimSpace(text) == "" {
		return clierrors.MissingEntryText()
	}

	category := changelog.Classify(text)

	if classifyQuietFlag {
		fmt.Fprintln(cmd.OutOrStdout(), strings.ToLower(category.String()))
		return nil
	}

	entry := changelog.Entry{Text: text, Category: category}
	opts := changelog.FormatOptions{Plain: plainFlag}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", changelog.FormatEntrySummary(entry, opts))
	fmt.Fprintf(cmd.OutOrStdout(), "Category: %s\n", strings.ToLower(category.String()))
	return nil
}
