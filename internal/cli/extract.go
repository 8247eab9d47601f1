package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/chlog/internal/changelog"
	clierrors "github.com/ariel-frischer/chlog/internal/errors"
)

var (
	extractFormatFlag string
	extractOutputFlag string
)

var extractCmd = &cobra.Command{
	Use:   "extract <version>",
	Short: "Extract release notes for a specific version",
	Long: `Extract the changelog entries for one version as release notes.

The default markdown output contains only the category sections, a
format suitable for GitHub release notes. --format yaml or json emits
a structured document for further processing. The notes go to stdout
unless --output names a file.

This is useful for CI/CD pipelines that create releases with notes
derived from the changelog.`,
	Example: `  chlog extract 1.2.0                       # Markdown to stdout
  chlog extract v1.2.0 --format json        # Same version, structured
  chlog extract unreleased --output NOTES.md
  gh release create v1.2.0 --notes "$(chlog extract 1.2.0)"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(cmd, args[0])
	},
}

func init() {
	extractCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractFormatFlag, "format", "markdown", "Output format: markdown, yaml, or json")
	extractCmd.Flags().StringVarP(&extractOutputFlag, "output", "o", "", "Write the notes to a file instead of stdout")
}

// releaseNotes is the structured form of one version's section for
// yaml/json output.
type releaseNotes struct {
	Version    string          `json:"version" yaml:"version"`
	Date       string          `json:"date,omitempty" yaml:"date,omitempty"`
	Categories []categoryNotes `json:"categories" yaml:"categories"`
}

type categoryNotes struct {
	Category string   `json:"category" yaml:"category"`
	Entries  []string `json:"entries" yaml:"entries"`
}

func runExtract(cmd *cobra.Command, version string) error {
	format := strings.ToLower(extractFormatFlag)
	switch format {
	case "markdown", "yaml", "json":
	default:
		return clierrors.NewArgumentErrorWithUsage(
			fmt.Sprintf("unknown format: %s", extractFormatFlag),
			"chlog extract <version> [--format markdown|yaml|json]",
			"Valid formats: markdown, yaml, json")
	}

	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	doc, err := loadChangelog(resolveChangelogPath(cfg))
	if err != nil {
		return err
	}

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

	out := cmd.OutOrStdout()
	if extractOutputFlag != "" {
		f, err := os.Create(extractOutputFlag)
		if err != nil {
			return clierrors.OutputNotWritable(extractOutputFlag)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "yaml":
		return renderNotesYAML(sec, out)
	case "json":
		return renderNotesJSON(sec, out)
	default:
		return renderNotesMarkdown(sec, out)
	}
}

// renderNotesMarkdown writes the section's categories as markdown
// suitable for GitHub release notes (no version heading).
func renderNotesMarkdown(sec *changelog.Section, w io.Writer) error {
	first := true
	for _, cat := range changelog.Categories() {
		entries := sec.EntriesFor(cat)
		if len(entries) == 0 {
			continue
		}

		if !first {
			fmt.Fprintln(w)
		}
		first = false

		fmt.Fprintf(w, "### %s\n", cat.String())
		for _, entry := range entries {
			fmt.Fprintf(w, "- %s\n", entry)
		}
	}

	return nil
}

func renderNotesYAML(sec *changelog.Section, w io.Writer) error {
	data, err := yaml.Marshal(notesFor(sec))
	if err != nil {
		return fmt.Errorf("marshaling release notes: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func renderNotesJSON(sec *changelog.Section, w io.Writer) error {
	data, err := json.MarshalIndent(notesFor(sec), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling release notes: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}

// notesFor converts a section to its serializable form. Empty
// categories are omitted.
func notesFor(sec *changelog.Section) releaseNotes {
	notes := releaseNotes{
		Version: sec.Label,
		Date:    sec.Date,
	}
	for _, cat := range changelog.Categories() {
		entries := sec.EntriesFor(cat)
		if len(entries) == 0 {
			continue
		}
		notes.Categories = append(notes.Categories, categoryNotes{
			Category: strings.ToLower(cat.String()),
			Entries:  entries,
		})
	}
	return notes
}
